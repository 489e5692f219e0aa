package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
//
// extern int  commit_hook_tramp(void*);
// extern void rollback_hook_tramp(void*);
// extern void update_hook_tramp(void*, int, char*, char*, sqlite3_int64);
import "C"

import (
	"unsafe"

	"github.com/mattn/go-pointer"
)

// CommitHookFunc is invoked immediately before a transaction commits. A
// non-zero return converts the commit into a rollback.
type CommitHookFunc func() int

// RollbackHookFunc is invoked whenever a transaction rolls back.
type RollbackHookFunc func()

// RegisterCommitHook installs fn as the connection's commit hook, replacing
// any hook previously installed. A nil fn removes the hook.
func (c *Conn) RegisterCommitHook(fn CommitHookFunc) {
	var prev unsafe.Pointer
	if fn == nil {
		prev = C._sqlite3_commit_hook(c.db, nil, nil)
	} else {
		prev = C._sqlite3_commit_hook(c.db, (*[0]byte)(C.commit_hook_tramp), pointer.Save(fn))
	}
	pointer.Unref(prev) // safe even if it's not ours: a no-op on a foreign pointer
}

// RegisterRollbackHook installs fn as the connection's rollback hook,
// replacing any hook previously installed. A nil fn removes the hook.
func (c *Conn) RegisterRollbackHook(fn RollbackHookFunc) {
	var prev unsafe.Pointer
	if fn == nil {
		prev = C._sqlite3_rollback_hook(c.db, nil, nil)
	} else {
		prev = C._sqlite3_rollback_hook(c.db, (*[0]byte)(C.rollback_hook_tramp), pointer.Save(fn))
	}
	pointer.Unref(prev)
}

//export commit_hook_tramp
func commit_hook_tramp(p unsafe.Pointer) C.int {
	fn := pointer.Restore(p).(CommitHookFunc)
	return C.int(fn())
}

//export rollback_hook_tramp
func rollback_hook_tramp(p unsafe.Pointer) {
	pointer.Restore(p).(RollbackHookFunc)()
}

// HookOp identifies the kind of row-level change an update hook observed.
type HookOp int

//noinspection GoSnakeCaseUsage
const (
	HookInsert = HookOp(C.SQLITE_INSERT)
	HookUpdate = HookOp(C.SQLITE_UPDATE)
	HookDelete = HookOp(C.SQLITE_DELETE)
)

func (op HookOp) String() string {
	switch op {
	case HookInsert:
		return "INSERT"
	case HookUpdate:
		return "UPDATE"
	case HookDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// UpdateHookFunc is invoked after a single row is inserted, updated or
// deleted in a rowid table. Called from inside the statement that performed
// the change; a panic inside fn is recovered at the trampoline boundary,
// logged, and swallowed, matching the bridge's "no mid-engine-callback
// panics" guarantee.
type UpdateHookFunc func(op HookOp, database, table string, rowid int64)

// SetUpdateHook installs fn as the connection's single update-hook slot,
// replacing any hook previously installed.
func (c *Conn) SetUpdateHook(fn UpdateHookFunc) {
	c.update = fn
	var prev unsafe.Pointer
	if fn == nil {
		prev = C._sqlite3_update_hook(c.db, nil, nil)
	} else {
		prev = C._sqlite3_update_hook(c.db, (*[0]byte)(C.update_hook_tramp), pointer.Save(c))
	}
	pointer.Unref(prev)
}

// ClearUpdateHook removes the connection's update hook, if any.
func (c *Conn) ClearUpdateHook() { c.SetUpdateHook(nil) }

//export update_hook_tramp
func update_hook_tramp(p unsafe.Pointer, op C.int, db *C.char, table *C.char, rowid C.sqlite3_int64) {
	conn := pointer.Restore(p).(*Conn)
	fn := conn.update
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			conn.Log.Logf("[WARN] sqlite: update hook panicked: %v", r)
		}
	}()
	fn(HookOp(op), C.GoString(db), C.GoString(table), int64(rowid))
}
