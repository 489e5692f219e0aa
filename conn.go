// Package sqlite provides a safe, typed Go bridge over the vendored SQLite3
// C engine: handle lifetimes, value marshalling, callbacks and
// extensibility (virtual tables, user-defined functions, hooks) are made
// idiomatic and memory-safe, while the engine itself — B-tree storage, WAL,
// VDBE, locking, the SQL parser/planner — is consumed unchanged.
package sqlite

// #include <stdlib.h>
// #include <string.h>
// #include "sqlite3.h"
// #include "unlock_notify.h"
// #include "bridge/bridge.h"
import "C"

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/go-pkgz/lgr"
	"github.com/mattn/go-pointer"
)

// Conn is an open connection to an SQLite3 database. It owns the engine
// connection handle plus all process-wide-per-connection registration state:
// registered UDFs, the single update-hook slot, and registered virtual-table
// modules. A Conn may only be used by one goroutine at a time; statements
// must never be stepped concurrently on the same Conn.
type Conn struct {
	closer

	db         *C.sqlite3
	unlockNote *C._unlock_note

	// Log receives best-effort diagnostics for failures that are logged and
	// swallowed rather than surfaced as errors (a failed rollback superseded
	// by the original error, a panicking update-hook callback). Defaults to
	// a no-op sink; set via WithLogger.
	Log lgr.L

	interrupted int32 // atomic; set by Interrupt, read by Interrupted

	commit   CommitHookFunc
	rollback RollbackHookFunc
	update   UpdateHookFunc

	pAux []unsafe.Pointer // handle-table entries owned by this Conn, released at Close
}

// OpenOption configures a Conn at Open/OpenMemory time.
type OpenOption func(*openConfig)

type openConfig struct {
	flags  C.int
	logger lgr.L
}

// WithLogger installs a logger that receives best-effort diagnostics. The
// default is a no-op sink.
func WithLogger(l lgr.L) OpenOption { return func(c *openConfig) { c.logger = l } }

// WithReadOnly opens the connection without write or create access.
func WithReadOnly() OpenOption {
	return func(c *openConfig) { c.flags = C.SQLITE_OPEN_READONLY }
}

// Open opens a connection to the database file at path, creating it if it
// does not already exist (unless WithReadOnly is given).
// see: https://www.sqlite.org/c3ref/open.html
func Open(path string, opts ...OpenOption) (*Conn, error) {
	cfg := &openConfig{flags: C.SQLITE_OPEN_READWRITE | C.SQLITE_OPEN_CREATE, logger: lgr.NoOp}
	for _, o := range opts {
		o(cfg)
	}

	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))

	var db *C.sqlite3
	rc := C._sqlite3_open_v2(cpath, &db, cfg.flags, nil)
	if err := ErrorCode(rc); !err.ok() {
		e := libErr(db, rc)
		C._sqlite3_close(db)
		return nil, e
	}

	c := wrap(db)
	c.Log = cfg.logger
	return c, nil
}

// OpenMemory opens a private, temporary in-memory database. Each call
// yields an independent database, equivalent to Open(":memory:").
func OpenMemory(opts ...OpenOption) (*Conn, error) {
	return Open(":memory:", opts...)
}

// wrap wraps an already-opened *C.sqlite3 handle, used both by Open and by
// the loadable-extension entry point (extension.go).
func wrap(db *C.sqlite3) *Conn {
	c := &Conn{db: db, unlockNote: C._unlock_note_alloc(), Log: lgr.NoOp}
	C._sqlite3_extended_result_codes(db, 1)

	runtime.SetFinalizer(c, func(c *Conn) { _ = c.Close() })
	return c
}

// Close releases all resources associated with the connection. If
// statements, BLOB handles or backups created from it are still
// outstanding, close is deferred (close-v2 semantics) until they are all
// released; the connection becomes unusable immediately regardless.
// Close is idempotent.
// see: https://www.sqlite.org/c3ref/close.html
func (c *Conn) Close() error {
	if !c.markClosed() {
		return nil
	}
	runtime.SetFinalizer(c, nil)
	C._unlock_note_free(c.unlockNote)

	for _, p := range c.pAux {
		pointer.Unref(p)
	}
	c.pAux = nil

	if rc := C._sqlite3_close(c.db); !ErrorCode(rc).ok() {
		// close-v2 tolerates outstanding statements/blobs/backups, finishing
		// the connection off once the last one is released.
		C._sqlite3_close_v2(c.db)
		if ErrorCode(rc) != SQLITE_BUSY {
			return libErr(c.db, rc)
		}
	}
	return nil
}

func (c *Conn) checkUsable() error {
	if c.isClosed() {
		return ErrUseAfterClose
	}
	return nil
}

// ExecRaw runs one or more semicolon-separated SQL statements without
// reading back any rows. Intended for DDL and statements whose results are
// discarded.
func (c *Conn) ExecRaw(sql string) error {
	if err := c.checkUsable(); err != nil {
		return err
	}
	csql := C.CString(sql)
	defer C.free(unsafe.Pointer(csql))
	if rc := C._sqlite3_exec(c.db, csql, nil, nil, nil); !ErrorCode(rc).ok() {
		return libErr(c.db, rc)
	}
	return nil
}

// Query prepares sql, steps through every row it produces, and returns them
// as an in-memory sequence. The statement is finalized before returning.
func (c *Conn) Query(sql string, args ...interface{}) ([]*Row, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	stmt, _, err := c.Prepare(sql)
	if err != nil {
		return nil, err
	}
	defer stmt.Finalize()

	if err := stmt.BindAll(args...); err != nil {
		return nil, err
	}

	var rows []*Row
	for {
		has, err := stmt.Step()
		if err != nil {
			return nil, err
		}
		if !has {
			break
		}
		rows = append(rows, stmt.currentRow())
	}
	return rows, nil
}

// QueryOne is like Query but returns only the first row, or nil if the
// query produced none. Subsequent rows are discarded.
func (c *Conn) QueryOne(sql string, args ...interface{}) (*Row, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	stmt, _, err := c.Prepare(sql)
	if err != nil {
		return nil, err
	}
	defer stmt.Finalize()

	if err := stmt.BindAll(args...); err != nil {
		return nil, err
	}

	has, err := stmt.Step()
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, nil
	}
	return stmt.currentRow(), nil
}

// LastInsertRowID reports the rowid of the most recently successful INSERT.
// see: https://www.sqlite.org/c3ref/last_insert_rowid.html
func (c *Conn) LastInsertRowID() int64 {
	return int64(C._sqlite3_last_insert_rowid(c.db))
}

// Changes reports the number of rows changed, inserted or deleted by the
// most recently completed INSERT/UPDATE/DELETE statement (not the whole
// session — see TotalChanges for that).
// see: https://www.sqlite.org/c3ref/changes.html
func (c *Conn) Changes() int {
	return int(C._sqlite3_changes(c.db))
}

// TotalChanges reports the number of rows changed, inserted or deleted
// across the lifetime of the connection, including changes made by
// triggers and foreign-key actions.
// see: https://www.sqlite.org/c3ref/total_changes.html
func (c *Conn) TotalChanges() int {
	return int(C._sqlite3_total_changes(c.db))
}

// BusyTimeout sets the engine's built-in wait-on-lock duration, in
// milliseconds, before a blocked statement fails with SQLITE_BUSY.
// see: https://www.sqlite.org/c3ref/busy_timeout.html
func (c *Conn) BusyTimeout(ms int) error {
	return errorIfNotOk(C._sqlite3_busy_timeout(c.db, C.int(ms)))
}

// Interrupt causes any statement currently stepping on this connection to
// abort at its next safe point with an interrupt error. Safe to call from a
// goroutine other than the one performing the step.
// see: https://www.sqlite.org/c3ref/interrupt.html
func (c *Conn) Interrupt() {
	atomic.StoreInt32(&c.interrupted, 1)
	C._sqlite3_interrupt(c.db)
}

// Interrupted reports whether Interrupt has been called on this connection.
func (c *Conn) Interrupted() bool {
	return atomic.LoadInt32(&c.interrupted) != 0
}

// AutoCommit reports whether the connection is outside of an explicit
// transaction started by BEGIN.
// see: https://www.sqlite.org/c3ref/get_autocommit.html
func (c *Conn) AutoCommit() bool {
	return C._sqlite3_get_autocommit(c.db) != 0
}

func (c *Conn) saveAux(v interface{}) unsafe.Pointer {
	p := pointer.Save(v)
	c.pAux = append(c.pAux, p)
	return p
}

func (c *Conn) String() string {
	return fmt.Sprintf("sqlite.Conn(%p)", c.db)
}
