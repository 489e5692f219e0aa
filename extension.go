package sqlite

// #cgo CFLAGS: -fPIC
//
// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

// ExtensionFunc is a sqlite3 runtime-loadable-extension entry point,
// invoked by the engine whenever a host application registers the
// extension with a connection via sqlite3_auto_extension/load_extension.
// This is a legacy surface kept alongside Open/OpenMemory for embedders
// that load this package as a shared-library extension rather than
// linking it directly.
type ExtensionFunc func(*ExtensionApi) (ErrorCode, error)

// extensions maps registered extension names to their entry point.
// Access is not synchronised and is therefore not safe for concurrent
// registration from multiple goroutines.
var extensions = make(map[string]ExtensionFunc)

// RegisterNamed registers fn under name.
func RegisterNamed(name string, fn ExtensionFunc) { extensions[name] = fn }

// Register registers fn under the default name, kept for backwards
// compatibility with single-extension builds.
func Register(fn ExtensionFunc) { RegisterNamed("default", fn) }

//export go_sqlite3_extension_init
func go_sqlite3_extension_init(name *C.char, db *C.sqlite3, msg **C.char) (code ErrorCode) {
	extName := C.GoString(name)

	fn, found := extensions[extName]
	if !found {
		*msg = _allocate_string("no extension with name '" + extName + "' registered")
		return SQLITE_ERROR
	}

	var err error
	if code, err = fn(&ExtensionApi{conn: wrap(db)}); err != nil {
		*msg = _allocate_string(err.Error())
	}
	return code
}

// ExtensionApi is the handle a loadable-extension entry point receives. It
// delegates every operation to the *Conn wrapping the same engine
// connection, so extension code and directly-embedded code share one
// implementation.
type ExtensionApi struct{ conn *Conn }

// Connection returns the *Conn backing this extension invocation, for
// embedders that prefer the direct API over ExtensionApi's thin surface.
func (ext *ExtensionApi) Connection() *Conn { return ext.conn }

// AutoCommit reports the connection's autocommit status.
func (ext *ExtensionApi) AutoCommit() bool { return ext.conn.AutoCommit() }

// Version returns the engine's library version number.
func (ext *ExtensionApi) Version() int { return int(C._sqlite3_libversion_number()) }

// LimitId identifies one of the engine's run-time limit knobs.
// see: https://www.sqlite.org/c3ref/c_limit_attached.html
type LimitId int

//noinspection GoSnakeCaseUsage
const (
	LIMIT_LENGTH              = LimitId(C.SQLITE_LIMIT_LENGTH)
	LIMIT_SQL_LENGTH          = LimitId(C.SQLITE_LIMIT_SQL_LENGTH)
	LIMIT_COLUMN              = LimitId(C.SQLITE_LIMIT_COLUMN)
	LIMIT_EXPR_DEPTH          = LimitId(C.SQLITE_LIMIT_EXPR_DEPTH)
	LIMIT_COMPOUND_SELECT     = LimitId(C.SQLITE_LIMIT_COMPOUND_SELECT)
	LIMIT_VDBE_OP             = LimitId(C.SQLITE_LIMIT_VDBE_OP)
	LIMIT_FUNCTION_ARG        = LimitId(C.SQLITE_LIMIT_FUNCTION_ARG)
	LIMIT_ATTACHED            = LimitId(C.SQLITE_LIMIT_ATTACHED)
	LIMIT_LIKE_PATTERN_LENGTH = LimitId(C.SQLITE_LIMIT_LIKE_PATTERN_LENGTH)
	LIMIT_VARIABLE_NUMBER     = LimitId(C.SQLITE_LIMIT_VARIABLE_NUMBER)
	LIMIT_TRIGGER_DEPTH       = LimitId(C.SQLITE_LIMIT_TRIGGER_DEPTH)
	LIMIT_WORKER_THREADS      = LimitId(C.SQLITE_LIMIT_WORKER_THREADS)
)

// Limit queries the current value of the limit with the given identifier.
func (ext *ExtensionApi) Limit(id LimitId) int {
	return int(C._sqlite3_limit(ext.conn.db, C.int(id), C.int(-1)))
}

// SetLimit sets the limit for the given identifier, returning its prior
// value.
func (ext *ExtensionApi) SetLimit(id LimitId, val int) int {
	return int(C._sqlite3_limit(ext.conn.db, C.int(id), C.int(val)))
}

// RegisterCommitHook delegates to Conn.RegisterCommitHook.
func (ext *ExtensionApi) RegisterCommitHook(fn CommitHookFunc) { ext.conn.RegisterCommitHook(fn) }

// RegisterRollbackHook delegates to Conn.RegisterRollbackHook.
func (ext *ExtensionApi) RegisterRollbackHook(fn RollbackHookFunc) {
	ext.conn.RegisterRollbackHook(fn)
}

// CreateFunction delegates to Conn's scalar/aggregate/window registration,
// picking the right registration path from the interfaces fn implements.
func (ext *ExtensionApi) CreateFunction(name string, fn Function) error {
	return ext.conn.createFunction(name, fn)
}

// CreateCollation delegates to Conn.CreateCollation.
func (ext *ExtensionApi) CreateCollation(name string, cmp func(string, string) int) error {
	return ext.conn.CreateCollation(name, cmp)
}

// CreateModule delegates to Conn.CreateModule.
func (ext *ExtensionApi) CreateModule(name string, module Module, opts ...ModuleOption) error {
	return ext.conn.CreateModule(name, module, opts...)
}
