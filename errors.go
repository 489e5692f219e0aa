package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import "fmt"

// ErrorCode wraps a raw sqlite3 result code. An operation that fails inside
// the engine returns either an ErrorCode or an *EngineError wrapping one
// (reachable with errors.As), so callers can dispatch on the exact code
// sqlite3 reported; SQLITE_READONLY is returned as ErrReadOnly instead.
// see: https://www.sqlite.org/rescode.html
type ErrorCode C.int

//noinspection GoSnakeCaseUsage
const (
	SQLITE_OK         = ErrorCode(C.SQLITE_OK)
	SQLITE_ERROR      = ErrorCode(C.SQLITE_ERROR)
	SQLITE_INTERNAL   = ErrorCode(C.SQLITE_INTERNAL)
	SQLITE_PERM       = ErrorCode(C.SQLITE_PERM)
	SQLITE_ABORT      = ErrorCode(C.SQLITE_ABORT)
	SQLITE_BUSY       = ErrorCode(C.SQLITE_BUSY)
	SQLITE_LOCKED     = ErrorCode(C.SQLITE_LOCKED)
	SQLITE_NOMEM      = ErrorCode(C.SQLITE_NOMEM)
	SQLITE_READONLY   = ErrorCode(C.SQLITE_READONLY)
	SQLITE_INTERRUPT  = ErrorCode(C.SQLITE_INTERRUPT)
	SQLITE_IOERR      = ErrorCode(C.SQLITE_IOERR)
	SQLITE_CORRUPT    = ErrorCode(C.SQLITE_CORRUPT)
	SQLITE_NOTFOUND   = ErrorCode(C.SQLITE_NOTFOUND)
	SQLITE_FULL       = ErrorCode(C.SQLITE_FULL)
	SQLITE_CANTOPEN   = ErrorCode(C.SQLITE_CANTOPEN)
	SQLITE_PROTOCOL   = ErrorCode(C.SQLITE_PROTOCOL)
	SQLITE_SCHEMA     = ErrorCode(C.SQLITE_SCHEMA)
	SQLITE_TOOBIG     = ErrorCode(C.SQLITE_TOOBIG)
	SQLITE_CONSTRAINT = ErrorCode(C.SQLITE_CONSTRAINT)
	SQLITE_MISMATCH   = ErrorCode(C.SQLITE_MISMATCH)
	SQLITE_MISUSE     = ErrorCode(C.SQLITE_MISUSE)
	SQLITE_RANGE      = ErrorCode(C.SQLITE_RANGE)
	SQLITE_NOTADB     = ErrorCode(C.SQLITE_NOTADB)
	SQLITE_ROW        = ErrorCode(C.SQLITE_ROW)
	SQLITE_DONE       = ErrorCode(C.SQLITE_DONE)
)

// ok reports whether the code represents a non-error completion
// (SQLITE_OK, SQLITE_ROW or SQLITE_DONE).
func (e ErrorCode) ok() bool {
	return e == SQLITE_OK || e == SQLITE_ROW || e == SQLITE_DONE
}

// String renders the engine's English description of the result code
// (sqlite3_errstr); a code the engine does not recognise renders as
// "unknown error".
func (e ErrorCode) String() string {
	return C.GoString(C._sqlite3_errstr(C.int(e)))
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("sqlite: %s (%d)", e.String(), int(e))
}

// errorIfNotOk converts a raw sqlite3 result code into an error, or nil if
// the code denotes success. SQLITE_READONLY is translated to ErrReadOnly,
// the named sentinel for a write rejected by a read-only surface.
func errorIfNotOk(res C.int) error {
	err := ErrorCode(res)
	if err.ok() {
		return nil
	}
	if err == SQLITE_READONLY {
		return ErrReadOnly
	}
	return err
}

// EngineError pairs an ErrorCode with the engine's printable message for the
// connection that produced it (sqlite3_errmsg), satisfying spec's
// engine-error(code, message) kind.
type EngineError struct {
	Code    ErrorCode
	Message string
}

func (e *EngineError) Error() string {
	if e.Message == "" {
		return e.Code.Error()
	}
	return fmt.Sprintf("sqlite: %s: %s", e.Code.String(), e.Message)
}

func (e *EngineError) Unwrap() error { return e.Code }

// libErr builds an EngineError carrying the connection's current error
// message alongside the raw result code. SQLITE_READONLY is translated to
// ErrReadOnly instead, whether it came from a virtual table with no Update
// callback or a connection deserialized in read-only mode — the engine
// reports both the same way, so both surface the same named sentinel.
func libErr(db *C.sqlite3, rc C.int) error {
	if ErrorCode(rc) == SQLITE_READONLY {
		return ErrReadOnly
	}
	var msg string
	if db != nil {
		msg = C.GoString(C._sqlite3_errmsg(db))
	}
	return &EngineError{Code: ErrorCode(rc), Message: msg}
}

// ParamBindError reports an unknown parameter name or an out-of-range
// parameter index passed to a bind operation.
type ParamBindError struct{ Reason string }

func (e *ParamBindError) Error() string { return "sqlite: bind: " + e.Reason }

// TypeMismatchError reports a typed extraction (FromSql) applied to a cell
// whose underlying storage class cannot be converted to the requested type.
type TypeMismatchError struct{ Expected, Actual string }

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("sqlite: type mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// ColumnNotFoundError reports a by-name or by-index column lookup miss.
type ColumnNotFoundError struct{ Key string }

func (e *ColumnNotFoundError) Error() string { return "sqlite: column not found: " + e.Key }

// NullColumnError reports a typed extraction of SQL NULL into a non-optional
// host type.
type NullColumnError struct{ Name string }

func (e *NullColumnError) Error() string {
	return "sqlite: unexpected NULL in required column: " + e.Name
}

// ErrUseAfterClose is returned by any operation invoked against a handle
// (Conn, Stmt, Blob, Backup) whose underlying engine resource has already
// been released.
var ErrUseAfterClose = useAfterCloseError{}

type useAfterCloseError struct{}

func (useAfterCloseError) Error() string { return "sqlite: use after close" }

// ErrReadOnly is returned by any write attempted against a read-only
// surface: a virtual table with no Update callback, or a connection
// deserialized in read-only mode.
var ErrReadOnly = readOnlyError{}

type readOnlyError struct{}

func (readOnlyError) Error() string { return "sqlite: read-only" }
