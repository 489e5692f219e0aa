package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import "unsafe"

// ColumnType are codes for each of the SQLite fundamental data types:
// https://www.sqlite.org/c3ref/c_blob.html
type ColumnType int

//noinspection GoSnakeCaseUsage
const (
	SQLITE_INTEGER = ColumnType(C.SQLITE_INTEGER)
	SQLITE_FLOAT   = ColumnType(C.SQLITE_FLOAT)
	SQLITE_TEXT    = ColumnType(C.SQLITE3_TEXT)
	SQLITE_BLOB    = ColumnType(C.SQLITE_BLOB)
	SQLITE_NULL    = ColumnType(C.SQLITE_NULL)
)

func (t ColumnType) String() string {
	switch t {
	case SQLITE_INTEGER:
		return "INTEGER"
	case SQLITE_FLOAT:
		return "FLOAT"
	case SQLITE_TEXT:
		return "TEXT"
	case SQLITE_BLOB:
		return "BLOB"
	case SQLITE_NULL:
		return "NULL"
	default:
		return "UNKNOWN"
	}
}

// Value wraps an engine-owned sqlite3_value — a cell produced by the engine
// and handed to Go code as a UDF argument, a column value, or a virtual
// table Filter/Update argument. It is a read view only: the pointer it
// wraps is valid exactly as long as the call that produced it and must
// never be retained past the callback that received it.
//
// adapted from https://github.com/crawshaw/sqlite/blob/ae45c9066f6e7b62bb7b491a0c7c9659f866ce7c/func.go
type Value struct{ ptr *C.sqlite3_value }

// IsNull reports whether the cell holds SQL NULL, or whether this Value is
// the zero Value (no underlying cell at all, e.g. a missing vtab argument).
func (v Value) IsNull() bool {
	return v.ptr == nil || v.Type() == SQLITE_NULL
}

func (v Value) Int() int         { return int(C._sqlite3_value_int(v.ptr)) }
func (v Value) Int64() int64     { return int64(C._sqlite3_value_int64(v.ptr)) }
func (v Value) Float() float64   { return float64(C._sqlite3_value_double(v.ptr)) }
func (v Value) Len() int         { return int(C._sqlite3_value_bytes(v.ptr)) }
func (v Value) Type() ColumnType { return ColumnType(C._sqlite3_value_type(v.ptr)) }

// SubType returns the value's subtype, an application-defined tag a UDF can
// attach via Context.ResultSubType and a downstream UDF can inspect to learn
// the value came from a particular producer without reparsing it.
// see: https://www.sqlite.org/c3ref/value_subtype.html
func (v Value) SubType() int { return int(C._sqlite3_value_subtype(v.ptr)) }

// Changed reports whether, in an xUpdate callback, this column's value
// differs from the one already stored (an UNCHANGED() marker from the
// engine's partial-update optimisation).
func (v Value) Changed() bool { return int(C._sqlite3_value_nochange(v.ptr)) == 0 }

func (v Value) Text() string {
	ptr := unsafe.Pointer(C._sqlite3_value_text(v.ptr))
	return C.GoStringN((*C.char)(ptr), C.int(v.Len()))
}

func (v Value) Blob() []byte {
	ptr := unsafe.Pointer(C._sqlite3_value_blob(v.ptr))
	return C.GoBytes(ptr, C.int(v.Len()))
}

// Native converts the cell to the Go type that best represents its storage
// class: nil, int64, float64, string or []byte.
func (v Value) Native() interface{} {
	switch v.Type() {
	case SQLITE_NULL:
		return nil
	case SQLITE_INTEGER:
		return v.Int64()
	case SQLITE_FLOAT:
		return v.Float()
	case SQLITE_TEXT:
		return v.Text()
	case SQLITE_BLOB:
		return v.Blob()
	default:
		return nil
	}
}
