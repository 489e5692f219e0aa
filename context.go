package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import (
	"unsafe"

	"github.com/mattn/go-pointer"
)

// see: https://sqlite.org/bindptr.html#pointer_types_are_static_strings
var pointerType = C.CString("golang")

// Context is an *C.sqlite3_context. It is used by custom functions
// (scalar/aggregate/window) to return result values. An SQLite context is
// in no way related to a Go context.Context.
//
// adapted from https://github.com/crawshaw/sqlite/blob/ae45c9066f6e7b62bb7b491a0c7c9659f866ce7c/func.go
type Context struct{ ptr *C.sqlite3_context }

func (ctx Context) ResultInt(v int)       { C._sqlite3_result_int(ctx.ptr, C.int(v)) }
func (ctx Context) ResultInt64(v int64)   { C._sqlite3_result_int64(ctx.ptr, C.sqlite3_int64(v)) }
func (ctx Context) ResultFloat(v float64) { C._sqlite3_result_double(ctx.ptr, C.double(v)) }
func (ctx Context) ResultNull()           { C._sqlite3_result_null(ctx.ptr) }
func (ctx Context) ResultValue(v Value)   { C._sqlite3_result_value(ctx.ptr, v.ptr) }
func (ctx Context) ResultZeroBlob(n int64) {
	C._sqlite3_result_zeroblob64(ctx.ptr, C.sqlite3_uint64(n))
}

func (ctx Context) ResultBlob(v []byte) {
	C._sqlite3_result_blob0(ctx.ptr, C.CBytes(v), C.int(len(v)), (*[0]byte)(C.free))
}

func (ctx Context) ResultText(v string) {
	var cv *C.char
	if len(v) != 0 {
		cv = C.CString(v)
	}
	C._sqlite3_result_text0(ctx.ptr, cv, C.int(len(v)), (*[0]byte)(C.free))
}

func (ctx Context) ResultSubType(v int) {
	C._sqlite3_result_subtype(ctx.ptr, C.uint(v))
}

// ResultError reports err to the caller. An ErrorCode is surfaced with its
// raw result code (sqlite3_result_error_code); any other error is surfaced
// as its message text (sqlite3_result_error).
func (ctx Context) ResultError(err error) {
	if code, ok := err.(ErrorCode); ok {
		C._sqlite3_result_error_code(ctx.ptr, C.int(code))
		return
	}
	errstr := err.Error()
	cerrstr := C.CString(errstr)
	defer C.free(unsafe.Pointer(cerrstr))
	C._sqlite3_result_error(ctx.ptr, cerrstr, C.int(len(errstr)))
}

// ResultPointer returns an opaque Go value as the function's result, using
// the engine's pointer-passing interface with pointer type "golang". Value
// has no accessor that reads such a pointer back.
func (ctx Context) ResultPointer(val interface{}) {
	ptr := pointer.Save(val)
	C._sqlite3_result_pointer(ctx.ptr, ptr, pointerType, (*[0]byte)(C.pointer_destructor_hook_tramp))
}

//export pointer_destructor_hook_tramp
func pointer_destructor_hook_tramp(p unsafe.Pointer) { pointer.Unref(p) }
