package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
//
// extern void scalar_function_apply_tramp(sqlite3_context*, int, sqlite3_value**);
// extern void aggregate_function_step_tramp(sqlite3_context*, int, sqlite3_value**);
// extern void aggregate_function_final_tramp(sqlite3_context*);
// extern void window_function_value_tramp(sqlite3_context*);
// extern void window_function_inverse_tramp(sqlite3_context*, int, sqlite3_value**);
// extern int collation_function_compare_tramp(void*, int, char*, int, char*);
// extern void function_destroy(void*);
import "C"

import (
	"sync"
	"unsafe"

	"github.com/mattn/go-pointer"
)

var ( // protected store used by aggregate context
	aggregateDataLock  sync.RWMutex
	aggregateDataStore = map[unsafe.Pointer]interface{}{}
)

// AggregateContext extends Context with per-invocation storage keyed by
// the engine-provided aggregate-context pointer, valid from the first Step
// through Final (or Value/Inverse for window functions).
type AggregateContext struct {
	*Context
	id unsafe.Pointer
}

func (agg *AggregateContext) Data() interface{} {
	aggregateDataLock.RLock()
	defer aggregateDataLock.RUnlock()
	return aggregateDataStore[agg.id]
}

func (agg *AggregateContext) SetData(val interface{}) {
	aggregateDataLock.Lock()
	defer aggregateDataLock.Unlock()
	aggregateDataStore[agg.id] = val
}

// Function is the base contract every registerable SQL function satisfies.
// It is not valid by itself — implementers pick one of ScalarFunction,
// AggregateFunction or WindowFunction.
type Function interface {
	// Deterministic reports whether the function always returns the same
	// result given the same inputs within a single SQL statement.
	Deterministic() bool

	// Args reports the number of arguments the function accepts, or -1 for
	// a variable argument count.
	Args() int
}

// ScalarFunction is a custom SQL scalar function.
type ScalarFunction interface {
	Function
	Apply(*Context, ...Value)
}

// AggregateFunction is a custom SQL aggregate function.
type AggregateFunction interface {
	Function
	Step(*AggregateContext, ...Value)
	Final(*AggregateContext)
}

// WindowFunction is a custom SQL window function.
type WindowFunction interface {
	AggregateFunction
	Value(*AggregateContext)
	Inverse(*AggregateContext, ...Value)
}

// CreateScalarFunction registers a scalar SQL function under name.
func (c *Conn) CreateScalarFunction(name string, fn ScalarFunction) error {
	return c.createFunction(name, fn)
}

// CreateAggregateFunction registers an aggregate (or window, if fn also
// satisfies WindowFunction) SQL function under name.
func (c *Conn) CreateAggregateFunction(name string, fn AggregateFunction) error {
	return c.createFunction(name, fn)
}

// CreateFunction1 registers a single-argument deterministic scalar
// function, wrapping fn so callers don't need to implement ScalarFunction
// by hand for the common case.
func (c *Conn) CreateFunction1(name string, fn func(Value) (interface{}, error)) error {
	return c.CreateScalarFunction(name, &simpleScalar{args: 1, fn: func(vs ...Value) (interface{}, error) {
		return fn(vs[0])
	}})
}

// CreateFunction2 is CreateFunction1 for a two-argument function.
func (c *Conn) CreateFunction2(name string, fn func(Value, Value) (interface{}, error)) error {
	return c.CreateScalarFunction(name, &simpleScalar{args: 2, fn: func(vs ...Value) (interface{}, error) {
		return fn(vs[0], vs[1])
	}})
}

// CreateFunction3 is CreateFunction1 for a three-argument function.
func (c *Conn) CreateFunction3(name string, fn func(Value, Value, Value) (interface{}, error)) error {
	return c.CreateScalarFunction(name, &simpleScalar{args: 3, fn: func(vs ...Value) (interface{}, error) {
		return fn(vs[0], vs[1], vs[2])
	}})
}

type simpleScalar struct {
	args int
	fn   func(...Value) (interface{}, error)
}

func (s *simpleScalar) Deterministic() bool { return true }
func (s *simpleScalar) Args() int           { return s.args }

func (s *simpleScalar) Apply(ctx *Context, args ...Value) {
	result, err := s.fn(args...)
	if err != nil {
		ctx.ResultError(err)
		return
	}
	switch v := result.(type) {
	case nil:
		ctx.ResultNull()
	case int64:
		ctx.ResultInt64(v)
	case int:
		ctx.ResultInt64(int64(v))
	case float64:
		ctx.ResultFloat(v)
	case string:
		ctx.ResultText(v)
	case []byte:
		ctx.ResultBlob(v)
	case bool:
		if v {
			ctx.ResultInt(1)
		} else {
			ctx.ResultInt(0)
		}
	default:
		ctx.ResultError(&TypeMismatchError{Expected: "a SQL-representable return type", Actual: "unsupported"})
	}
}

func (c *Conn) createFunction(name string, fn Function) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	eTextRep := C.int(C.SQLITE_UTF8)
	if fn.Deterministic() {
		eTextRep |= C.SQLITE_DETERMINISTIC
	}

	pApp := pointer.Save(fn)
	destroy := (*[0]byte)(C.function_destroy)

	var res C.int
	switch fn.(type) {
	case ScalarFunction:
		applyTramp := (*[0]byte)(C.scalar_function_apply_tramp)
		res = C._sqlite3_create_function_v2(c.db, cname, C.int(fn.Args()), eTextRep, pApp, applyTramp, nil, nil, destroy)
	case WindowFunction:
		stepTramp := (*[0]byte)(C.aggregate_function_step_tramp)
		finalTramp := (*[0]byte)(C.aggregate_function_final_tramp)
		valueTramp := (*[0]byte)(C.window_function_value_tramp)
		inverseTramp := (*[0]byte)(C.window_function_inverse_tramp)
		res = C._sqlite3_create_window_function(c.db, cname, C.int(fn.Args()), eTextRep, pApp, stepTramp, finalTramp, valueTramp, inverseTramp, destroy)
	case AggregateFunction:
		stepTramp := (*[0]byte)(C.aggregate_function_step_tramp)
		finalTramp := (*[0]byte)(C.aggregate_function_final_tramp)
		res = C._sqlite3_create_function_v2(c.db, cname, C.int(fn.Args()), eTextRep, pApp, nil, stepTramp, finalTramp, destroy)
	default:
		pointer.Unref(pApp)
		return &TypeMismatchError{Expected: "ScalarFunction, AggregateFunction or WindowFunction", Actual: "unknown function kind"}
	}

	if err := ErrorCode(res); !err.ok() {
		return libErr(c.db, res)
	}
	return nil
}

// RemoveFunction unregisters the function previously created under name
// with the given arity.
func (c *Conn) RemoveFunction(name string, arity int) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	res := C._sqlite3_create_function_v2(c.db, cname, C.int(arity), C.SQLITE_UTF8, nil, nil, nil, nil, nil)
	return errorIfNotOk(res)
}

// CreateCollation creates a new collation with the given name using the
// supplied comparison function. The comparison function must obey the
// rules at https://www.sqlite.org/c3ref/create_collation.html.
func (c *Conn) CreateCollation(name string, cmp func(string, string) int) error {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	pApp := pointer.Save(cmp)
	compare := (*[0]byte)(C.collation_function_compare_tramp)
	destroy := (*[0]byte)(C.function_destroy)

	if res := C._sqlite3_create_collation_v2(c.db, cname, C.SQLITE_UTF8, pApp, compare, destroy); ErrorCode(res) == SQLITE_OK {
		return nil
	} else {
		// destroy isn't invoked automatically when registration itself fails.
		pointer.Unref(pApp)
		return libErr(c.db, res)
	}
}

func toValues(count C.int, va **C.sqlite3_value) []Value {
	n := int(count)
	var values []Value
	if n > 0 {
		values = (*[127]Value)(unsafe.Pointer(va))[:n:n]
	}
	return values
}

func getFunction(ctx *C.sqlite3_context) Function {
	p := unsafe.Pointer(C._sqlite3_user_data(ctx))
	return pointer.Restore(p).(Function)
}

// C <=> Go trampolines.

//export scalar_function_apply_tramp
func scalar_function_apply_tramp(ctx *C.sqlite3_context, n C.int, v **C.sqlite3_value) {
	getFunction(ctx).(ScalarFunction).Apply(&Context{ptr: ctx}, toValues(n, v)...)
}

//export aggregate_function_step_tramp
func aggregate_function_step_tramp(ctx *C.sqlite3_context, n C.int, v **C.sqlite3_value) {
	id := unsafe.Pointer(C._sqlite3_aggregate_context(ctx, C.int(1)))
	c := &AggregateContext{Context: &Context{ptr: ctx}, id: id}
	getFunction(ctx).(AggregateFunction).Step(c, toValues(n, v)...)
}

//export aggregate_function_final_tramp
func aggregate_function_final_tramp(ctx *C.sqlite3_context) {
	id := unsafe.Pointer(C._sqlite3_aggregate_context(ctx, C.int(0)))
	defer func() { aggregateDataLock.Lock(); delete(aggregateDataStore, id); aggregateDataLock.Unlock() }()

	c := &AggregateContext{Context: &Context{ptr: ctx}, id: id}
	getFunction(ctx).(AggregateFunction).Final(c)
}

//export window_function_value_tramp
func window_function_value_tramp(ctx *C.sqlite3_context) {
	id := unsafe.Pointer(C._sqlite3_aggregate_context(ctx, C.int(1)))
	c := &AggregateContext{Context: &Context{ptr: ctx}, id: id}
	getFunction(ctx).(WindowFunction).Value(c)
}

//export window_function_inverse_tramp
func window_function_inverse_tramp(ctx *C.sqlite3_context, n C.int, v **C.sqlite3_value) {
	id := unsafe.Pointer(C._sqlite3_aggregate_context(ctx, C.int(1)))
	c := &AggregateContext{Context: &Context{ptr: ctx}, id: id}
	getFunction(ctx).(WindowFunction).Inverse(c, toValues(n, v)...)
}

//export collation_function_compare_tramp
func collation_function_compare_tramp(pApp unsafe.Pointer, aLen C.int, a *C.char, bLen C.int, b *C.char) C.int {
	fn := pointer.Restore(pApp).(func(string, string) int)
	return C.int(fn(C.GoStringN(a, aLen), C.GoStringN(b, bLen)))
}

//export function_destroy
func function_destroy(ptr unsafe.Pointer) { pointer.Unref(ptr) }
