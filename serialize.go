package sqlite

// #include <stdlib.h>
// #include <string.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import "unsafe"

// Serialize returns a copy of the database's entire content as an in-memory
// byte slice, using the "main" schema.
// see: https://www.sqlite.org/c3ref/serialize.html
func (c *Conn) Serialize() ([]byte, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	schema := C.CString("main")
	defer C.free(unsafe.Pointer(schema))

	var size C.sqlite3_int64
	p := C._sqlite3_serialize(c.db, schema, &size, 0)
	if p == nil {
		return nil, &EngineError{Code: SQLITE_NOMEM, Message: "serialize: out of memory"}
	}
	defer C._sqlite3_free(unsafe.Pointer(p))

	return C.GoBytes(unsafe.Pointer(p), C.int(size)), nil
}

// DeserializeInto replaces the content of the database's "main" schema with
// data, which must be a complete, well-formed database image. The engine
// takes its own copy of data; the slice may be reused or discarded once
// this call returns. When readOnly is true, the connection rejects any
// later write against "main" with ErrReadOnly rather than growing or
// mutating the image in place.
// see: https://www.sqlite.org/c3ref/deserialize.html
func (c *Conn) DeserializeInto(data []byte, readOnly bool) error {
	if err := c.checkUsable(); err != nil {
		return err
	}
	schema := C.CString("main")
	defer C.free(unsafe.Pointer(schema))

	buf := C._sqlite3_malloc64(C.sqlite3_uint64(len(data)))
	if buf == nil {
		return &EngineError{Code: SQLITE_NOMEM, Message: "deserialize: out of memory"}
	}
	if len(data) > 0 {
		C.memcpy(buf, unsafe.Pointer(&data[0]), C.size_t(len(data)))
	}

	flags := C.int(C.SQLITE_DESERIALIZE_FREEONCLOSE)
	if readOnly {
		flags |= C.int(C.SQLITE_DESERIALIZE_READONLY)
	} else {
		flags |= C.int(C.SQLITE_DESERIALIZE_RESIZEABLE)
	}
	rc := C._sqlite3_deserialize(c.db, schema, (*C.uchar)(buf), C.sqlite3_int64(len(data)), C.sqlite3_int64(len(data)), C.uint(flags))
	return errorIfNotOk(rc)
}

// Clone returns a new in-memory connection whose content is a point-in-time
// copy of c's "main" schema, obtained via Serialize/DeserializeInto.
func (c *Conn) Clone() (*Conn, error) {
	data, err := c.Serialize()
	if err != nil {
		return nil, err
	}
	clone, err := OpenMemory()
	if err != nil {
		return nil, err
	}
	if err := clone.DeserializeInto(data, false); err != nil {
		_ = clone.Close()
		return nil, err
	}
	return clone, nil
}
