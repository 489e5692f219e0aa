package sqlite

// #include <stdlib.h>
// #include <string.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import "unsafe"

// Prepare compiles query into a reusable Stmt.
//
// If the query has any unprocessed trailing bytes, its count is returned.
// see: https://www.sqlite.org/c3ref/prepare.html
func (c *Conn) Prepare(query string) (*Stmt, int, error) {
	if err := c.checkUsable(); err != nil {
		return nil, 0, err
	}

	stmt := &Stmt{
		conn:      c,
		query:     query,
		bindNames: make(map[string]int),
		colNames:  make(map[string]int),
	}

	sql := C.CString(query)
	defer C.free(unsafe.Pointer(sql))
	var trailing *C.char

	res := C._sqlite3_prepare_v2(c.db, sql, -1, &stmt.stmt, &trailing)
	if err := ErrorCode(res); !err.ok() {
		return nil, 0, libErr(c.db, res)
	}

	for i, count := 1, stmt.BindParamCount(); i <= count; i++ {
		cname := C._sqlite3_bind_parameter_name(stmt.stmt, C.int(i))
		if cname != nil {
			stmt.bindNames[C.GoString(cname)] = i
		}
	}

	for i, count := 0, stmt.ColumnCount(); i < count; i++ {
		cname := C._sqlite3_column_name(stmt.stmt, C.int(i))
		if cname != nil {
			stmt.colNames[C.GoString(cname)] = i
		}
	}

	return stmt, int(C.strlen(trailing)), nil
}
