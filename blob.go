package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import (
	"io"
	"unsafe"
)

// BlobMode selects whether an opened Blob allows writes.
type BlobMode int

const (
	BlobReadOnly BlobMode = iota
	BlobReadWrite
)

// Blob is a streaming handle onto a single column value of a single row,
// opened via sqlite3_blob_open. It implements io.ReaderAt, io.WriterAt and
// io.Closer; reads and writes do not move column data through the
// statement/row pipeline, making it suitable for large BLOB/TEXT values.
type Blob struct {
	closer

	conn   *Conn
	ptr    *C.sqlite3_blob
	db     string
	table  string
	column string
	rowid  int64
}

// OpenBlob opens a BLOB/TEXT column of a single row for incremental I/O.
// db is the attached database name ("main" if empty).
func (c *Conn) OpenBlob(table, column string, rowid int64, mode BlobMode, db ...string) (*Blob, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}

	dbName := "main"
	if len(db) > 0 && db[0] != "" {
		dbName = db[0]
	}

	cdb := C.CString(dbName)
	defer C.free(unsafe.Pointer(cdb))
	ctable := C.CString(table)
	defer C.free(unsafe.Pointer(ctable))
	ccolumn := C.CString(column)
	defer C.free(unsafe.Pointer(ccolumn))

	flags := C.int(0)
	if mode == BlobReadWrite {
		flags = 1
	}

	var ptr *C.sqlite3_blob
	res := C._sqlite3_blob_open(c.db, cdb, ctable, ccolumn, C.sqlite3_int64(rowid), flags, &ptr)
	if err := ErrorCode(res); !err.ok() {
		return nil, libErr(c.db, res)
	}

	b := &Blob{conn: c, ptr: ptr, db: dbName, table: table, column: column, rowid: rowid}
	return b, nil
}

func (b *Blob) checkUsable() error {
	if b.isClosed() {
		return ErrUseAfterClose
	}
	return nil
}

// Len reports the size in bytes of the BLOB/TEXT value the handle is bound to.
func (b *Blob) Len() int { return int(C._sqlite3_blob_bytes(b.ptr)) }

// ReadAt reads len(p) bytes starting at byte offset off, satisfying io.ReaderAt.
func (b *Blob) ReadAt(p []byte, off int64) (int, error) {
	if err := b.checkUsable(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= int64(b.Len()) {
		return 0, io.EOF
	}

	n := len(p)
	if remaining := b.Len() - int(off); n > remaining {
		n = remaining
	}

	res := C._sqlite3_blob_read(b.ptr, unsafe.Pointer(&p[0]), C.int(n), C.int(off))
	if err := ErrorCode(res); !err.ok() {
		return 0, libErr(b.conn.db, res)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p at byte offset off, satisfying io.WriterAt. A write may
// not extend a BLOB past its current length; extend the column's size with
// an UPDATE/zeroblob(N) first.
func (b *Blob) WriteAt(p []byte, off int64) (int, error) {
	if err := b.checkUsable(); err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}

	res := C._sqlite3_blob_write(b.ptr, unsafe.Pointer(&p[0]), C.int(len(p)), C.int(off))
	if err := ErrorCode(res); !err.ok() {
		return 0, libErr(b.conn.db, res)
	}
	return len(p), nil
}

// Reopen repositions the handle onto a different row of the same table and
// column, avoiding the cost of a fresh OpenBlob call.
func (b *Blob) Reopen(rowid int64) error {
	if err := b.checkUsable(); err != nil {
		return err
	}
	res := C._sqlite3_blob_reopen(b.ptr, C.sqlite3_int64(rowid))
	if err := ErrorCode(res); !err.ok() {
		return libErr(b.conn.db, res)
	}
	b.rowid = rowid
	return nil
}

// Close releases the handle. Idempotent.
func (b *Blob) Close() error {
	if !b.markClosed() {
		return nil
	}
	res := C._sqlite3_blob_close(b.ptr)
	if err := ErrorCode(res); !err.ok() {
		return libErr(b.conn.db, res)
	}
	return nil
}
