package sqlite

import "sync/atomic"

// closer is embedded by every handle kind (Conn, Stmt, Blob, Backup) that
// must make its Close/Finalize/Finish operation idempotent and safe to race
// against a finalizer running on another goroutine.
type closer struct{ closed int32 }

// markClosed reports true the first time it is called, and false on every
// subsequent call — the caller should only release the underlying engine
// resource when markClosed returns true.
func (c *closer) markClosed() bool {
	return atomic.CompareAndSwapInt32(&c.closed, 0, 1)
}

// isClosed reports whether markClosed has already returned true once.
func (c *closer) isClosed() bool {
	return atomic.LoadInt32(&c.closed) != 0
}
