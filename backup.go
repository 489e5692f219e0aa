package sqlite

// #include <stdlib.h>
// #include "sqlite3.h"
// #include "bridge/bridge.h"
import "C"

import "unsafe"

// Backup drives the engine's online backup API, copying pages from a source
// connection's database into a destination connection's database while
// both remain usable for ordinary queries between Step calls.
type Backup struct {
	closer

	ptr *C.sqlite3_backup
	dst *Conn
}

// BackupInit starts a backup of srcName (an attached database on src,
// "main" if empty) into dstName (an attached database on the receiver,
// "main" if empty). The returned Backup drives the copy via Step.
func (c *Conn) BackupInit(dstName string, src *Conn, srcName string) (*Backup, error) {
	if err := c.checkUsable(); err != nil {
		return nil, err
	}
	if err := src.checkUsable(); err != nil {
		return nil, err
	}

	if dstName == "" {
		dstName = "main"
	}
	if srcName == "" {
		srcName = "main"
	}

	cdst := C.CString(dstName)
	defer C.free(unsafe.Pointer(cdst))
	csrc := C.CString(srcName)
	defer C.free(unsafe.Pointer(csrc))

	ptr := C._sqlite3_backup_init(c.db, cdst, src.db, csrc)
	if ptr == nil {
		return nil, libErr(c.db, C._sqlite3_errcode(c.db))
	}
	return &Backup{ptr: ptr, dst: c}, nil
}

func (b *Backup) checkUsable() error {
	if b.isClosed() {
		return ErrUseAfterClose
	}
	return nil
}

// Step copies up to nPages pages (or all remaining pages if nPages < 0)
// from source to destination. It reports true once the backup is complete;
// SQLITE_BUSY/SQLITE_LOCKED are translated into a nil error with done=false
// so callers can retry after a short pause, matching sqlite3's documented
// backup-loop idiom.
func (b *Backup) Step(nPages int) (done bool, err error) {
	if err := b.checkUsable(); err != nil {
		return false, err
	}

	res := C._sqlite3_backup_step(b.ptr, C.int(nPages))
	switch ErrorCode(res) {
	case SQLITE_DONE:
		return true, nil
	case SQLITE_OK, SQLITE_BUSY, SQLITE_LOCKED:
		return false, nil
	default:
		return false, libErr(b.dst.db, res)
	}
}

// RunAll drives Step to completion, copying pageBatch pages per iteration
// (a non-positive pageBatch copies the whole database in one Step call).
func (b *Backup) RunAll(pageBatch int) error {
	if pageBatch <= 0 {
		pageBatch = -1
	}
	for {
		done, err := b.Step(pageBatch)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Remaining reports the number of pages still to be copied, valid only
// after at least one call to Step.
func (b *Backup) Remaining() int { return int(C._sqlite3_backup_remaining(b.ptr)) }

// PageCount reports the total number of pages in the source database,
// valid only after at least one call to Step.
func (b *Backup) PageCount() int { return int(C._sqlite3_backup_pagecount(b.ptr)) }

// Progress reports the percentage (0..100) of pages copied so far. Returns
// 100 if called before the first Step, when the page count isn't known yet.
func (b *Backup) Progress() float64 {
	total := b.PageCount()
	if total == 0 {
		return 100
	}
	return float64(total-b.Remaining()) / float64(total) * 100
}

// Finish releases the backup object. Idempotent.
func (b *Backup) Finish() error {
	if !b.markClosed() {
		return nil
	}
	res := C._sqlite3_backup_finish(b.ptr)
	if err := ErrorCode(res); !err.ok() {
		return libErr(b.dst.db, res)
	}
	return nil
}
