package sqlite

import (
	"fmt"
	"strings"
)

// JournalMode selects the rollback-journal strategy for a database.
// see: https://www.sqlite.org/pragma.html#pragma_journal_mode
type JournalMode string

const (
	JournalDelete   JournalMode = "DELETE"
	JournalTruncate JournalMode = "TRUNCATE"
	JournalPersist  JournalMode = "PERSIST"
	JournalMemory   JournalMode = "MEMORY"
	JournalWAL      JournalMode = "WAL"
	JournalOff      JournalMode = "OFF"
)

// Synchronous selects how aggressively the engine flushes to stable storage.
// see: https://www.sqlite.org/pragma.html#pragma_synchronous
type Synchronous string

const (
	SyncOff    Synchronous = "OFF"
	SyncNormal Synchronous = "NORMAL"
	SyncFull   Synchronous = "FULL"
	SyncExtra  Synchronous = "EXTRA"
)

// TempStore selects where temporary tables and indices are stored.
// see: https://www.sqlite.org/pragma.html#pragma_temp_store
type TempStore string

const (
	TempDefault TempStore = "DEFAULT"
	TempFile    TempStore = "FILE"
	TempMemory  TempStore = "MEMORY"
)

// AutoVacuum selects the database's free-page reclamation strategy.
// see: https://www.sqlite.org/pragma.html#pragma_auto_vacuum
type AutoVacuum string

const (
	AutoVacuumNone        AutoVacuum = "NONE"
	AutoVacuumFull        AutoVacuum = "FULL"
	AutoVacuumIncremental AutoVacuum = "INCREMENTAL"
)

func (c *Conn) pragmaSet(name string, value string) error {
	return c.ExecRaw(fmt.Sprintf("PRAGMA %s = %s;", name, value))
}

func (c *Conn) pragmaGetText(name string) (string, error) {
	row, err := c.QueryOne(fmt.Sprintf("PRAGMA %s;", name))
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	v, err := row.Get(0)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

func (c *Conn) pragmaGetInt(name string) (int64, error) {
	row, err := c.QueryOne(fmt.Sprintf("PRAGMA %s;", name))
	if err != nil {
		return 0, err
	}
	if row == nil {
		return 0, nil
	}
	v, err := row.Get(0)
	if err != nil {
		return 0, err
	}
	i, _ := v.(int64)
	return i, nil
}

// SetJournalMode sets the database's journal mode.
func (c *Conn) SetJournalMode(mode JournalMode) error { return c.pragmaSet("journal_mode", string(mode)) }

// JournalMode reports the database's current journal mode. The engine
// reports the mode in lowercase; it is upper-cased to match the named
// constants.
func (c *Conn) JournalMode() (JournalMode, error) {
	s, err := c.pragmaGetText("journal_mode")
	return JournalMode(strings.ToUpper(s)), err
}

// SetSynchronous sets the database's synchronous durability level.
func (c *Conn) SetSynchronous(s Synchronous) error { return c.pragmaSet("synchronous", string(s)) }

// Synchronous reports the database's current synchronous durability level.
// The engine reports this PRAGMA as an integer code rather than the text
// name accepted by the setter, so the result is mapped back to the named
// constant the engine actually adopted.
func (c *Conn) Synchronous() (Synchronous, error) {
	i, err := c.pragmaGetInt("synchronous")
	if err != nil {
		return "", err
	}
	switch i {
	case 0:
		return SyncOff, nil
	case 1:
		return SyncNormal, nil
	case 2:
		return SyncFull, nil
	case 3:
		return SyncExtra, nil
	default:
		return Synchronous(fmt.Sprintf("%d", i)), nil
	}
}

// SetForeignKeys toggles foreign-key constraint enforcement.
func (c *Conn) SetForeignKeys(on bool) error {
	v := "OFF"
	if on {
		v = "ON"
	}
	return c.pragmaSet("foreign_keys", v)
}

// ForeignKeys reports whether foreign-key constraint enforcement is on.
func (c *Conn) ForeignKeys() (bool, error) {
	i, err := c.pragmaGetInt("foreign_keys")
	return i != 0, err
}

// SetCacheSize sets the suggested page cache size. A positive value is a
// page count; a negative value is an approximate size in kibibytes.
func (c *Conn) SetCacheSize(n int64) error {
	return c.pragmaSet("cache_size", fmt.Sprintf("%d", n))
}

// CacheSize reports the suggested page cache size, in the same signed
// convention as SetCacheSize.
func (c *Conn) CacheSize() (int64, error) { return c.pragmaGetInt("cache_size") }

// SetTempStore sets where temporary tables and indices live.
func (c *Conn) SetTempStore(t TempStore) error { return c.pragmaSet("temp_store", string(t)) }

// TempStore reports where temporary tables and indices currently live. The
// engine reports this PRAGMA as an integer code rather than the text name
// accepted by the setter, so the result is mapped back to the named
// constant the engine actually adopted.
func (c *Conn) TempStore() (TempStore, error) {
	i, err := c.pragmaGetInt("temp_store")
	if err != nil {
		return "", err
	}
	switch i {
	case 0:
		return TempDefault, nil
	case 1:
		return TempFile, nil
	case 2:
		return TempMemory, nil
	default:
		return TempStore(fmt.Sprintf("%d", i)), nil
	}
}

// SetAutoVacuum sets the database's free-page reclamation strategy. On a
// database that has no tables yet the change takes effect immediately; once
// a table exists, switching between NONE and FULL/INCREMENTAL only takes
// effect after a VACUUM.
func (c *Conn) SetAutoVacuum(v AutoVacuum) error { return c.pragmaSet("auto_vacuum", string(v)) }

// AutoVacuum reports the database's current free-page reclamation strategy.
// Like Synchronous and TempStore, the engine reports this PRAGMA as an
// integer code that is mapped back to the named constant.
func (c *Conn) AutoVacuum() (AutoVacuum, error) {
	i, err := c.pragmaGetInt("auto_vacuum")
	if err != nil {
		return "", err
	}
	switch i {
	case 0:
		return AutoVacuumNone, nil
	case 1:
		return AutoVacuumFull, nil
	case 2:
		return AutoVacuumIncremental, nil
	default:
		return AutoVacuum(fmt.Sprintf("%d", i)), nil
	}
}

// SetPageSize sets the database page size in bytes; only effective before
// the first table is created or after a VACUUM.
func (c *Conn) SetPageSize(bytes int) error {
	return c.pragmaSet("page_size", fmt.Sprintf("%d", bytes))
}

// PageSize reports the database page size in bytes that the engine has
// adopted. A SetPageSize made before the first table is created is
// reflected immediately; one made afterwards is not reflected until a
// VACUUM.
func (c *Conn) PageSize() (int, error) {
	i, err := c.pragmaGetInt("page_size")
	return int(i), err
}

// SetMaxPageCount sets the upper bound on the number of pages the database
// may grow to.
func (c *Conn) SetMaxPageCount(n int64) error {
	return c.pragmaSet("max_page_count", fmt.Sprintf("%d", n))
}

// MaxPageCount reports the upper bound on the number of pages the database
// may grow to.
func (c *Conn) MaxPageCount() (int64, error) { return c.pragmaGetInt("max_page_count") }

// PageCount reports the number of pages currently in the database file.
func (c *Conn) PageCount() (int64, error) { return c.pragmaGetInt("page_count") }

// FreelistCount reports the number of unused pages in the database file.
func (c *Conn) FreelistCount() (int64, error) { return c.pragmaGetInt("freelist_count") }

// Encoding reports the database's text encoding (read-only; fixed at
// creation time).
func (c *Conn) Encoding() (string, error) { return c.pragmaGetText("encoding") }
