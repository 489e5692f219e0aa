package sqlite

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// TxKind selects the locking mode a transaction acquires at BEGIN time.
// see: https://www.sqlite.org/lang_transaction.html
type TxKind int

const (
	TxDeferred TxKind = iota
	TxImmediate
	TxExclusive
)

func (k TxKind) beginSQL() string {
	switch k {
	case TxImmediate:
		return "BEGIN IMMEDIATE;"
	case TxExclusive:
		return "BEGIN EXCLUSIVE;"
	default:
		return "BEGIN DEFERRED;"
	}
}

// Tx represents a running transaction or nested savepoint on a Conn.
type Tx struct {
	conn *Conn
	done bool
}

// Transaction runs fn inside a transaction of the given kind. If fn returns
// an error or panics, the transaction is rolled back and the error (or
// re-thrown panic) propagates; otherwise it is committed.
func (c *Conn) Transaction(kind TxKind, fn func(*Tx) error) (err error) {
	if err := c.ExecRaw(kind.beginSQL()); err != nil {
		return err
	}
	tx := &Tx{conn: c}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rerr := tx.rollback(); rerr != nil {
			// The rollback failure is logged and swallowed: the original
			// error from fn is what the caller needs to see.
			c.Log.Logf("[WARN] sqlite: rollback after error failed: %v (original error: %v)", rerr, err)
		}
		return err
	}
	return tx.commit()
}

// ReadTransaction is Transaction with TxDeferred.
func (c *Conn) ReadTransaction(fn func(*Tx) error) error { return c.Transaction(TxDeferred, fn) }

// WriteTransaction is Transaction with TxImmediate.
func (c *Conn) WriteTransaction(fn func(*Tx) error) error { return c.Transaction(TxImmediate, fn) }

// ExclusiveTransaction is Transaction with TxExclusive.
func (c *Conn) ExclusiveTransaction(fn func(*Tx) error) error { return c.Transaction(TxExclusive, fn) }

func (tx *Tx) commit() error {
	if tx.done {
		return nil
	}
	tx.done = true
	return tx.conn.ExecRaw("COMMIT;")
}

func (tx *Tx) rollback() error {
	if tx.done {
		return nil
	}
	tx.done = true
	return tx.conn.ExecRaw("ROLLBACK;")
}

// Savepoint runs fn inside a named nested savepoint, releasing it on
// success or rolling back to it (then releasing) on failure. Savepoints
// nest arbitrarily deep inside an outer transaction.
func (tx *Tx) Savepoint(name string, fn func() error) (err error) {
	if err := tx.conn.ExecRaw(fmt.Sprintf("SAVEPOINT %s;", name)); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.rollbackToSavepoint(name)
			panic(p)
		}
	}()

	if err = fn(); err != nil {
		if rerr := tx.rollbackToSavepoint(name); rerr != nil {
			// The rollback failure is logged and swallowed: the original
			// error from fn is what the caller needs to see, matching
			// Transaction's handling of the same situation.
			tx.conn.Log.Logf("[WARN] sqlite: rollback to savepoint %s after error failed: %v (original error: %v)", name, rerr, err)
		}
		return err
	}
	return tx.conn.ExecRaw(fmt.Sprintf("RELEASE SAVEPOINT %s;", name))
}

func (tx *Tx) rollbackToSavepoint(name string) error {
	var result *multierror.Error
	if err := tx.conn.ExecRaw(fmt.Sprintf("ROLLBACK TO SAVEPOINT %s;", name)); err != nil {
		result = multierror.Append(result, err)
	}
	if err := tx.conn.ExecRaw(fmt.Sprintf("RELEASE SAVEPOINT %s;", name)); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
