package sqlite

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupTxConn(t *testing.T) *Conn {
	t.Helper()
	conn, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.ExecRaw("CREATE TABLE kv (k TEXT PRIMARY KEY, v TEXT)"))
	return conn
}

func TestTransactionCommit(t *testing.T) {
	conn := setupTxConn(t)

	err := conn.WriteTransaction(func(tx *Tx) error {
		return conn.ExecRaw("INSERT INTO kv VALUES ('a', '1')")
	})
	require.NoError(t, err)

	row, err := conn.QueryOne("SELECT v FROM kv WHERE k = 'a'")
	require.NoError(t, err)
	require.NotNil(t, row)

	var v string
	require.NoError(t, row.GetAs(0, &v))
	require.Equal(t, "1", v)
}

func TestTransactionRollbackOnError(t *testing.T) {
	conn := setupTxConn(t)

	wantErr := errors.New("boom")
	err := conn.WriteTransaction(func(tx *Tx) error {
		require.NoError(t, conn.ExecRaw("INSERT INTO kv VALUES ('a', '1')"))
		return wantErr
	})
	require.ErrorIs(t, err, wantErr)

	row, err := conn.QueryOne("SELECT count(*) FROM kv")
	require.NoError(t, err)
	var count int64
	require.NoError(t, row.GetAs(0, &count))
	require.Zero(t, count)
}

func TestTransactionRollbackOnPanic(t *testing.T) {
	conn := setupTxConn(t)

	require.Panics(t, func() {
		_ = conn.WriteTransaction(func(tx *Tx) error {
			require.NoError(t, conn.ExecRaw("INSERT INTO kv VALUES ('a', '1')"))
			panic("boom")
		})
	})

	row, err := conn.QueryOne("SELECT count(*) FROM kv")
	require.NoError(t, err)
	var count int64
	require.NoError(t, row.GetAs(0, &count))
	require.Zero(t, count)
}

func TestSavepointNesting(t *testing.T) {
	conn := setupTxConn(t)

	err := conn.WriteTransaction(func(tx *Tx) error {
		require.NoError(t, conn.ExecRaw("INSERT INTO kv VALUES ('outer', '1')"))

		spErr := tx.Savepoint("inner", func() error {
			return conn.ExecRaw("INSERT INTO kv VALUES ('inner', '1')")
		})
		require.NoError(t, spErr)

		// A failing nested savepoint rolls back only its own work; the
		// outer transaction still commits the rows written before it.
		failErr := tx.Savepoint("failing", func() error {
			require.NoError(t, conn.ExecRaw("INSERT INTO kv VALUES ('failing', '1')"))
			return errors.New("rollback me")
		})
		require.Error(t, failErr)
		return nil
	})
	require.NoError(t, err)

	row, err := conn.QueryOne("SELECT count(*) FROM kv")
	require.NoError(t, err)
	var count int64
	require.NoError(t, row.GetAs(0, &count))
	require.EqualValues(t, 2, count) // outer + inner, failing was rolled back
}
