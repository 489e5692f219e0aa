package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateHook(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (id INTEGER PRIMARY KEY, v TEXT)"))

	var gotOp HookOp
	var gotTable string
	var gotRowid int64
	conn.SetUpdateHook(func(op HookOp, database, table string, rowid int64) {
		gotOp, gotTable, gotRowid = op, table, rowid
	})

	require.NoError(t, conn.ExecRaw("INSERT INTO t (id, v) VALUES (1, 'a')"))
	require.Equal(t, HookInsert, gotOp)
	require.Equal(t, "t", gotTable)
	require.EqualValues(t, 1, gotRowid)

	require.NoError(t, conn.ExecRaw("UPDATE t SET v = 'b' WHERE id = 1"))
	require.Equal(t, HookUpdate, gotOp)

	require.NoError(t, conn.ExecRaw("DELETE FROM t WHERE id = 1"))
	require.Equal(t, HookDelete, gotOp)

	conn.ClearUpdateHook()
	gotOp = HookOp(-1)
	require.NoError(t, conn.ExecRaw("INSERT INTO t (id, v) VALUES (2, 'c')"))
	require.Equal(t, HookOp(-1), gotOp)
}

func TestCommitAndRollbackHooks(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (v INTEGER)"))

	commits, rollbacks := 0, 0
	conn.RegisterCommitHook(func() int { commits++; return 0 })
	conn.RegisterRollbackHook(func() { rollbacks++ })

	require.NoError(t, conn.ExecRaw("BEGIN"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (1)"))
	require.NoError(t, conn.ExecRaw("COMMIT"))
	require.Equal(t, 1, commits)
	require.Equal(t, 0, rollbacks)

	require.NoError(t, conn.ExecRaw("BEGIN"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (2)"))
	require.NoError(t, conn.ExecRaw("ROLLBACK"))
	require.Equal(t, 1, commits)
	require.Equal(t, 1, rollbacks)

	conn.RegisterCommitHook(nil)
	conn.RegisterRollbackHook(nil)
}

func TestCommitHookVetoesCommit(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (v INTEGER)"))
	conn.RegisterCommitHook(func() int { return 1 })

	require.NoError(t, conn.ExecRaw("BEGIN"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (1)"))
	err = conn.ExecRaw("COMMIT")
	require.Error(t, err) // vetoed: engine converts it into a rollback

	conn.RegisterCommitHook(nil)
}
