package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackupRunAll(t *testing.T) {
	src, err := OpenMemory()
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.ExecRaw("CREATE TABLE t (v INTEGER)"))
	require.NoError(t, src.ExecRaw("INSERT INTO t VALUES (1), (2), (3)"))

	dst, err := OpenMemory()
	require.NoError(t, err)
	defer dst.Close()

	b, err := dst.BackupInit("", src, "")
	require.NoError(t, err)

	require.NoError(t, b.RunAll(5))
	require.NoError(t, b.Finish())
	require.NoError(t, b.Finish()) // idempotent

	row, err := dst.QueryOne("SELECT count(*) FROM t")
	require.NoError(t, err)
	var count int64
	require.NoError(t, row.GetAs(0, &count))
	require.EqualValues(t, 3, count)
}

func TestBackupStepProgress(t *testing.T) {
	src, err := OpenMemory()
	require.NoError(t, err)
	defer src.Close()

	require.NoError(t, src.ExecRaw("CREATE TABLE t (v INTEGER)"))
	for i := 0; i < 100; i++ {
		require.NoError(t, src.ExecRaw("INSERT INTO t VALUES (1)"))
	}

	dst, err := OpenMemory()
	require.NoError(t, err)
	defer dst.Close()

	b, err := dst.BackupInit("", src, "")
	require.NoError(t, err)
	defer b.Finish()

	done, err := b.Step(1)
	require.NoError(t, err)
	require.GreaterOrEqual(t, b.PageCount(), 1)
	if !done {
		require.GreaterOrEqual(t, b.Progress(), 0.0)
		require.LessOrEqual(t, b.Progress(), 100.0)
	}
}

func TestBackupProgressBeforeFirstStep(t *testing.T) {
	src, err := OpenMemory()
	require.NoError(t, err)
	defer src.Close()

	dst, err := OpenMemory()
	require.NoError(t, err)
	defer dst.Close()

	b, err := dst.BackupInit("", src, "")
	require.NoError(t, err)
	defer b.Finish()

	require.Zero(t, b.PageCount())
	require.Equal(t, 100.0, b.Progress())
}
