package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStmtPrepareStepReset(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (id INTEGER, v TEXT)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (1, 'a'), (2, 'b')"))

	stmt, _, err := conn.Prepare("SELECT id, v FROM t ORDER BY id")
	require.NoError(t, err)
	defer stmt.Finalize()

	require.Equal(t, 2, stmt.ColumnCount())
	require.Equal(t, "id", stmt.ColumnName(0))
	require.Equal(t, "v", stmt.ColumnName(1))

	has, err := stmt.Step()
	require.NoError(t, err)
	require.True(t, has)
	require.EqualValues(t, 1, stmt.ColumnInt64(0))
	require.Equal(t, "a", stmt.ColumnText(1))

	has, err = stmt.Step()
	require.NoError(t, err)
	require.True(t, has)
	require.EqualValues(t, 2, stmt.ColumnInt64(0))

	has, err = stmt.Step()
	require.NoError(t, err)
	require.False(t, has)

	require.NoError(t, stmt.Reset())
	has, err = stmt.Step()
	require.NoError(t, err)
	require.True(t, has)
	require.EqualValues(t, 1, stmt.ColumnInt64(0))
}

func TestStmtBindParamCount(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	stmt, _, err := conn.Prepare("SELECT ?, ?, ?")
	require.NoError(t, err)
	defer stmt.Finalize()

	require.Equal(t, 3, stmt.BindParamCount())
}

func TestStmtUseAfterFinalize(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	stmt, _, err := conn.Prepare("SELECT 1")
	require.NoError(t, err)
	require.NoError(t, stmt.Finalize())

	_, err = stmt.Step()
	require.ErrorIs(t, err, ErrUseAfterClose)
}

func TestStmtNamedParams(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	stmt, _, err := conn.Prepare("SELECT $val")
	require.NoError(t, err)
	defer stmt.Finalize()

	stmt.SetText("$val", "named")
	has, err := stmt.Step()
	require.NoError(t, err)
	require.True(t, has)
	require.Equal(t, "named", stmt.ColumnText(0))
}
