package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueNativeConversions(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	stmt, _, err := conn.Prepare("SELECT ?, ?, ?, ?, ?")
	require.NoError(t, err)
	defer stmt.Finalize()

	require.NoError(t, stmt.BindAll(int64(42), 3.5, "hi", []byte("bytes"), nil))

	has, err := stmt.Step()
	require.NoError(t, err)
	require.True(t, has)

	require.Equal(t, SQLITE_INTEGER, stmt.ColumnValue(0).Type())
	require.EqualValues(t, 42, stmt.ColumnValue(0).Int64())

	require.Equal(t, SQLITE_FLOAT, stmt.ColumnValue(1).Type())
	require.Equal(t, 3.5, stmt.ColumnValue(1).Float())

	require.Equal(t, SQLITE_TEXT, stmt.ColumnValue(2).Type())
	require.Equal(t, "hi", stmt.ColumnValue(2).Text())

	require.Equal(t, SQLITE_BLOB, stmt.ColumnValue(3).Type())
	require.Equal(t, []byte("bytes"), stmt.ColumnValue(3).Blob())

	require.True(t, stmt.ColumnValue(4).IsNull())
}

func TestValueColumnTypeString(t *testing.T) {
	require.Equal(t, "INTEGER", SQLITE_INTEGER.String())
	require.Equal(t, "FLOAT", SQLITE_FLOAT.String())
	require.Equal(t, "TEXT", SQLITE_TEXT.String())
	require.Equal(t, "BLOB", SQLITE_BLOB.String())
	require.Equal(t, "NULL", SQLITE_NULL.String())
	require.Equal(t, "UNKNOWN", ColumnType(-1).String())
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	require.True(t, v.IsNull())
}
