package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (v TEXT)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES ('hello')"))

	data, err := conn.Serialize()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	other, err := OpenMemory()
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, other.DeserializeInto(data, false))

	row, err := other.QueryOne("SELECT v FROM t")
	require.NoError(t, err)
	require.NotNil(t, row)

	var v string
	require.NoError(t, row.GetAs(0, &v))
	require.Equal(t, "hello", v)
}

func TestDeserializeIntoReadOnlyRejectsWrites(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (v TEXT)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES ('hello')"))

	data, err := conn.Serialize()
	require.NoError(t, err)

	other, err := OpenMemory()
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, other.DeserializeInto(data, true))

	row, err := other.QueryOne("SELECT v FROM t")
	require.NoError(t, err)
	require.NotNil(t, row)
	var v string
	require.NoError(t, row.GetAs(0, &v))
	require.Equal(t, "hello", v)

	err = other.ExecRaw("INSERT INTO t VALUES ('world')")
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestClone(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.ExecRaw("CREATE TABLE t (v INTEGER)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (1), (2), (3)"))

	clone, err := conn.Clone()
	require.NoError(t, err)
	defer clone.Close()

	require.NoError(t, conn.ExecRaw("INSERT INTO t VALUES (4)"))

	row, err := clone.QueryOne("SELECT count(*) FROM t")
	require.NoError(t, err)
	var count int64
	require.NoError(t, row.GetAs(0, &count))
	require.EqualValues(t, 3, count, "clone must not see writes made after the clone point")
}
