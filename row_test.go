package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetAsNullColumnError(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	row, err := conn.QueryOne("SELECT NULL")
	require.NoError(t, err)
	require.NotNil(t, row)

	var i int64
	err = row.GetAs(0, &i)
	var nullErr *NullColumnError
	require.ErrorAs(t, err, &nullErr)
	require.Equal(t, "0", nullErr.Name)

	var s string
	err = row.GetAs(0, &s)
	require.ErrorAs(t, err, &nullErr)

	var f float64
	err = row.GetAs(0, &f)
	require.ErrorAs(t, err, &nullErr)

	var b []byte
	err = row.GetAs(0, &b)
	require.ErrorAs(t, err, &nullErr)
}

func TestGetByNameAsNullColumnError(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	row, err := conn.QueryOne("SELECT NULL AS v")
	require.NoError(t, err)
	require.NotNil(t, row)

	var i int64
	err = row.GetByNameAs("v", &i)
	var nullErr *NullColumnError
	require.ErrorAs(t, err, &nullErr)
	require.Equal(t, "v", nullErr.Name)
}

func TestGetAsTypeMismatch(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	row, err := conn.QueryOne("SELECT 'not a number'")
	require.NoError(t, err)
	require.NotNil(t, row)

	var i int64
	err = row.GetAs(0, &i)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, "INTEGER", mismatch.Expected)
	require.Equal(t, "TEXT", mismatch.Actual)
}

func TestGetAsNullablePointer(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	row, err := conn.QueryOne("SELECT NULL")
	require.NoError(t, err)
	require.NotNil(t, row)

	var p *int64
	require.NoError(t, row.GetAs(0, &p))
	require.Nil(t, p)
}
