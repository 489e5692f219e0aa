package sqlite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// upper implements an UPPER(...) SQL scalar function.
type upper struct{}

func (m *upper) Args() int           { return 1 }
func (m *upper) Deterministic() bool { return true }
func (m *upper) Apply(ctx *Context, values ...Value) {
	ctx.ResultText(strings.ToUpper(values[0].Text()))
}

func TestScalarFunction(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateScalarFunction("upper", &upper{}))

	row, err := conn.QueryOne("SELECT upper('sqlite')")
	require.NoError(t, err)
	require.NotNil(t, row)

	var result string
	require.NoError(t, row.GetAs(0, &result))
	require.Equal(t, "SQLITE", result)
}

const subtypeMagic = 0xfe

// subtyped returns its argument unchanged but tagged with a custom subtype.
type subtyped struct{}

func (m *subtyped) Args() int           { return 1 }
func (m *subtyped) Deterministic() bool { return true }
func (m *subtyped) Apply(ctx *Context, values ...Value) {
	ctx.ResultText(values[0].Text())
	ctx.ResultSubType(subtypeMagic)
}

// isSubtyped reports whether its argument carries subtypeMagic.
type isSubtyped struct{}

func (m *isSubtyped) Args() int           { return 1 }
func (m *isSubtyped) Deterministic() bool { return true }
func (m *isSubtyped) Apply(ctx *Context, values ...Value) {
	if values[0].SubType() == subtypeMagic {
		ctx.ResultInt(1)
	} else {
		ctx.ResultInt(0)
	}
}

func TestSubtypeFunctions(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateScalarFunction("x", &subtyped{}))
	require.NoError(t, conn.CreateScalarFunction("is_x", &isSubtyped{}))

	row, err := conn.QueryOne("SELECT is_x('f'), is_x(x('t'))")
	require.NoError(t, err)
	require.NotNil(t, row)

	var shouldFalse, shouldTrue int64
	require.NoError(t, row.GetAs(0, &shouldFalse))
	require.NoError(t, row.GetAs(1, &shouldTrue))

	require.Zero(t, shouldFalse, "is_x('f') should report false")
	require.EqualValues(t, 1, shouldTrue, "is_x(x('t')) should report true")
}

func TestCreateFunction1(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateFunction1("double_it", func(v Value) (interface{}, error) {
		return v.Int64() * 2, nil
	}))

	row, err := conn.QueryOne("SELECT double_it(21)")
	require.NoError(t, err)
	var result int64
	require.NoError(t, row.GetAs(0, &result))
	require.EqualValues(t, 42, result)
}

func TestRemoveFunction(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateScalarFunction("upper", &upper{}))
	require.NoError(t, conn.RemoveFunction("upper", 1))

	_, err = conn.QueryOne("SELECT upper('sqlite')")
	require.Error(t, err)
}
