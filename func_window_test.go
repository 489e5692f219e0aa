package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Sum implements a window function (that also doubles up as a normal
// aggregate function), per the description at
// https://sqlite.org/lang_aggfunc.html#sumunc
type Sum struct{}

func (s *Sum) Args() int           { return 1 }
func (s *Sum) Deterministic() bool { return true }

type sumState struct {
	rSum   float64
	iSum   int64
	count  int64
	approx bool
}

func (s *Sum) Step(ctx *AggregateContext, values ...Value) {
	if ctx.Data() == nil {
		ctx.SetData(&sumState{})
	}

	val := values[0]
	state := ctx.Data().(*sumState)

	if !val.IsNull() {
		state.count++
		if val.Type() == SQLITE_INTEGER {
			state.iSum += val.Int64()
		} else {
			state.approx = true
			state.rSum += val.Float()
		}
	}
}

func (s *Sum) Final(ctx *AggregateContext) {
	if ctx.Data() == nil {
		return
	}
	state := ctx.Data().(*sumState)
	if state.count > 0 {
		if state.approx {
			ctx.ResultFloat(state.rSum)
		} else {
			ctx.ResultInt64(state.iSum)
		}
	}
}

func (s *Sum) Inverse(ctx *AggregateContext, values ...Value) {
	val := values[0]
	state := ctx.Data().(*sumState)
	if val.Type() == SQLITE_INTEGER && !state.approx {
		v := val.Int64()
		state.rSum -= float64(v)
		state.iSum -= v
	} else {
		state.rSum -= val.Float()
	}
}

func (s *Sum) Value(ctx *AggregateContext) { s.Final(ctx) }

const generateSeriesCTE = `
WITH RECURSIVE generate_series(value) AS (
	SELECT 1
		UNION ALL
	SELECT value+1 FROM generate_series
		WHERE value+1<=10
)`

func TestWindowFunction(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.CreateAggregateFunction("sum", &Sum{}))

	t.Run("normal aggregation", func(t *testing.T) {
		row, err := conn.QueryOne(generateSeriesCTE + " SELECT SUM(value) FROM generate_series")
		require.NoError(t, err)
		require.NotNil(t, row)

		var result int64
		require.NoError(t, row.GetAs(0, &result))
		require.EqualValues(t, 55, result)
	})

	t.Run("running sum", func(t *testing.T) {
		rows, err := conn.Query(generateSeriesCTE +
			" SELECT SUM(value) OVER(ROWS UNBOUNDED PRECEDING) AS running_total FROM generate_series")
		require.NoError(t, err)

		series := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
		var total int64
		require.Len(t, rows, len(series))

		for i, row := range rows {
			total += series[i]

			var got int64
			require.NoError(t, row.GetAs(0, &got))
			require.Equal(t, total, got)
		}
	})
}
