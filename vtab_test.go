package sqlite

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayTableReadWrite(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	table := NewArrayTable("name", "age")
	require.NoError(t, conn.CreateModule("people", table, ReadOnly(false)))
	require.NoError(t, conn.ExecRaw("CREATE VIRTUAL TABLE people USING people()"))

	require.NoError(t, conn.ExecRaw("INSERT INTO people (name, age) VALUES ('ada', 30)"))
	require.NoError(t, conn.ExecRaw("INSERT INTO people (name, age) VALUES ('linus', 40)"))

	rows, err := conn.Query("SELECT name, age FROM people ORDER BY name")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	var name string
	require.NoError(t, rows[0].GetAs(0, &name))
	require.Equal(t, "ada", name)

	require.NoError(t, conn.ExecRaw("DELETE FROM people WHERE name = 'ada'"))
	rows, err = conn.Query("SELECT name FROM people")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestArrayTableUpdate(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	table := NewArrayTable("v")
	require.NoError(t, conn.CreateModule("items", table, ReadOnly(false)))
	require.NoError(t, conn.ExecRaw("CREATE VIRTUAL TABLE items USING items()"))
	require.NoError(t, conn.ExecRaw("INSERT INTO items (v) VALUES ('one')"))
	require.NoError(t, conn.ExecRaw("UPDATE items SET v = 'two' WHERE rowid = 0"))

	row, err := conn.QueryOne("SELECT v FROM items")
	require.NoError(t, err)
	require.NotNil(t, row)
	var v string
	require.NoError(t, row.GetAs(0, &v))
	require.Equal(t, "two", v)
}

// countSequence yields 0..n-1, used to test Generator.
type countSequence struct {
	n, pos int64
}

func (s *countSequence) Init(idxNum int, idxStr string, args ...Value) error {
	s.pos = 0
	return nil
}
func (s *countSequence) HasMore() bool             { return s.pos < s.n }
func (s *countSequence) Current() (interface{}, error) { return s.pos, nil }
func (s *countSequence) Advance() error            { s.pos++; return nil }

func TestGeneratorReadOnly(t *testing.T) {
	conn, err := OpenMemory()
	require.NoError(t, err)
	defer conn.Close()

	gen := NewGenerator("value", func() Sequence { return &countSequence{n: 5} })
	require.NoError(t, conn.CreateModule("counter", gen, EponymousOnly(true), ReadOnly(true)))

	rows, err := conn.Query("SELECT value FROM counter")
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for i, row := range rows {
		var v int64
		require.NoError(t, row.GetAs(0, &v))
		require.EqualValues(t, i, v)
	}
}
