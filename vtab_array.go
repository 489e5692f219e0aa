package sqlite

import (
	"fmt"
	"sync"
)

// ArrayTable is a reference WriteableVirtualTable backed entirely by an
// in-memory, mutable row set. It demonstrates the write path of the
// Module/VirtualTable/WriteableVirtualTable contract: rows carry an
// auto-incrementing rowid and survive for the lifetime of the ArrayTable
// value (not the connection). It implements Module, not StatefulModule or
// Transactional, so it is registered as an eponymous module without
// Transaction(true).
//
// Values handed to Insert/Update/Replace are only valid for the duration
// of the engine callback that produced them, so rows are stored as decoded
// natives (via Value.Native) rather than as Value structs.
type ArrayTable struct {
	mu      sync.Mutex
	columns []string
	rows    map[int64][]interface{}
	nextID  int64
}

// NewArrayTable builds an ArrayTable module exposing the given column names.
// Register it with Conn.CreateModule(name, table, ReadOnly(false)).
func NewArrayTable(columns ...string) *ArrayTable {
	return &ArrayTable{columns: columns, rows: make(map[int64][]interface{})}
}

func (t *ArrayTable) Connect(_ *Conn, _ []string, declare func(string) error) (VirtualTable, error) {
	return t, declare(t.schema())
}

func (t *ArrayTable) schema() string {
	sql := "CREATE TABLE x("
	for i, c := range t.columns {
		if i > 0 {
			sql += ", "
		}
		sql += c
	}
	return sql + ")"
}

func (t *ArrayTable) BestIndex(input *IndexInfoInput) (*IndexInfoOutput, error) {
	usage := make([]*ConstraintUsage, len(input.Constraints))
	for i := range usage {
		usage[i] = &ConstraintUsage{}
	}
	t.mu.Lock()
	n := len(t.rows)
	t.mu.Unlock()
	return &IndexInfoOutput{ConstraintUsage: usage, EstimatedCost: float64(n + 1)}, nil
}

func (t *ArrayTable) Open() (VirtualCursor, error) { return &arrayCursor{table: t}, nil }

func (t *ArrayTable) Disconnect() error { return nil }

func (t *ArrayTable) Destroy() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = make(map[int64][]interface{})
	return nil
}

func natives(args []Value) []interface{} {
	out := make([]interface{}, len(args))
	for i, v := range args {
		out[i] = v.Native()
	}
	return out
}

func (t *ArrayTable) Insert(args ...Value) (int64, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextID
	t.nextID++
	t.rows[id] = natives(args)
	return id, nil
}

func (t *ArrayTable) Update(rowid Value, args ...Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := rowid.Int64()
	if _, ok := t.rows[id]; !ok {
		return fmt.Errorf("sqlite: array table: no row with rowid %d", id)
	}
	t.rows[id] = natives(args)
	return nil
}

func (t *ArrayTable) Replace(old, new Value, args ...Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	oldID, newID := old.Int64(), new.Int64()
	row, ok := t.rows[oldID]
	if !ok {
		return fmt.Errorf("sqlite: array table: no row with rowid %d", oldID)
	}
	if len(args) > 0 {
		row = natives(args)
	}
	delete(t.rows, oldID)
	t.rows[newID] = row
	if newID >= t.nextID {
		t.nextID = newID + 1
	}
	return nil
}

func (t *ArrayTable) Delete(rowid Value) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.rows, rowid.Int64())
	return nil
}

// snapshot copies the current rowid/row pairs in ascending rowid order, so a
// cursor iterates a stable view even if the table is mutated concurrently.
func (t *ArrayTable) snapshot() ([]int64, [][]interface{}) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}

	rows := make([][]interface{}, len(ids))
	for i, id := range ids {
		rows[i] = t.rows[id]
	}
	return ids, rows
}

type arrayCursor struct {
	table *ArrayTable
	ids   []int64
	rows  [][]interface{}
	pos   int
}

func (c *arrayCursor) Filter(_ int, _ string, _ ...Value) error {
	c.ids, c.rows = c.table.snapshot()
	c.pos = 0
	return nil
}

func (c *arrayCursor) Next() error { c.pos++; return nil }

func (c *arrayCursor) Rowid() (int64, error) { return c.ids[c.pos], nil }

func (c *arrayCursor) Column(ctx *Context, idx int) error {
	row := c.rows[c.pos]
	if idx >= len(row) {
		ctx.ResultNull()
		return nil
	}
	switch v := row[idx].(type) {
	case nil:
		ctx.ResultNull()
	case int64:
		ctx.ResultInt64(v)
	case float64:
		ctx.ResultFloat(v)
	case string:
		ctx.ResultText(v)
	case []byte:
		ctx.ResultBlob(v)
	default:
		ctx.ResultNull()
	}
	return nil
}

func (c *arrayCursor) Eof() bool { return c.pos >= len(c.ids) }

func (c *arrayCursor) Close() error { return nil }
