package sqlite

// Sequence is the lazy iteration contract a Generator module
// exposes as a single-column (or, with RowidFn set, rowid-controlling)
// read-only virtual table. Implementations decide their own notion of
// "current" and "advance" — a Sequence need not be finite.
type Sequence interface {
	// Init (re)starts iteration, optionally informed by the index number
	// and string BestIndex chose and by the argument values Filter bound.
	Init(idxNum int, idxStr string, args ...Value) error

	// HasMore reports whether Current/Advance may still be called.
	HasMore() bool

	// Current returns the value for the table's single output column.
	Current() (interface{}, error)

	// Advance moves to the next value in the sequence.
	Advance() error
}

// Generator is a reference read-only VirtualTable wrapping a Sequence
// factory. Every cursor gets its own Sequence instance via New, so
// multiple concurrent scans (including self-joins) don't interfere.
type Generator struct {
	Column   string
	New      func() Sequence
	RowidFn  func(idx int64, value interface{}) int64 // optional; defaults to the 0-based position
}

// NewGenerator builds a Generator module exposing a single column named
// column, producing a fresh Sequence per cursor via newSeq.
func NewGenerator(column string, newSeq func() Sequence) *Generator {
	return &Generator{Column: column, New: newSeq}
}

func (g *Generator) Connect(_ *Conn, _ []string, declare func(string) error) (VirtualTable, error) {
	return g, declare("CREATE TABLE x(" + g.Column + ")")
}

func (g *Generator) BestIndex(input *IndexInfoInput) (*IndexInfoOutput, error) {
	usage := make([]*ConstraintUsage, len(input.Constraints))
	for i := range usage {
		usage[i] = &ConstraintUsage{}
	}
	return &IndexInfoOutput{ConstraintUsage: usage, EstimatedCost: 1e6}, nil
}

func (g *Generator) Open() (VirtualCursor, error) {
	return &generatorCursor{gen: g, seq: g.New()}, nil
}

func (g *Generator) Disconnect() error { return nil }
func (g *Generator) Destroy() error    { return nil }

type generatorCursor struct {
	gen   *Generator
	seq   Sequence
	pos   int64
	value interface{}
}

func (c *generatorCursor) Filter(idxNum int, idxStr string, args ...Value) error {
	c.pos = 0
	if err := c.seq.Init(idxNum, idxStr, args...); err != nil {
		return err
	}
	return c.load()
}

func (c *generatorCursor) load() error {
	if !c.seq.HasMore() {
		return nil
	}
	v, err := c.seq.Current()
	if err != nil {
		return err
	}
	c.value = v
	return nil
}

func (c *generatorCursor) Next() error {
	c.pos++
	if err := c.seq.Advance(); err != nil {
		return err
	}
	return c.load()
}

func (c *generatorCursor) Rowid() (int64, error) {
	if c.gen.RowidFn != nil {
		return c.gen.RowidFn(c.pos, c.value), nil
	}
	return c.pos, nil
}

func (c *generatorCursor) Column(ctx *Context, _ int) error {
	switch v := c.value.(type) {
	case nil:
		ctx.ResultNull()
	case int64:
		ctx.ResultInt64(v)
	case int:
		ctx.ResultInt64(int64(v))
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

func (c *generatorCursor) Eof() bool { return !c.seq.HasMore() }

func (c *generatorCursor) Close() error { return nil }
