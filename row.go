package sqlite

import (
	"strconv"
	"strings"
)

// Row is a materialised copy of one result row, captured eagerly so it
// remains valid after the statement that produced it steps again or is
// reset. Column cells are copied out of engine memory at capture time.
type Row struct {
	names []string
	vals  []interface{}
}

// ColumnMetadata describes the provenance of a single result column, when
// the engine can resolve it back to a real table (computed expressions and
// virtual-table columns may report empty strings).
type ColumnMetadata struct {
	Database string
	Table    string
	Name     string
}

// currentRow captures the statement's current row into a Row value.
func (stmt *Stmt) currentRow() *Row {
	n := stmt.ColumnCount()
	r := &Row{names: make([]string, n), vals: make([]interface{}, n)}
	for i := 0; i < n; i++ {
		r.names[i] = stmt.ColumnName(i)
		r.vals[i] = stmt.ColumnValue(i).Native()
	}
	return r
}

// Size reports the number of columns in the row.
func (r *Row) Size() int { return len(r.vals) }

// ColumnNames reports the row's column names, in positional order.
func (r *Row) ColumnNames() []string { return r.names }

func (r *Row) indexOf(name string) int {
	for i, n := range r.names {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return -1
}

// Get returns the native value of the column at the given 0-based index.
func (r *Row) Get(i int) (interface{}, error) {
	if i < 0 || i >= len(r.vals) {
		return nil, &ColumnNotFoundError{Key: strIndex(i)}
	}
	return r.vals[i], nil
}

// GetByName is an ASCII case-insensitive lookup of Get by column name.
func (r *Row) GetByName(name string) (interface{}, error) {
	i := r.indexOf(name)
	if i < 0 {
		return nil, &ColumnNotFoundError{Key: name}
	}
	return r.vals[i], nil
}

// GetAs decodes the column at index i into dst, which must be a pointer to
// one of the types Get's native values convert to (int64, int, float64,
// string, []byte, bool, *int64).
func (r *Row) GetAs(i int, dst interface{}) error {
	v, err := r.Get(i)
	if err != nil {
		return err
	}
	return assignNative(strIndex(i), v, dst)
}

// GetByNameAs is the by-name counterpart of GetAs.
func (r *Row) GetByNameAs(name string, dst interface{}) error {
	v, err := r.GetByName(name)
	if err != nil {
		return err
	}
	return assignNative(name, v, dst)
}

func assignNative(name string, v interface{}, dst interface{}) error {
	switch d := dst.(type) {
	case *int64:
		if v == nil {
			return &NullColumnError{Name: name}
		}
		i, err := requireInt64(v)
		if err != nil {
			return err
		}
		*d = i
	case *int:
		if v == nil {
			return &NullColumnError{Name: name}
		}
		i, err := requireInt64(v)
		if err != nil {
			return err
		}
		*d = int(i)
	case *float64:
		if v == nil {
			return &NullColumnError{Name: name}
		}
		f, err := requireFloat64(v)
		if err != nil {
			return err
		}
		*d = f
	case *string:
		if v == nil {
			return &NullColumnError{Name: name}
		}
		s, ok := v.(string)
		if !ok {
			return &TypeMismatchError{Expected: "TEXT", Actual: nativeTypeName(v)}
		}
		*d = s
	case *[]byte:
		if v == nil {
			return &NullColumnError{Name: name}
		}
		b, ok := v.([]byte)
		if !ok {
			return &TypeMismatchError{Expected: "BLOB", Actual: nativeTypeName(v)}
		}
		*d = b
	case *bool:
		*d = truthy(v)
	case **int64:
		if v == nil {
			*d = nil
			return nil
		}
		i, err := requireInt64(v)
		if err != nil {
			return err
		}
		*d = &i
	default:
		return &TypeMismatchError{Expected: "supported Go type", Actual: nativeTypeName(v)}
	}
	return nil
}

func requireInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, &TypeMismatchError{Expected: "INTEGER", Actual: nativeTypeName(v)}
	}
}

func requireFloat64(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	default:
		return 0, &TypeMismatchError{Expected: "FLOAT", Actual: nativeTypeName(v)}
	}
}

// truthy applies the library's liberal boolean coercion: NULL and the
// integer 0 are false, any other integer is true, everything else is false.
func truthy(v interface{}) bool {
	switch n := v.(type) {
	case nil:
		return false
	case int64:
		return n != 0
	default:
		return false
	}
}

func nativeTypeName(v interface{}) string {
	switch v.(type) {
	case nil:
		return "NULL"
	case int64:
		return "INTEGER"
	case float64:
		return "FLOAT"
	case string:
		return "TEXT"
	case []byte:
		return "BLOB"
	default:
		return "unknown"
	}
}

func strIndex(i int) string { return strconv.Itoa(i) }
