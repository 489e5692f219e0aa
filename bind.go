package sqlite

import "strconv"

// ToSql converts a host value into a form bindable to a prepared statement
// parameter. Implement it on a type to make values of that type acceptable
// wherever Stmt.BindAll / Conn.Query accept ...interface{} arguments.
type ToSql interface {
	ToSql() (interface{}, error)
}

// FromSql converts a single query-result column into a host type.
// Row.GetAs and Row.GetByNameAs do not consult it: they decode only into
// the pointer types listed on GetAs.
type FromSql interface {
	FromSql(v Value) error
}

// BindAll binds each arg to the correspondingly-numbered parameter (1-based)
// of stmt, applying ToSql first where an argument implements it.
func (stmt *Stmt) BindAll(args ...interface{}) error {
	for i, arg := range args {
		if err := stmt.bindOne(i+1, arg); err != nil {
			return err
		}
	}
	return stmt.bindErr
}

func (stmt *Stmt) bindOne(param int, arg interface{}) error {
	if conv, ok := arg.(ToSql); ok {
		v, err := conv.ToSql()
		if err != nil {
			return err
		}
		arg = v
	}

	switch v := arg.(type) {
	case nil:
		stmt.BindNull(param)
	case int:
		stmt.BindInt64(param, int64(v))
	case int8:
		stmt.BindInt64(param, int64(v))
	case int16:
		stmt.BindInt64(param, int64(v))
	case int32:
		stmt.BindInt64(param, int64(v))
	case int64:
		stmt.BindInt64(param, v)
	case uint:
		stmt.BindInt64(param, int64(v))
	case uint8:
		stmt.BindInt64(param, int64(v))
	case uint16:
		stmt.BindInt64(param, int64(v))
	case uint32:
		stmt.BindInt64(param, int64(v))
	case uint64:
		stmt.BindInt64(param, int64(v))
	case float32:
		stmt.BindFloat(param, float64(v))
	case float64:
		stmt.BindFloat(param, v)
	case bool:
		stmt.BindBool(param, v)
	case string:
		stmt.BindText(param, v)
	case []byte:
		stmt.BindBytes(param, v)
	case Value:
		stmt.BindValue(param, v)
	default:
		return &ParamBindError{Reason: "unsupported argument type for parameter " + strconv.Itoa(param)}
	}
	return nil
}
