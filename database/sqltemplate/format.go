package sqltemplate

import (
	"bytes"
	"math"
	"strconv"

	"github.com/fpdb/fpdb/database/sqltypes"
)

var (
	listSeparator = []byte(", ")
	nullText      = []byte("NULL")
)

// formatter renders one argument for one placeholder.  It holds no state
// besides the escaper, so formatting is deterministic.
type formatter struct {
	esc sqltypes.Escaper
}

// format writes arg formatted for tok to out.  present is false when the
// arguments ran out before tok.
func (f formatter) format(
	out *bytes.Buffer,
	tok Token,
	arg sqltypes.Value,
	argIndex int,
	present bool) error {

	switch tok.Placeholder {
	case ScalarPlaceholder:
		if !present {
			return typeMismatch(tok, argIndex, "a scalar", "missing argument")
		}
		return f.formatScalar(out, tok, argIndex, arg)
	case IntPlaceholder:
		f.formatInt(out, arg)
		return nil
	case FloatPlaceholder:
		f.formatFloat(out, arg)
		return nil
	case ArrayPlaceholder:
		if !present {
			return typeMismatch(tok, argIndex, "a list or map", "missing argument")
		}
		return f.formatArray(out, tok, argIndex, arg)
	case IdentifierPlaceholder:
		if !present {
			return typeMismatch(
				tok, argIndex, "a string or list of strings", "missing argument")
		}
		return f.formatIdentifier(out, tok, argIndex, arg)
	}
	return unknownPlaceholder(tok, argIndex)
}

func (f formatter) formatScalar(
	out *bytes.Buffer,
	tok Token,
	argIndex int,
	arg sqltypes.Value) error {

	if !arg.IsScalar() {
		return typeMismatch(tok, argIndex, "a scalar", arg.Type().String())
	}
	return arg.EncodeSql(out, f.esc)
}

func (f formatter) formatInt(out *bytes.Buffer, arg sqltypes.Value) {
	if n, ok := arg.Inner.(sqltypes.Numeric); ok {
		out.Write(n)
		return
	}
	out.Write(strconv.AppendInt(out.AvailableBuffer(), arg.Int64(), 10))
}

func (f formatter) formatFloat(out *bytes.Buffer, arg sqltypes.Value) {
	v := arg.Float64()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		out.Write(nullText)
		return
	}
	out.Write(strconv.AppendFloat(out.AvailableBuffer(), v, 'f', -1, 64))
}

func (f formatter) formatArray(
	out *bytes.Buffer,
	tok Token,
	argIndex int,
	arg sqltypes.Value) error {

	if list, ok := arg.List(); ok {
		for i, item := range list {
			if i > 0 {
				out.Write(listSeparator)
			}
			if !item.IsScalar() {
				return typeMismatch(
					tok,
					argIndex,
					"a list of scalars",
					"a list containing "+item.Type().String())
			}
			if err := item.EncodeSql(out, f.esc); err != nil {
				return err
			}
		}
		return nil
	}

	if m, ok := arg.Map(); ok {
		var err error
		m.Range(func(i int, key string, item sqltypes.Value) bool {
			if i > 0 {
				out.Write(listSeparator)
			}
			if !item.IsScalar() {
				err = typeMismatch(
					tok,
					argIndex,
					"a map of scalars",
					"a map containing "+item.Type().String())
				return false
			}
			f.writeIdentifier(out, key)
			out.WriteString(" = ")
			err = item.EncodeSql(out, f.esc)
			return err == nil
		})
		return err
	}

	return typeMismatch(tok, argIndex, "a list or map", arg.Type().String())
}

func (f formatter) formatIdentifier(
	out *bytes.Buffer,
	tok Token,
	argIndex int,
	arg sqltypes.Value) error {

	if name, ok := arg.Text(); ok {
		f.writeIdentifier(out, name)
		return nil
	}

	if list, ok := arg.List(); ok {
		for i, item := range list {
			name, ok := item.Text()
			if !ok {
				return typeMismatch(
					tok,
					argIndex,
					"a list of strings",
					"a list containing "+item.Type().String())
			}
			if i > 0 {
				out.Write(listSeparator)
			}
			f.writeIdentifier(out, name)
		}
		return nil
	}

	return typeMismatch(
		tok, argIndex, "a string or list of strings", arg.Type().String())
}

func (f formatter) writeIdentifier(out *bytes.Buffer, name string) {
	out.WriteByte('`')
	out.WriteString(f.esc.EscapeString(name))
	out.WriteByte('`')
}
