package sqltypes

import (
	"database/sql/driver"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/fpdb/fpdb/errors"
)

// BuildValue converts a Go value into a Value.
//
// Slices and arrays become lists, maps with string keys become maps with their
// keys sorted (Go maps have no order; use *Map to control it), pointers are
// dereferenced and driver.Valuer implementations are asked for their value.
func BuildValue(goval interface{}) (v Value, err error) {
	switch bindVal := goval.(type) {
	case nil:
		// no op
	case bool:
		v = MakeBool(bindVal)
	case int:
		v = MakeInt(int64(bindVal))
	case int8:
		v = MakeInt(int64(bindVal))
	case int16:
		v = MakeInt(int64(bindVal))
	case int32:
		v = MakeInt(int64(bindVal))
	case int64:
		v = MakeInt(bindVal)
	case uint:
		v = MakeUint(uint64(bindVal))
	case uint8:
		v = MakeUint(uint64(bindVal))
	case uint16:
		v = MakeUint(uint64(bindVal))
	case uint32:
		v = MakeUint(uint64(bindVal))
	case uint64:
		v = MakeUint(bindVal)
	case float32:
		return buildFloat(float64(bindVal), 32)
	case float64:
		return buildFloat(bindVal, 64)
	case string:
		v = MakeUtf8String(bindVal)
	case []byte:
		v = MakeBytes(bindVal)
	case time.Time:
		v = MakeUtf8String(bindVal.Format("2006-01-02 15:04:05.000000000"))
	case Value:
		v = bindVal
	case []Value:
		v = Value{List(bindVal)}
	case *Map:
		if bindVal != nil {
			v = Value{bindVal}
		}
	case Map:
		m := NewMap()
		bindVal.Range(func(_ int, key string, item Value) bool {
			m.SetValue(key, item)
			return true
		})
		v = Value{m}
	case Bool, Numeric, Fractional, String, List:
		v = Value{bindVal.(InnerValue)}
	case []interface{}:
		list := make(List, len(bindVal))
		for i, item := range bindVal {
			if list[i], err = BuildValue(item); err != nil {
				return Value{}, errors.Wrapf(err, "list element %d", i)
			}
		}
		v = Value{list}
	case []string:
		list := make(List, len(bindVal))
		for i, item := range bindVal {
			list[i] = MakeUtf8String(item)
		}
		v = Value{list}
	case driver.Valuer:
		inner, verr := bindVal.Value()
		if verr != nil {
			return Value{}, errors.Wrapf(verr, "Valuer %T failed", goval)
		}
		return BuildValue(inner)
	default:
		return buildReflectValue(goval)
	}
	return v, nil
}

func buildFloat(f float64, bitSize int) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, errors.Newf("Unsupported non-finite float %v", f)
	}
	return Value{Fractional(strconv.AppendFloat(nil, f, 'f', -1, bitSize))}, nil
}

func buildReflectValue(goval interface{}) (Value, error) {
	rv := reflect.ValueOf(goval)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return NULL, nil
		}
		return BuildValue(rv.Elem().Interface())
	case reflect.Bool:
		return MakeBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return MakeInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return MakeUint(rv.Uint()), nil
	case reflect.Float32:
		return buildFloat(rv.Float(), 32)
	case reflect.Float64:
		return buildFloat(rv.Float(), 64)
	case reflect.String:
		return MakeUtf8String(rv.String()), nil
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(data), rv)
			return MakeBytes(data), nil
		}
		list := make(List, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := BuildValue(rv.Index(i).Interface())
			if err != nil {
				return Value{}, errors.Wrapf(err, "list element %d", i)
			}
			list[i] = item
		}
		return Value{list}, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Value{}, errors.Newf(
				"Unsupported map key type %s: %v", rv.Type().Key(), goval)
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		m := NewMap()
		for _, k := range keys {
			item := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
			if err := m.Set(k, item.Interface()); err != nil {
				return Value{}, errors.Wrapf(err, "map key %q", k)
			}
		}
		return Value{m}, nil
	}
	return Value{}, errors.Newf("Unsupported bind variable type %T: %v", goval, goval)
}

// BuildValues converts every element of args with BuildValue.
func BuildValues(args []interface{}) ([]Value, error) {
	values := make([]Value, len(args))
	for i, arg := range args {
		v, err := BuildValue(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "argument %d", i)
		}
		values[i] = v
	}
	return values, nil
}
