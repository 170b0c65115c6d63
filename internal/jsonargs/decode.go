// Package jsonargs decodes a JSON array into template arguments.
//
// Objects keep the order of their keys, integers stay integers and a string
// equal to the skip token becomes the skip marker:
//
//	[1, "Jack", {"name": "Bob", "age": 25}, "__SKIP__"]
package jsonargs

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/fpdb/fpdb/database/sqltypes"
	"github.com/fpdb/fpdb/errors"
)

// Decode reads one JSON array from r.
func Decode(r io.Reader, skipToken string) ([]sqltypes.Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Failed to read arguments")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, errors.Newf("Arguments must be a JSON array, got %v", tok)
	}

	d := decoder{dec: dec, skipToken: skipToken}
	args, err := d.array()
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("Unexpected data after the arguments array")
	}
	return args, nil
}

// DecodeString is Decode for a string holding the JSON text.  An empty string
// means no arguments.
func DecodeString(s string, skipToken string) ([]sqltypes.Value, error) {
	return Decode(bytes.NewBufferString(s), skipToken)
}

type decoder struct {
	dec       *json.Decoder
	skipToken string
}

// array decodes the elements of an array whose '[' was already read.
func (d *decoder) array() ([]sqltypes.Value, error) {
	values := []sqltypes.Value{}
	for d.dec.More() {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, errors.Wrap(err, "Unterminated array")
	}
	return values, nil
}

// object decodes the pairs of an object whose '{' was already read.
func (d *decoder) object() (*sqltypes.Map, error) {
	m := sqltypes.NewMap()
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to read object key")
		}
		key, ok := tok.(string)
		if !ok {
			return nil, errors.Newf("Object key is not a string: %v", tok)
		}
		v, err := d.value()
		if err != nil {
			return nil, errors.Wrapf(err, "Invalid value for key %q", key)
		}
		m.SetValue(key, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, errors.Wrap(err, "Unterminated object")
	}
	return m, nil
}

func (d *decoder) value() (sqltypes.Value, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return sqltypes.NULL, errors.Wrap(err, "Failed to read value")
	}

	switch t := tok.(type) {
	case nil:
		return sqltypes.NULL, nil
	case bool:
		return sqltypes.MakeBool(t), nil
	case json.Number:
		return number(t)
	case string:
		if t == d.skipToken {
			return sqltypes.SKIP, nil
		}
		return sqltypes.MakeUtf8String(t), nil
	case json.Delim:
		switch t {
		case '[':
			values, err := d.array()
			if err != nil {
				return sqltypes.NULL, err
			}
			return sqltypes.MakeList(values...), nil
		case '{':
			m, err := d.object()
			if err != nil {
				return sqltypes.NULL, err
			}
			return sqltypes.MakeMap(m), nil
		}
	}
	return sqltypes.NULL, errors.Newf("Unexpected token %v", tok)
}

// number keeps integers exact and falls back to floats for everything else.
func number(n json.Number) (sqltypes.Value, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return sqltypes.MakeInt(i), nil
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return sqltypes.MakeUint(u), nil
	}
	f, err := n.Float64()
	if err != nil {
		return sqltypes.NULL, errors.Wrapf(err, "Invalid number %s", n)
	}
	return sqltypes.BuildValue(f)
}
