// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"errors"
	"fmt"

	"github.com/valyala/fastjson"
)

// DecodeError reports a value of a structured field that is not valid JSON.
type DecodeError struct {
	Field string
	Row   int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode field '%s' row %d: %v", e.Field, e.Row, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func IsDecodeError(err error) bool {
	var v *DecodeError
	return errors.As(err, &v)
}

// decodeValue parses s as JSON and converts it to plain Go values:
// map[string]any, []any, float64, string, bool or nil.
func decodeValue(p *fastjson.Parser, s string) (any, error) {
	v, err := p.Parse(s)
	if err != nil {
		return nil, err
	}
	return toGoValue(v)
}

func toGoValue(v *fastjson.Value) (any, error) {
	switch v.Type() {
	case fastjson.TypeNull:
		return nil, nil
	case fastjson.TypeTrue:
		return true, nil
	case fastjson.TypeFalse:
		return false, nil
	case fastjson.TypeNumber:
		return v.Float64()
	case fastjson.TypeString:
		bs, err := v.StringBytes()
		if err != nil {
			return nil, err
		}
		return string(bs), nil
	case fastjson.TypeArray:
		arr, err := v.Array()
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(arr))
		for _, item := range arr {
			iv, err := toGoValue(item)
			if err != nil {
				return nil, err
			}
			out = append(out, iv)
		}
		return out, nil
	case fastjson.TypeObject:
		obj, err := v.Object()
		if err != nil {
			return nil, err
		}
		out := make(map[string]any, obj.Len())
		obj.Visit(func(key []byte, item *fastjson.Value) {
			if err != nil {
				return
			}
			var iv any
			if iv, err = toGoValue(item); err == nil {
				out[string(key)] = iv
			}
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unexpected JSON value type '%s'", v.Type())
	}
}
