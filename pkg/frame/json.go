// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/tidwall/gjson"
)

// ErrInvalidJSON is returned when the input is not valid JSON.
var ErrInvalidJSON = errors.New("frame: invalid JSON")

type (
	frameJSON struct {
		Schema schemaJSON `json:"schema"`
		Data   dataJSON   `json:"data"`
	}
	schemaJSON struct {
		Name   string     `json:"name,omitempty"`
		Meta   *FrameMeta `json:"meta,omitempty"`
		Fields []*Field   `json:"fields"`
	}
	dataJSON struct {
		Values [][]any `json:"values"`
	}
)

// MarshalJSON encodes the frame in the schema/data layout.
// Time values are written as epoch milliseconds.
func (f *Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		Schema: schemaJSON{Name: f.Name, Meta: f.Meta, Fields: f.Fields},
		Data:   dataJSON{Values: make([][]any, len(f.Fields))},
	}
	if out.Schema.Fields == nil {
		out.Schema.Fields = []*Field{}
	}

	for i, fld := range f.Fields {
		values := make([]any, len(fld.Values))
		for j, v := range fld.Values {
			if tm, ok := v.(time.Time); ok {
				v = tm.UnixMilli()
			}
			values[j] = v
		}
		out.Data.Values[i] = values
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes a frame in either the schema/data layout or the
// "fields with values" layout.
func (f *Frame) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return ErrInvalidJSON
	}
	v, err := parseFrame(gjson.ParseBytes(b))
	if err != nil {
		return err
	}
	if v == nil {
		*f = Frame{}
		return nil
	}
	*f = *v
	return nil
}

func (r *Response) UnmarshalJSON(b []byte) error {
	v, err := ParseResponse(b)
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// ParseResponse decodes a query response: either {"data": [frame, ...]} or a bare array of frames.
// A null entry decodes to a nil frame.
func ParseResponse(data []byte) (Response, error) {
	if !gjson.ValidBytes(data) {
		return Response{}, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)

	var frames gjson.Result
	switch {
	case root.IsArray():
		frames = root
	case root.Get("data").IsArray():
		frames = root.Get("data")
	default:
		return Response{}, errors.New("frame: response has no 'data' array")
	}

	var resp Response
	for i, v := range frames.Array() {
		f, err := parseFrame(v)
		if err != nil {
			return Response{}, fmt.Errorf("frame %d: %w", i, err)
		}
		resp.Frames = append(resp.Frames, f)
	}
	return resp, nil
}

func parseFrame(v gjson.Result) (*Frame, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsObject() {
		return nil, errors.New("frame: not an object")
	}

	var f *Frame
	var err error

	if schema := v.Get("schema"); schema.Exists() {
		f, err = parseSchemaFrame(schema, v.Get("data.values"))
	} else {
		f, err = parseFieldsFrame(v)
	}
	if err != nil {
		return nil, err
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func parseSchemaFrame(schema, values gjson.Result) (*Frame, error) {
	f := &Frame{Name: schema.Get("name").String()}

	if err := parseMeta(f, schema.Get("meta")); err != nil {
		return nil, err
	}

	cols := values.Array()
	for i, fv := range schema.Get("fields").Array() {
		var col gjson.Result
		if i < len(cols) {
			col = cols[i]
		}
		fld, err := parseField(fv, col)
		if err != nil {
			return nil, err
		}
		f.Fields = append(f.Fields, fld)
	}
	return f, nil
}

func parseFieldsFrame(v gjson.Result) (*Frame, error) {
	f := &Frame{Name: v.Get("name").String()}

	if err := parseMeta(f, v.Get("meta")); err != nil {
		return nil, err
	}

	for _, fv := range v.Get("fields").Array() {
		fld, err := parseField(fv, fv.Get("values"))
		if err != nil {
			return nil, err
		}
		f.Fields = append(f.Fields, fld)
	}
	return f, nil
}

func parseMeta(f *Frame, meta gjson.Result) error {
	if !meta.IsObject() {
		return nil
	}
	f.Meta = &FrameMeta{}
	if err := json.Unmarshal([]byte(meta.Raw), f.Meta); err != nil {
		return fmt.Errorf("frame '%s' meta: %w", f.Name, err)
	}
	return nil
}

func parseField(fv, values gjson.Result) (*Field, error) {
	name := fv.Get("name").String()

	typ, _ := ParseFieldType(fv.Get("type").String())
	fld := NewField(name, typ)

	if cfg := fv.Get("config"); cfg.IsObject() {
		fld.Config = &FieldConfig{}
		if err := json.Unmarshal([]byte(cfg.Raw), fld.Config); err != nil {
			return nil, fmt.Errorf("field '%s' config: %w", name, err)
		}
	}

	for i, raw := range values.Array() {
		val, err := parseValue(typ, raw)
		if err != nil {
			return nil, fmt.Errorf("field '%s' row %d: %w", name, i, err)
		}
		fld.Values = append(fld.Values, val)
	}
	return fld, nil
}

func parseValue(typ FieldType, v gjson.Result) (any, error) {
	if v.Type == gjson.Null {
		return nil, nil
	}
	if typ != FieldTypeTime {
		return v.Value(), nil
	}

	switch v.Type {
	case gjson.Number:
		return time.UnixMilli(v.Int()).UTC(), nil
	case gjson.String:
		tm, err := dateparse.ParseAny(v.Str)
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		return tm, nil
	default:
		return nil, fmt.Errorf("unexpected time value '%s'", v.Raw)
	}
}
