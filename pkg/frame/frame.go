// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"errors"
	"fmt"
	"slices"
)

// ErrFieldLengthMismatch is returned when the fields of a frame hold different numbers of values.
var ErrFieldLengthMismatch = errors.New("frame: fields have different lengths")

// Frame is a columnar, typed, row-aligned table.
// Row i is made of the i-th value of every field.
type Frame struct {
	Name   string
	Fields []*Field
	Meta   *FrameMeta
}

// FrameMeta carries hints for the rendering layer.
type FrameMeta struct {
	PreferredVisualisationType VisualizationType `json:"preferredVisualisationType,omitempty"`
}

func NewFrame(name string, fields ...*Field) *Frame {
	return &Frame{Name: name, Fields: fields}
}

// SetMeta sets the frame meta and returns the frame for chaining.
func (f *Frame) SetMeta(meta *FrameMeta) *Frame {
	f.Meta = meta
	return f
}

// Rows returns the number of rows, taken from the first field.
func (f *Frame) Rows() int {
	if f == nil || len(f.Fields) == 0 {
		return 0
	}
	return f.Fields[0].Len()
}

// Validate checks that every field holds the same number of values.
func (f *Frame) Validate() error {
	rows := f.Rows()
	for _, fld := range f.Fields {
		if fld.Len() != rows {
			return fmt.Errorf("%w: field '%s' has %d values, expected %d", ErrFieldLengthMismatch, fld.Name, fld.Len(), rows)
		}
	}
	return nil
}

// FieldIndex returns the position of the first field with the given name, or -1.
func (f *Frame) FieldIndex(name string) int {
	return slices.IndexFunc(f.Fields, func(fld *Field) bool { return fld.Name == name })
}

func (f *Frame) FieldByName(name string) (*Field, bool) {
	if i := f.FieldIndex(name); i >= 0 {
		return f.Fields[i], true
	}
	return nil, false
}

// FirstFieldOfType returns the first field of the given type, if any.
func (f *Frame) FirstFieldOfType(t FieldType) (*Field, bool) {
	for _, fld := range f.Fields {
		if fld.Type == t {
			return fld, true
		}
	}
	return nil, false
}

// AppendRow appends one value to each field.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.Fields) {
		return fmt.Errorf("frame: row has %d values, frame has %d fields", len(values), len(f.Fields))
	}
	for i, v := range values {
		f.Fields[i].Values = append(f.Fields[i].Values, v)
	}
	return nil
}

// WithFieldAt returns a new frame whose field at position i is replaced by fld.
// The receiver and its fields are left untouched.
func (f *Frame) WithFieldAt(i int, fld *Field) (*Frame, error) {
	if i < 0 || i >= len(f.Fields) {
		return nil, fmt.Errorf("frame: field index %d out of range [0,%d)", i, len(f.Fields))
	}
	out := f.shallowCopy()
	out.Fields[i] = fld
	return out, nil
}

// Copy returns a frame whose fields own their values slices.
func (f *Frame) Copy() *Frame {
	if f == nil {
		return nil
	}
	out := f.shallowCopy()
	for i, fld := range out.Fields {
		out.Fields[i] = fld.Copy()
	}
	return out
}

func (f *Frame) shallowCopy() *Frame {
	out := &Frame{
		Name:   f.Name,
		Fields: slices.Clone(f.Fields),
	}
	if f.Meta != nil {
		meta := *f.Meta
		out.Meta = &meta
	}
	return out
}
