// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"maps"
	"slices"
	"strings"
)

// ValueRawPlaceholder is replaced with the row's raw value when a data link is followed.
const ValueRawPlaceholder = "${__value.raw}"

// Field is one named, typed, ordered sequence of values within a Frame.
type Field struct {
	Name   string       `json:"name"`
	Type   FieldType    `json:"type"`
	Config *FieldConfig `json:"config,omitempty"`
	Values []any        `json:"-"`
}

// FieldConfig holds per-field display metadata.
type FieldConfig struct {
	DisplayNameFromDS string     `json:"displayNameFromDS,omitempty"`
	Links             []DataLink `json:"links,omitempty"`
}

// DataLink is a drill-down navigation template attached to a field.
type DataLink struct {
	Title    string            `json:"title"`
	URL      string            `json:"url"`
	Internal *InternalDataLink `json:"internal,omitempty"`
}

// InternalDataLink points to a query against another data source.
type InternalDataLink struct {
	DatasourceUID  string         `json:"datasourceUid"`
	DatasourceName string         `json:"datasourceName"`
	Query          map[string]any `json:"query"`
}

// NewField returns a field with the given values. A nil values slice becomes empty.
func NewField(name string, typ FieldType, values ...any) *Field {
	if values == nil {
		values = []any{}
	}
	return &Field{Name: name, Type: typ, Values: values}
}

func (f *Field) Len() int { return len(f.Values) }

// At returns the value at row i, or nil when i is out of range.
func (f *Field) At(i int) any {
	if i < 0 || i >= len(f.Values) {
		return nil
	}
	return f.Values[i]
}

// Copy returns a field with its own values slice. Values themselves are shared.
func (f *Field) Copy() *Field {
	if f == nil {
		return nil
	}
	cp := *f
	cp.Values = slices.Clone(f.Values)
	if cp.Values == nil {
		cp.Values = []any{}
	}
	cp.Config = f.Config.copy()
	return &cp
}

func (c *FieldConfig) copy() *FieldConfig {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Links = slices.Clone(c.Links)
	for i, l := range cp.Links {
		if l.Internal != nil {
			in := *l.Internal
			in.Query = maps.Clone(l.Internal.Query)
			cp.Links[i].Internal = &in
		}
	}
	return &cp
}

// Interpolate substitutes the raw value placeholder in the link title, URL and query.
func (l DataLink) Interpolate(raw string) DataLink {
	out := DataLink{
		Title: strings.ReplaceAll(l.Title, ValueRawPlaceholder, raw),
		URL:   strings.ReplaceAll(l.URL, ValueRawPlaceholder, raw),
	}
	if l.Internal != nil {
		in := *l.Internal
		in.Query = make(map[string]any, len(l.Internal.Query))
		for k, v := range l.Internal.Query {
			if s, ok := v.(string); ok {
				v = strings.ReplaceAll(s, ValueRawPlaceholder, raw)
			}
			in.Query[k] = v
		}
		out.Internal = &in
	}
	return out
}
