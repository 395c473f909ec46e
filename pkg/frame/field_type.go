// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"encoding/json"
	"fmt"
)

// FieldType defines the declared value type of a field.
type FieldType uint8

const (
	// FieldTypeUnknown is used for type names this package does not recognise.
	FieldTypeUnknown FieldType = iota
	// FieldTypeTime holds time.Time values.
	FieldTypeTime
	// FieldTypeNumber holds float64 values.
	FieldTypeNumber
	// FieldTypeString holds text, possibly serialized structured payloads.
	FieldTypeString
	// FieldTypeBoolean holds bool values.
	FieldTypeBoolean
	// FieldTypeTrace marks the field consumed by the trace viewer.
	FieldTypeTrace
	// FieldTypeOther holds decoded structured values (maps, slices, scalars).
	FieldTypeOther
)

var fieldTypeNames = map[FieldType]string{
	FieldTypeTime:    "time",
	FieldTypeNumber:  "number",
	FieldTypeString:  "string",
	FieldTypeBoolean: "boolean",
	FieldTypeTrace:   "trace",
	FieldTypeOther:   "other",
}

// String returns the wire keyword used for this field type.
func (t FieldType) String() string {
	if s, ok := fieldTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

// ParseFieldType maps a wire keyword to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	for t, name := range fieldTypeNames {
		if name == s {
			return t, nil
		}
	}
	return FieldTypeUnknown, fmt.Errorf("unknown field type '%s'", s)
}

// MarshalJSON encodes the field type as a wire keyword.
func (t FieldType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a wire keyword. Unrecognised keywords become FieldTypeUnknown.
func (t *FieldType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t, _ = ParseFieldType(s)
	return nil
}

// VisualizationType is the display hint a frame carries for the rendering layer.
type VisualizationType string

const (
	VisualizationTable VisualizationType = "table"
	VisualizationTrace VisualizationType = "trace"
	VisualizationGraph VisualizationType = "graph"
	VisualizationLogs  VisualizationType = "logs"
)
