// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"github.com/grafana/regexp"

	"github.com/netdata/netdata/go/traceview/pkg/frame"
)

const (
	TimeFieldName    = "Time"
	TraceIDFieldName = "traceID"
	MessageFieldName = "Message"
)

// NewTraceIDTable returns the empty table that BuildTraceIDTable fills.
// The trace ID field links every value to a query against the given data source.
func NewTraceIDTable(datasourceUID, datasourceName string) *frame.Frame {
	traceID := frame.NewField(TraceIDFieldName, frame.FieldTypeString)
	traceID.Config = &frame.FieldConfig{
		DisplayNameFromDS: "Trace ID",
		Links: []frame.DataLink{{
			Title: "Trace: " + frame.ValueRawPlaceholder,
			URL:   "",
			Internal: &frame.InternalDataLink{
				DatasourceUID:  datasourceUID,
				DatasourceName: datasourceName,
				Query:          map[string]any{"query": frame.ValueRawPlaceholder},
			},
		}},
	}

	return frame.NewFrame("",
		frame.NewField(TimeFieldName, frame.FieldTypeTime),
		traceID,
		frame.NewField(MessageFieldName, frame.FieldTypeString),
	).SetMeta(&frame.FrameMeta{PreferredVisualisationType: frame.VisualizationTable})
}

// BuildTraceIDTable scans every string field of logs for pattern matches and
// returns a (Time, traceID, Message) table with one row per matching value.
//
// Rows follow field-then-row order of logs. The time of a row comes from the
// first time field of logs at the same index; without a time field it is nil.
// A nil logs frame or a nil pattern yields the empty table.
func BuildTraceIDTable(logs *frame.Frame, datasourceUID, datasourceName string, pattern *regexp.Regexp) *frame.Frame {
	table := NewTraceIDTable(datasourceUID, datasourceName)
	if logs == nil || pattern == nil {
		return table
	}

	timeField, _ := logs.FirstFieldOfType(frame.FieldTypeTime)

	for _, fld := range logs.Fields {
		if fld.Type != frame.FieldTypeString {
			continue
		}
		for i, v := range fld.Values {
			line, ok := v.(string)
			if !ok || line == "" {
				continue
			}
			traceID, ok := matchTraceID(pattern, line)
			if !ok {
				continue
			}

			var ts any
			if timeField != nil {
				ts = timeField.At(i)
			}

			// arity always matches the three table fields
			_ = table.AppendRow(ts, traceID, line)
		}
	}

	return table
}

func matchTraceID(pattern *regexp.Regexp, line string) (any, bool) {
	loc := pattern.FindStringSubmatchIndex(line)
	if loc == nil {
		return nil, false
	}
	if len(loc) < 4 || loc[2] < 0 {
		// matched, but the group did not participate
		return nil, true
	}
	return line[loc[2]:loc[3]], true
}
