// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"github.com/valyala/fastjson"

	"github.com/netdata/netdata/go/traceview/pkg/frame"
)

// DefaultStructuredFields are the trace frame fields that carry stringified JSON.
var DefaultStructuredFields = []string{"serviceTags", "logs", "tags"}

// EmptyTraceFrame is the "nothing to display" frame for the trace viewer.
func EmptyTraceFrame() *frame.Frame {
	return frame.NewFrame("",
		frame.NewField("trace", frame.FieldTypeTrace),
	).SetMeta(&frame.FrameMeta{PreferredVisualisationType: frame.VisualizationTrace})
}

// DecodeStructuredFields returns a copy of f in which every field named in
// names is replaced, at the same position, by a field of type other holding
// the decoded JSON values.
//
// Empty strings decode to nil and non-string values are kept as they are.
// Fields already of type other are left untouched, even when they hold
// strings, so decoding an already decoded frame changes nothing.
// The result never shares fields, values or configs with f.
//
// The first invalid value aborts the whole operation with a *DecodeError.
// A nil f yields EmptyTraceFrame.
func DecodeStructuredFields(f *frame.Frame, names []string) (*frame.Frame, error) {
	if f == nil {
		return EmptyTraceFrame(), nil
	}

	var p fastjson.Parser
	out := f.Copy()

	for _, name := range names {
		idx := out.FieldIndex(name)
		if idx < 0 || out.Fields[idx].Type == frame.FieldTypeOther {
			continue
		}

		decoded, err := decodeField(&p, out.Fields[idx])
		if err != nil {
			return nil, err
		}
		out.Fields[idx] = decoded
	}

	return out, nil
}

func decodeField(p *fastjson.Parser, fld *frame.Field) (*frame.Field, error) {
	values := make([]any, len(fld.Values))

	for i, v := range fld.Values {
		s, ok := v.(string)
		switch {
		case !ok:
			values[i] = v
		case s == "":
			values[i] = nil
		default:
			dv, err := decodeValue(p, s)
			if err != nil {
				return nil, &DecodeError{Field: fld.Name, Row: i, Err: err}
			}
			values[i] = dv
		}
	}

	out := fld.Copy()
	out.Type = frame.FieldTypeOther
	out.Values = values
	return out, nil
}
