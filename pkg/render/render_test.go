// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/traceview/pkg/frame"
	"github.com/netdata/netdata/go/traceview/pkg/tempo"
)

func traceTable(t *testing.T) *frame.Frame {
	t.Helper()

	logs := frame.NewFrame("logs",
		frame.NewField("ts", frame.FieldTypeTime,
			time.Date(2021, 5, 10, 10, 0, 0, 0, time.UTC),
			time.Date(2021, 5, 10, 10, 0, 1, 0, time.UTC),
		),
		frame.NewField("line", frame.FieldTypeString, "traceID=abc123 ok", "no id"),
	)
	pattern, err := tempo.CompileTraceIDPattern(tempo.DefaultTraceIDPattern)
	require.NoError(t, err)

	return tempo.BuildTraceIDTable(logs, "tempo-uid", "Tempo", pattern)
}

func TestText(t *testing.T) {
	tests := map[string]struct {
		frame   func(t *testing.T) *frame.Frame
		tmpl    string
		want    string
		wantErr bool
	}{
		"default template": {
			frame: traceTable,
			want: "Time                  traceID  Message\n" +
				"2021-05-10T10:00:00Z  abc123   traceID=abc123 ok\n",
		},
		"records and link": {
			frame: traceTable,
			tmpl:  `{{ range .Records }}{{ link "traceID" .traceID }}{{ end }}`,
			want:  "Trace: abc123 (Tempo)",
		},
		"sprig functions": {
			frame: traceTable,
			tmpl:  `{{ range .Fields }}{{ .Name | upper }};{{ end }}`,
			want:  "TIME;TRACEID;MESSAGE;",
		},
		"nil frame": {
			frame: func(*testing.T) *frame.Frame { return nil },
			want:  "\n",
		},
		"unknown field in link": {
			frame:   traceTable,
			tmpl:    `{{ link "nope" "x" }}`,
			wantErr: true,
		},
		"bad template": {
			frame:   traceTable,
			tmpl:    `{{ range }`,
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer

			err := Text(&buf, test.frame(t), test.tmpl)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, buf.String())
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := map[string]struct {
		value any
		want  string
	}{
		"nil":    {value: nil, want: ""},
		"string": {value: "x", want: "x"},
		"number": {value: 1.5, want: "1.5"},
		"bool":   {value: true, want: "true"},
		"time":   {value: time.Date(2021, 5, 10, 12, 0, 0, 0, time.FixedZone("X", 3600)), want: "2021-05-10T11:00:00Z"},
		"map":    {value: map[string]any{"a": 1.0}, want: `{"a":1}`},
		"slice":  {value: []any{"a", nil}, want: `["a",null]`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, FormatValue(test.value))
		})
	}
}
