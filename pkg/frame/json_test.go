// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResponse_SchemaLayout(t *testing.T) {
	data, err := os.ReadFile("testdata/loki_logs.json")
	require.NoError(t, err)

	resp, err := ParseResponse(data)
	require.NoError(t, err)
	require.Len(t, resp.Frames, 1)

	f := resp.First()
	assert.Equal(t, "logs", f.Name)
	require.NotNil(t, f.Meta)
	assert.Equal(t, VisualizationLogs, f.Meta.PreferredVisualisationType)
	require.Len(t, f.Fields, 3)
	assert.Equal(t, 2, f.Rows())

	ts := f.Fields[0]
	assert.Equal(t, FieldTypeTime, ts.Type)
	assert.Equal(t, time.UnixMilli(1620640800000).UTC(), ts.Values[0])

	assert.Equal(t, "level=warn msg=slow", f.Fields[1].Values[1])
	assert.Equal(t, map[string]any{"job": "api"}, f.Fields[2].Values[0])
	assert.Nil(t, f.Fields[2].Values[1])
}

func TestParseResponse_FieldsLayout(t *testing.T) {
	data := []byte(`[
	  {
	    "name": "spans",
	    "fields": [
	      {"name": "startTime", "type": "time", "values": ["2021-05-10T10:00:00Z", null]},
	      {"name": "duration", "type": "number", "values": [12.5, 3]},
	      {"name": "traceID", "type": "string", "config": {"displayNameFromDS": "Trace ID"}, "values": ["a", "b"]}
	    ]
	  },
	  null
	]`)

	resp, err := ParseResponse(data)
	require.NoError(t, err)
	require.Len(t, resp.Frames, 2)
	assert.Nil(t, resp.Frames[1])

	f := resp.Frames[0]
	assert.Equal(t, time.Date(2021, 5, 10, 10, 0, 0, 0, time.UTC), f.Fields[0].Values[0].(time.Time).UTC())
	assert.Nil(t, f.Fields[0].Values[1])
	assert.Equal(t, []any{12.5, 3.0}, f.Fields[1].Values)
	require.NotNil(t, f.Fields[2].Config)
	assert.Equal(t, "Trace ID", f.Fields[2].Config.DisplayNameFromDS)
}

func TestParseResponse_Errors(t *testing.T) {
	tests := map[string]struct {
		input string
	}{
		"invalid json":       {input: `{"data": [`},
		"no data array":      {input: `{"frames": []}`},
		"frame not object":   {input: `{"data": [42]}`},
		"misaligned fields":  {input: `{"data": [{"fields": [{"name": "a", "type": "string", "values": ["x"]}, {"name": "b", "type": "string", "values": []}]}]}`},
		"bad time value":     {input: `{"data": [{"fields": [{"name": "t", "type": "time", "values": ["not a time"]}]}]}`},
		"time value is bool": {input: `{"data": [{"fields": [{"name": "t", "type": "time", "values": [true]}]}]}`},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse([]byte(test.input))
			assert.Error(t, err)
		})
	}
}

func TestFrame_MarshalJSON(t *testing.T) {
	f := NewFrame("table",
		NewField("Time", FieldTypeTime, time.UnixMilli(1620640800000), nil),
		NewField("Message", FieldTypeString, "hello", "world"),
	).SetMeta(&FrameMeta{PreferredVisualisationType: VisualizationTable})

	bs, err := json.Marshal(f)
	require.NoError(t, err)

	want := `{
	  "schema": {
	    "name": "table",
	    "meta": {"preferredVisualisationType": "table"},
	    "fields": [{"name": "Time", "type": "time"}, {"name": "Message", "type": "string"}]
	  },
	  "data": {"values": [[1620640800000, null], ["hello", "world"]]}
	}`
	assert.JSONEq(t, want, string(bs))
}

func TestFrame_JSONRoundTripKeepsConfig(t *testing.T) {
	f := NewFrame("table", NewField("traceID", FieldTypeString, "abc"))
	f.Fields[0].Config = &FieldConfig{
		DisplayNameFromDS: "Trace ID",
		Links: []DataLink{{
			Title:    "Trace: ${__value.raw}",
			Internal: &InternalDataLink{DatasourceUID: "uid", DatasourceName: "Tempo", Query: map[string]any{"query": "${__value.raw}"}},
		}},
	}

	bs, err := json.Marshal(Response{Frames: []*Frame{f}})
	require.NoError(t, err)

	var got Response
	require.NoError(t, json.Unmarshal(bs, &got))
	require.Len(t, got.Frames, 1)
	assert.Equal(t, f, got.Frames[0])
}

func TestFrame_MarshalJSONEmpty(t *testing.T) {
	bs, err := json.Marshal(NewFrame(""))
	require.NoError(t, err)

	assert.JSONEq(t, `{"schema": {"fields": []}, "data": {"values": []}}`, string(bs))
}
