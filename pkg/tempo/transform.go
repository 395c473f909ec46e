// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/grafana/regexp"

	"github.com/netdata/netdata/go/traceview/logger"
	"github.com/netdata/netdata/go/traceview/pkg/frame"
)

// TransformTraceList replaces the first frame of resp with the trace ID table built from it.
func TransformTraceList(resp frame.Response, datasourceUID, datasourceName string, pattern *regexp.Regexp) frame.Response {
	table := BuildTraceIDTable(resp.First(), datasourceUID, datasourceName, pattern)
	return resp.WithFirst(table)
}

// TransformTrace decodes the default structured fields of the first frame of resp.
// A response without a first frame becomes a response holding only EmptyTraceFrame.
func TransformTrace(resp frame.Response) (frame.Response, error) {
	first := resp.First()
	if first == nil {
		return frame.Response{Frames: []*frame.Frame{EmptyTraceFrame()}}, nil
	}

	f, err := DecodeStructuredFields(first, DefaultStructuredFields)
	if err != nil {
		return frame.Response{}, err
	}
	return resp.WithFirst(f), nil
}

// Config configures a Transformer.
type Config struct {
	TraceIDPattern   string
	DatasourceUID    string
	DatasourceName   string
	StructuredFields []string
}

// Transformer applies the trace and trace list transformations with a fixed configuration.
// It holds no mutable state and is safe for concurrent use.
type Transformer struct {
	*logger.Logger

	pattern          *regexp.Regexp
	datasourceUID    string
	datasourceName   string
	structuredFields []string
}

func New(cfg Config) (*Transformer, error) {
	if cfg.TraceIDPattern == "" {
		cfg.TraceIDPattern = DefaultTraceIDPattern
	}

	pattern, err := CompileTraceIDPattern(cfg.TraceIDPattern)
	if err != nil {
		return nil, err
	}

	fields := slices.Clone(cfg.StructuredFields)
	if len(fields) == 0 {
		fields = slices.Clone(DefaultStructuredFields)
	}
	if slices.Contains(fields, "") {
		return nil, errors.New("structured field names must not be empty")
	}

	return &Transformer{
		Logger: logger.New().With(
			slog.String("component", "tempo"),
			slog.String("datasource", cfg.DatasourceName),
		),
		pattern:          pattern,
		datasourceUID:    cfg.DatasourceUID,
		datasourceName:   cfg.DatasourceName,
		structuredFields: fields,
	}, nil
}

// TraceList builds the trace ID table from the first frame of resp.
func (t *Transformer) TraceList(resp frame.Response) frame.Response {
	out := TransformTraceList(resp, t.datasourceUID, t.datasourceName, t.pattern)

	t.Debugf("trace list: %d input frames, %d trace IDs found (pattern '%s')",
		len(resp.Frames), out.First().Rows(), t.pattern)

	return out
}

// Trace decodes the configured structured fields of the first frame of resp.
func (t *Transformer) Trace(resp frame.Response) (frame.Response, error) {
	first := resp.First()
	if first == nil {
		t.Debug("trace: empty response, returning empty trace frame")
		return frame.Response{Frames: []*frame.Frame{EmptyTraceFrame()}}, nil
	}

	f, err := DecodeStructuredFields(first, t.structuredFields)
	if err != nil {
		t.Warningf("trace: %v", err)
		return frame.Response{}, err
	}

	t.Debugf("trace: decoded fields %v over %d rows", t.structuredFields, f.Rows())

	return resp.WithFirst(f), nil
}
