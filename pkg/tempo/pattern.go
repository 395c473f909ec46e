// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"errors"
	"fmt"

	"github.com/grafana/regexp"
)

// DefaultTraceIDPattern matches logfmt-style "traceID=<id>" tokens.
const DefaultTraceIDPattern = `traceID=(\w+)`

// CompileTraceIDPattern compiles a trace ID pattern.
// The pattern must have exactly one capturing group: its match is the trace ID.
func CompileTraceIDPattern(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, errors.New("empty trace ID pattern")
	}

	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile trace ID pattern: %w", err)
	}

	if n := re.NumSubexp(); n != 1 {
		return nil, fmt.Errorf("trace ID pattern '%s' must have exactly one capturing group, got %d", expr, n)
	}

	return re, nil
}
