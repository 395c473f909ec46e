// SPDX-License-Identifier: GPL-3.0-or-later

package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileTraceIDPattern(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{name: "default pattern", pattern: DefaultTraceIDPattern},
		{name: "named group", pattern: `trace_id":"(?P<id>[a-f0-9]+)"`},
		{name: "non-capturing groups are ignored", pattern: `(?:trace|span)=(\w+)`},
		{name: "empty pattern", wantErr: true},
		{name: "invalid pattern", pattern: `traceID=(\w+`, wantErr: true},
		{name: "no capturing group", pattern: `traceID=\w+`, wantErr: true},
		{name: "two capturing groups", pattern: `(trace)=(\w+)`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := CompileTraceIDPattern(tt.pattern)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, re)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, re)
			}
		})
	}
}
