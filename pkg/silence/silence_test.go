// SPDX-License-Identifier: GPL-3.0-or-later

package silence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFormValues(t *testing.T) {
	now := time.Date(2021, 5, 10, 10, 0, 0, 0, time.UTC)

	tests := map[string]struct {
		silence *Silence
		want    FormFields
	}{
		"new silence": {
			want: FormFields{
				StartsAt:  "2021-05-10T10:00:00.000Z",
				CreatedBy: "admin",
				Matchers:  []Matcher{},
				TimeZone:  DefaultTimeZone,
			},
		},
		"existing silence": {
			silence: &Silence{
				ID:        "6d1a2b1e-5c1e-4d5a-9d4e-8f0f3c2a1b00",
				StartsAt:  now,
				EndsAt:    now.Add(2 * time.Hour),
				Comment:   "maintenance",
				CreatedBy: "ops",
				Matchers:  []Matcher{{Name: "alertname", Value: "HighLatency"}},
			},
			want: FormFields{
				ID:        "6d1a2b1e-5c1e-4d5a-9d4e-8f0f3c2a1b00",
				StartsAt:  "2021-05-10T10:00:00.000Z",
				EndsAt:    "2021-05-10T12:00:00.000Z",
				Comment:   "maintenance",
				CreatedBy: "ops",
				Duration:  "2h",
				Matchers:  []Matcher{{Name: "alertname", Value: "HighLatency"}},
				TimeZone:  DefaultTimeZone,
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.want, DefaultFormValues(test.silence, "admin", now))
		})
	}
}

func TestFormFields_Payload(t *testing.T) {
	valid := func() FormFields {
		return FormFields{
			StartsAt:  "2021-05-10T10:00:00.000Z",
			Duration:  "2h",
			Comment:   "maintenance",
			CreatedBy: "ops",
			Matchers:  []Matcher{{Name: "alertname", Value: "HighLatency"}},
		}
	}

	tests := map[string]struct {
		form    func() FormFields
		want    CreatePayload
		wantErr bool
	}{
		"end derived from duration": {
			form: valid,
			want: CreatePayload{
				StartsAt:  "2021-05-10T10:00:00.000Z",
				EndsAt:    "2021-05-10T12:00:00.000Z",
				Comment:   "maintenance",
				CreatedBy: "ops",
				Matchers:  []Matcher{{Name: "alertname", Value: "HighLatency"}},
			},
		},
		"explicit end wins over duration": {
			form: func() FormFields {
				f := valid()
				f.EndsAt = "2021-05-11T10:00:00.000Z"
				return f
			},
			want: CreatePayload{
				StartsAt:  "2021-05-10T10:00:00.000Z",
				EndsAt:    "2021-05-11T10:00:00.000Z",
				Comment:   "maintenance",
				CreatedBy: "ops",
				Matchers:  []Matcher{{Name: "alertname", Value: "HighLatency"}},
			},
		},
		"pending matcher is included": {
			form: func() FormFields {
				f := valid()
				f.ID = "6d1a2b1e-5c1e-4d5a-9d4e-8f0f3c2a1b00"
				f.Duration = "1d"
				f.MatcherName = "instance"
				f.MatcherValue = "web-.*"
				f.IsRegex = true
				return f
			},
			want: CreatePayload{
				ID:        "6d1a2b1e-5c1e-4d5a-9d4e-8f0f3c2a1b00",
				StartsAt:  "2021-05-10T10:00:00.000Z",
				EndsAt:    "2021-05-11T10:00:00.000Z",
				Comment:   "maintenance",
				CreatedBy: "ops",
				Matchers: []Matcher{
					{Name: "alertname", Value: "HighLatency"},
					{Name: "instance", Value: "web-.*", IsRegex: true},
				},
			},
		},
		"missing comment": {
			form:    func() FormFields { f := valid(); f.Comment = " "; return f },
			wantErr: true,
		},
		"missing creator": {
			form:    func() FormFields { f := valid(); f.CreatedBy = ""; return f },
			wantErr: true,
		},
		"missing start": {
			form:    func() FormFields { f := valid(); f.StartsAt = ""; return f },
			wantErr: true,
		},
		"missing end and duration": {
			form:    func() FormFields { f := valid(); f.Duration = ""; return f },
			wantErr: true,
		},
		"bad duration": {
			form:    func() FormFields { f := valid(); f.Duration = "two hours"; return f },
			wantErr: true,
		},
		"end before start": {
			form:    func() FormFields { f := valid(); f.EndsAt = "2021-05-09T10:00:00.000Z"; return f },
			wantErr: true,
		},
		"no matchers": {
			form:    func() FormFields { f := valid(); f.Matchers = nil; return f },
			wantErr: true,
		},
		"invalid regex matcher": {
			form: func() FormFields {
				f := valid()
				f.Matchers = []Matcher{{Name: "job", Value: "(", IsRegex: true}}
				return f
			},
			wantErr: true,
		},
		"invalid id": {
			form:    func() FormFields { f := valid(); f.ID = "not-a-uuid"; return f },
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := test.form().Payload()

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, p)
		})
	}
}

func TestLoadForm(t *testing.T) {
	data := []byte(`
startsAt: "2021-05-10T10:00:00.000Z"
duration: 30m
comment: deploy
createdBy: ci
matchers:
  - name: alertname
    value: Watchdog
  - name: job
    value: "node|blackbox"
    isRegex: true
`)

	f, err := LoadForm(data, FormFields{})
	require.NoError(t, err)

	p, err := f.Payload()
	require.NoError(t, err)

	assert.Equal(t, "2021-05-10T10:30:00.000Z", p.EndsAt)
	assert.Equal(t, []Matcher{
		{Name: "alertname", Value: "Watchdog"},
		{Name: "job", Value: "node|blackbox", IsRegex: true},
	}, p.Matchers)

	_, err = LoadForm([]byte("matchers: {"), FormFields{})
	assert.Error(t, err)
}

func TestLoadForm_Defaults(t *testing.T) {
	now := time.Date(2021, 5, 10, 10, 0, 0, 0, time.UTC)
	defaults := DefaultFormValues(nil, "admin", now)

	f, err := LoadForm([]byte("comment: deploy\nduration: 1h\nmatchers: [{name: job, value: api}]\n"), defaults)
	require.NoError(t, err)

	assert.Equal(t, "admin", f.CreatedBy)
	assert.Equal(t, DefaultTimeZone, f.TimeZone)

	p, err := f.Payload()
	require.NoError(t, err)
	assert.Equal(t, "2021-05-10T10:00:00.000Z", p.StartsAt)
	assert.Equal(t, "2021-05-10T11:00:00.000Z", p.EndsAt)
	assert.Equal(t, "admin", p.CreatedBy)
}
