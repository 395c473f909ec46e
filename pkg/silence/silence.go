// SPDX-License-Identifier: GPL-3.0-or-later

package silence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/grafana/regexp"
	"github.com/prometheus/common/model"
	"gopkg.in/yaml.v2"
)

// DefaultTimeZone is the time zone a new silence form starts with.
const DefaultTimeZone = "browser"

// isoLayout is the ISO-8601 layout with millisecond precision used on the wire.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Matcher selects the alerts a silence applies to.
type Matcher struct {
	Name    string `yaml:"name" json:"name"`
	Value   string `yaml:"value" json:"value"`
	IsRegex bool   `yaml:"isRegex" json:"isRegex"`
}

// Silence is an existing silence as returned by Alertmanager.
type Silence struct {
	ID        string    `json:"id"`
	StartsAt  time.Time `json:"startsAt"`
	EndsAt    time.Time `json:"endsAt"`
	Comment   string    `json:"comment"`
	CreatedBy string    `json:"createdBy"`
	Matchers  []Matcher `json:"matchers"`
}

// FormFields holds the editable state of a silence.
// Times are ISO-8601 strings; Duration is a Prometheus duration ("2h", "1d").
type FormFields struct {
	ID           string    `yaml:"id" json:"id"`
	StartsAt     string    `yaml:"startsAt" json:"startsAt"`
	EndsAt       string    `yaml:"endsAt" json:"endsAt"`
	Comment      string    `yaml:"comment" json:"comment"`
	CreatedBy    string    `yaml:"createdBy" json:"createdBy"`
	Duration     string    `yaml:"duration" json:"duration"`
	IsRegex      bool      `yaml:"isRegex" json:"isRegex"`
	Matchers     []Matcher `yaml:"matchers" json:"matchers"`
	MatcherName  string    `yaml:"matcherName" json:"matcherName"`
	MatcherValue string    `yaml:"matcherValue" json:"matcherValue"`
	TimeZone     string    `yaml:"timeZone" json:"timeZone"`
}

// CreatePayload is the body of a silence creation request. Empty fields are omitted.
type CreatePayload struct {
	ID        string    `json:"id,omitempty"`
	StartsAt  string    `json:"startsAt,omitempty"`
	EndsAt    string    `json:"endsAt,omitempty"`
	Comment   string    `json:"comment,omitempty"`
	CreatedBy string    `json:"createdBy,omitempty"`
	Matchers  []Matcher `json:"matchers,omitempty"`
}

// DefaultFormValues returns the initial form state: a copy of s when editing,
// otherwise a silence starting at now created by user.
func DefaultFormValues(s *Silence, user string, now time.Time) FormFields {
	if s != nil {
		matchers := s.Matchers
		if matchers == nil {
			matchers = []Matcher{}
		}
		return FormFields{
			ID:        s.ID,
			StartsAt:  s.StartsAt.UTC().Format(isoLayout),
			EndsAt:    s.EndsAt.UTC().Format(isoLayout),
			Comment:   s.Comment,
			CreatedBy: s.CreatedBy,
			Duration:  model.Duration(s.EndsAt.Sub(s.StartsAt)).String(),
			Matchers:  matchers,
			TimeZone:  DefaultTimeZone,
		}
	}

	return FormFields{
		StartsAt:  now.UTC().Format(isoLayout),
		CreatedBy: user,
		Matchers:  []Matcher{},
		TimeZone:  DefaultTimeZone,
	}
}

// LoadForm reads form fields from YAML or JSON over the given defaults.
func LoadForm(data []byte, defaults FormFields) (FormFields, error) {
	f := defaults
	if err := yaml.Unmarshal(data, &f); err != nil {
		return FormFields{}, fmt.Errorf("silence form: %w", err)
	}
	return f, nil
}

// Payload validates the form and builds the creation request.
// A missing end time is derived from the start time and the duration.
// A matcher typed into MatcherName/MatcherValue but not yet added is included.
func (f FormFields) Payload() (CreatePayload, error) {
	var errs []error

	if f.ID != "" {
		if err := uuid.Validate(f.ID); err != nil {
			errs = append(errs, fmt.Errorf("id: %w", err))
		}
	}
	if strings.TrimSpace(f.Comment) == "" {
		errs = append(errs, errors.New("comment is required"))
	}
	if strings.TrimSpace(f.CreatedBy) == "" {
		errs = append(errs, errors.New("createdBy is required"))
	}

	start, end, err := f.period()
	if err != nil {
		errs = append(errs, err)
	}

	matchers, err := f.matchers()
	if err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return CreatePayload{}, fmt.Errorf("invalid silence: %w", errors.Join(errs...))
	}

	return CreatePayload{
		ID:        f.ID,
		StartsAt:  start.UTC().Format(isoLayout),
		EndsAt:    end.UTC().Format(isoLayout),
		Comment:   f.Comment,
		CreatedBy: f.CreatedBy,
		Matchers:  matchers,
	}, nil
}

func (f FormFields) period() (time.Time, time.Time, error) {
	if f.StartsAt == "" {
		return time.Time{}, time.Time{}, errors.New("startsAt is required")
	}
	start, err := dateparse.ParseAny(f.StartsAt)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("startsAt: %w", err)
	}

	var end time.Time
	switch {
	case f.EndsAt != "":
		if end, err = dateparse.ParseAny(f.EndsAt); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("endsAt: %w", err)
		}
	case f.Duration != "":
		d, err := model.ParseDuration(f.Duration)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("duration: %w", err)
		}
		end = start.Add(time.Duration(d))
	default:
		return time.Time{}, time.Time{}, errors.New("either endsAt or duration is required")
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, errors.New("endsAt must be after startsAt")
	}
	return start, end, nil
}

func (f FormFields) matchers() ([]Matcher, error) {
	matchers := append([]Matcher(nil), f.Matchers...)
	if f.MatcherName != "" {
		matchers = append(matchers, Matcher{Name: f.MatcherName, Value: f.MatcherValue, IsRegex: f.IsRegex})
	}

	if len(matchers) == 0 {
		return nil, errors.New("at least one matcher is required")
	}

	for i, m := range matchers {
		if m.Name == "" {
			return nil, fmt.Errorf("matcher %d: name is required", i)
		}
		if m.IsRegex {
			if _, err := regexp.Compile("^(?:" + m.Value + ")$"); err != nil {
				return nil, fmt.Errorf("matcher '%s': %w", m.Name, err)
			}
		}
	}
	return matchers, nil
}
