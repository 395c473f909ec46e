// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"time"

	"github.com/invopop/jsonschema"
	"gopkg.in/yaml.v2"

	"github.com/netdata/netdata/go/traceview/pkg/confopt"
	"github.com/netdata/netdata/go/traceview/pkg/tempo"
	"github.com/netdata/netdata/go/traceview/pkg/web"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

const (
	defaultConcurrency = 4
	defaultHTTPTimeout = 10 * time.Second
)

// Config is the traceview configuration file.
// Supported configuration file formats: YAML, JSON.
type Config struct {
	// TraceIDPattern is the regular expression that extracts trace IDs from log lines.
	// It must have exactly one capturing group.
	TraceIDPattern string `yaml:"trace_id_pattern" json:"trace_id_pattern"`

	// DatasourceUID and DatasourceName identify the tracing data source trace ID links point to.
	DatasourceUID  string `yaml:"datasource_uid,omitempty" json:"datasource_uid,omitempty"`
	DatasourceName string `yaml:"datasource_name,omitempty" json:"datasource_name,omitempty"`

	// StructuredFields lists the trace columns that hold JSON text.
	StructuredFields []string `yaml:"structured_fields" json:"structured_fields"`

	// Concurrency is the maximum number of inputs transformed at once.
	Concurrency int `yaml:"concurrency" json:"concurrency" jsonschema:"minimum=1"`

	// Format is the output format: "json" or "text".
	Format string `yaml:"format" json:"format" jsonschema:"enum=json,enum=text"`

	// Template is a text/template used when Format is "text".
	Template string `yaml:"template,omitempty" json:"template,omitempty"`

	Alertmanager AlertmanagerConfig `yaml:"alertmanager" json:"alertmanager"`
}

// AlertmanagerConfig points to the Grafana instance silences are submitted to.
type AlertmanagerConfig struct {
	// Source is the name of the Alertmanager data source.
	Source string `yaml:"source,omitempty" json:"source,omitempty"`

	web.HTTPConfig `yaml:",inline" json:""`
}

func Default() Config {
	return Config{
		TraceIDPattern:   tempo.DefaultTraceIDPattern,
		StructuredFields: slices.Clone(tempo.DefaultStructuredFields),
		Concurrency:      defaultConcurrency,
		Format:           FormatJSON,
		Alertmanager: AlertmanagerConfig{
			HTTPConfig: web.HTTPConfig{
				ClientConfig: web.ClientConfig{
					Timeout: confopt.Duration(defaultHTTPTimeout),
				},
			},
		},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.UnmarshalStrict(bs, &cfg); err != nil {
		return Config{}, fmt.Errorf("config '%s': %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config '%s': %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if _, err := tempo.CompileTraceIDPattern(c.TraceIDPattern); err != nil {
		errs = append(errs, err)
	}
	if slices.Contains(c.StructuredFields, "") {
		errs = append(errs, errors.New("'structured_fields' contains an empty name"))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("'concurrency' must be positive, got %d", c.Concurrency))
	}
	switch c.Format {
	case FormatJSON, FormatText:
	default:
		errs = append(errs, fmt.Errorf("unknown 'format' '%s' (want '%s' or '%s')", c.Format, FormatJSON, FormatText))
	}
	if c.Template != "" && c.Format != FormatText {
		errs = append(errs, fmt.Errorf("'template' requires 'format: %s'", FormatText))
	}
	if c.Alertmanager.URL != "" && c.Alertmanager.Source == "" {
		errs = append(errs, errors.New("'alertmanager.source' is required when 'alertmanager.url' is set"))
	}

	return errors.Join(errs...)
}

// TempoConfig returns the transformer settings of c.
func (c Config) TempoConfig() tempo.Config {
	return tempo.Config{
		TraceIDPattern:   c.TraceIDPattern,
		DatasourceUID:    c.DatasourceUID,
		DatasourceName:   c.DatasourceName,
		StructuredFields: slices.Clone(c.StructuredFields),
	}
}

// Schema returns the JSON schema of the configuration file.
func Schema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		Anonymous:                 true,
		AllowAdditionalProperties: false,
		DoNotReference:            true,
		Mapper:                    mapType,
	}

	schema := reflector.Reflect(&Config{})

	bs, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

func mapType(t reflect.Type) *jsonschema.Schema {
	if t == reflect.TypeOf(confopt.Duration(0)) {
		return &jsonschema.Schema{
			OneOf: []*jsonschema.Schema{
				{Type: "string", Description: "Go duration, e.g. \"10s\""},
				{Type: "number", Description: "seconds"},
			},
		}
	}
	return nil
}
