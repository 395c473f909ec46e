// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"github.com/jessevdk/go-flags"

	"github.com/netdata/netdata/go/traceview/pkg/config"
	"github.com/netdata/netdata/go/traceview/pkg/executable"
)

const (
	ModeTrace     = "trace"
	ModeTraceList = "trace-list"
	ModeJWT       = "jwt"
	ModeSilence   = "silence"
)

// Option defines command line options.
type Option struct {
	Mode             string   `short:"m" long:"mode" description:"what the inputs are" choice:"trace" choice:"trace-list" choice:"jwt" choice:"silence" default:"trace-list"`
	ConfigPath       string   `short:"c" long:"config" description:"config file to read"`
	Pattern          string   `short:"p" long:"pattern" description:"trace ID regular expression with one capturing group"`
	DatasourceUID    string   `long:"datasource-uid" description:"UID of the tracing data source trace IDs link to"`
	DatasourceName   string   `long:"datasource-name" description:"name of the tracing data source trace IDs link to"`
	Fields           []string `short:"f" long:"field" description:"structured trace field to decode (repeatable)"`
	Format           string   `long:"format" description:"output format" choice:"json" choice:"text"`
	Template         string   `short:"t" long:"template" description:"text/template for text output"`
	Concurrency      int      `long:"concurrency" description:"maximum number of inputs processed at once"`
	Watch            bool     `short:"w" long:"watch" description:"re-run when inputs change"`
	DumpConfigSchema bool     `long:"dump-config-schema" description:"print the config file JSON schema and exit"`
	Debug            bool     `short:"d" long:"debug" description:"debug mode"`
	Version          bool     `short:"v" long:"version" description:"display the version and exit"`

	// Inputs are files or glob patterns; "-" is stdin.
	Inputs []string
}

// Parse returns parsed command-line flags in Option struct.
// args[0] is the program name.
func Parse(args []string) (*Option, error) {
	opt := &Option{}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = executable.Name
	parser.Usage = "[OPTIONS] [input...]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(rest) > 1 {
		opt.Inputs = rest[1:]
	}
	if len(opt.Inputs) == 0 {
		opt.Inputs = []string{"-"}
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

// Apply overrides cfg with the options that were set on the command line.
func (o *Option) Apply(cfg *config.Config) {
	if o.Pattern != "" {
		cfg.TraceIDPattern = o.Pattern
	}
	if o.DatasourceUID != "" {
		cfg.DatasourceUID = o.DatasourceUID
	}
	if o.DatasourceName != "" {
		cfg.DatasourceName = o.DatasourceName
	}
	if len(o.Fields) > 0 {
		cfg.StructuredFields = o.Fields
	}
	if o.Template != "" {
		cfg.Template = o.Template
		if o.Format == "" {
			cfg.Format = config.FormatText
		}
	}
	if o.Format != "" {
		cfg.Format = o.Format
	}
	if o.Concurrency > 0 {
		cfg.Concurrency = o.Concurrency
	}
}
