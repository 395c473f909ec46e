// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/net/http/httpproxy"

	"github.com/netdata/netdata/go/traceview/logger"
	"github.com/netdata/netdata/go/traceview/pkg/cli"
	"github.com/netdata/netdata/go/traceview/pkg/config"
	"github.com/netdata/netdata/go/traceview/pkg/frame"
	"github.com/netdata/netdata/go/traceview/pkg/gcpjwt"
	"github.com/netdata/netdata/go/traceview/pkg/render"
	"github.com/netdata/netdata/go/traceview/pkg/silence"
	"github.com/netdata/netdata/go/traceview/pkg/tempo"
)

const stdinName = "-"

type app struct {
	*logger.Logger

	cfg  config.Config
	mode string
	user string
	now  func() time.Time

	stdin io.Reader
	out   io.Writer

	tf       *tempo.Transformer
	silences *silence.Client
}

func newApp(cfg config.Config, mode string) (*app, error) {
	tf, err := tempo.New(cfg.TempoConfig())
	if err != nil {
		return nil, err
	}

	a := &app{
		Logger: logger.New().With(slog.String("component", "app"), slog.String("mode", mode)),
		cfg:    cfg,
		mode:   mode,
		now:    time.Now,
		stdin:  os.Stdin,
		out:    os.Stdout,
		tf:     tf,
	}

	if mode == cli.ModeSilence && cfg.Alertmanager.URL != "" {
		if a.silences, err = silence.NewClient(cfg.Alertmanager.HTTPConfig); err != nil {
			return nil, err
		}
		proxyCfg := httpproxy.FromEnvironment()
		a.Infof("env HTTP_PROXY '%s', HTTPS_PROXY '%s'", proxyCfg.HTTPProxy, proxyCfg.HTTPSProxy)
	}

	return a, nil
}

// run processes every input matched by patterns and writes the results in input order.
func (a *app) run(ctx context.Context, patterns []string) error {
	inputs, err := expandInputs(patterns)
	if err != nil {
		return err
	}

	if a.mode == cli.ModeJWT {
		return a.runJWT(inputs)
	}

	a.Debugf("processing %d inputs (concurrency %d)", len(inputs), a.cfg.Concurrency)

	results := make([][]byte, len(inputs))

	p := pool.New().
		WithMaxGoroutines(a.cfg.Concurrency).
		WithContext(ctx).
		WithCancelOnError().
		WithFirstError()

	for i, input := range inputs {
		p.Go(func(ctx context.Context) error {
			out, err := a.process(ctx, input)
			if err != nil {
				return fmt.Errorf("'%s': %w", input, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return err
	}

	for _, out := range results {
		if _, err := a.out.Write(out); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) process(ctx context.Context, input string) ([]byte, error) {
	data, err := a.readInput(input)
	if err != nil {
		return nil, err
	}

	switch a.mode {
	case cli.ModeTraceList:
		resp, err := frame.ParseResponse(data)
		if err != nil {
			return nil, err
		}
		return a.encode(a.tf.TraceList(resp))
	case cli.ModeTrace:
		resp, err := frame.ParseResponse(data)
		if err != nil {
			return nil, err
		}
		out, err := a.tf.Trace(resp)
		if err != nil {
			return nil, err
		}
		return a.encode(out)
	case cli.ModeSilence:
		return a.processSilence(ctx, data)
	default:
		return nil, fmt.Errorf("unknown mode '%s'", a.mode)
	}
}

func (a *app) processSilence(ctx context.Context, data []byte) ([]byte, error) {
	form, err := silence.LoadForm(data, silence.DefaultFormValues(nil, a.user, a.now()))
	if err != nil {
		return nil, err
	}

	payload, err := form.Payload()
	if err != nil {
		return nil, err
	}

	if a.silences == nil {
		return marshalLine(payload)
	}

	id, err := a.silences.Create(ctx, a.cfg.Alertmanager.Source, payload)
	if err != nil {
		return nil, err
	}
	return marshalLine(map[string]string{"silenceID": id})
}

func (a *app) runJWT(inputs []string) error {
	var jwt *gcpjwt.JWT
	var err error

	if slices.Equal(inputs, []string{stdinName}) {
		var data []byte
		if data, err = io.ReadAll(a.stdin); err == nil {
			jwt, err = gcpjwt.Parse(data)
		}
	} else {
		jwt, err = gcpjwt.ReadFiles(inputs...)
	}
	if err != nil {
		return err
	}

	redacted := jwt.Redacted()

	if a.cfg.Format == config.FormatText {
		_, err = fmt.Fprintf(a.out, "%s: %s\n%s: %s\n%s: %s\n%s: %s\n",
			gcpjwt.KeyLabel("project_id"), redacted.ProjectID,
			gcpjwt.KeyLabel("client_email"), redacted.ClientEmail,
			gcpjwt.KeyLabel("token_uri"), redacted.TokenURI,
			gcpjwt.KeyLabel("private_key"), redacted.PrivateKey,
		)
		return err
	}

	bs, err := marshalLine(redacted)
	if err != nil {
		return err
	}
	_, err = a.out.Write(bs)
	return err
}

func (a *app) encode(resp frame.Response) ([]byte, error) {
	if a.cfg.Format != config.FormatText {
		return marshalLine(resp)
	}

	var buf bytes.Buffer
	for _, f := range resp.Frames {
		if err := render.Text(&buf, f, a.cfg.Template); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func (a *app) readInput(input string) ([]byte, error) {
	if input == stdinName {
		return io.ReadAll(a.stdin)
	}
	return os.ReadFile(input)
}

func marshalLine(v any) ([]byte, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(bs, '\n'), nil
}

// expandInputs resolves glob patterns to sorted file lists, keeping plain paths and stdin as is.
func expandInputs(patterns []string) ([]string, error) {
	var inputs []string

	for _, p := range patterns {
		if p == stdinName || !isGlob(p) {
			inputs = append(inputs, p)
			continue
		}

		matches, err := doublestar.FilepathGlob(p, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("input pattern '%s': %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input pattern '%s' matches no files", p)
		}
		slices.Sort(matches)
		inputs = append(inputs, matches...)
	}

	if len(inputs) == 0 {
		return nil, errors.New("no inputs")
	}
	return inputs, nil
}

func isGlob(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}
