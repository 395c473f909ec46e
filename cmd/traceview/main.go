// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"syscall"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/netdata/netdata/go/traceview/logger"
	"github.com/netdata/netdata/go/traceview/pkg/buildinfo"
	"github.com/netdata/netdata/go/traceview/pkg/cli"
	"github.com/netdata/netdata/go/traceview/pkg/config"
	"github.com/netdata/netdata/go/traceview/pkg/executable"
)

var log = logger.New().With(slog.String("component", "main"))

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if opts.DumpConfigSchema {
		bs, err := config.Schema()
		if err != nil {
			log.Error(err)
			os.Exit(1)
		}
		_, _ = os.Stdout.Write(bs)
		return
	}

	if lvl := os.Getenv("TRACEVIEW_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	a, err := newApp(cfg, opts.Mode)
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}
	if u, err := user.Current(); err == nil {
		a.user = u.Username
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Watch {
		err = a.watch(ctx, opts.Inputs)
	} else {
		err = a.run(ctx, opts.Inputs)
	}
	if err != nil {
		log.Error(err)
		stop()
		os.Exit(1)
	}
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}

func loadConfig(opts *cli.Option) (config.Config, error) {
	cfg := config.Default()
	if opts.ConfigPath != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigPath); err != nil {
			return config.Config{}, err
		}
		log.Debugf("config loaded from '%s'", opts.ConfigPath)
	}

	opts.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
