package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/fluxcd/statwatch/filter"
	"github.com/fluxcd/statwatch/monitor"
	"github.com/fluxcd/statwatch/report"
	"github.com/fluxcd/statwatch/source"
)

const (
	EnvVariableSource = "STATWATCH_SOURCE"
)

type rootOpts struct {
	sleeptime      int
	section        string
	queries        string
	include        []string
	exclude        []string
	output         string
	listen         string
	count          int
	connectTimeout time.Duration
	verbose        bool

	// so tests can stop a run
	ctx context.Context
}

func newRoot() *rootOpts {
	return &rootOpts{}
}

var rootLongHelp = strings.TrimSpace(`
statwatch watches the status of a database and periodically prints
which values changed since the last sample, by how much, and how fast.

Each changed value is printed as

  path | old | new | delta | rate

where rate is the delta per second over the sleep time (left off when
the sleep time is one second).

Sources:
  statwatch                              # serverStatus of mongodb://localhost:27017
  statwatch db1:27017 --section tokuft   # just the tokuft section
  statwatch mongodb://user:pw@db1/?replicaSet=rs0
  statwatch file:///tmp/status.yaml      # re-read a JSON or YAML file
  statwatch sqlite3:///var/lib/app.db --queries queries.yaml
`)

func (opts *rootOpts) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "statwatch [options] [<host:port>|<url>]",
		Long:          rootLongHelp,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          opts.RunE,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return newUsageError(err.Error())
	})

	flags := cmd.Flags()
	flags.IntVarP(&opts.sleeptime, "sleeptime", "s", 10, "seconds to sleep between reports")
	flags.StringVar(&opts.section, "section", "", "dotted path of the part of the status document to watch, e.g., tokuft")
	flags.StringVar(&opts.queries, "queries", "", "YAML file of named queries, for SQL sources")
	flags.StringSliceVar(&opts.include, "include", nil, "only report paths matching these patterns (glob: or regexp:)")
	flags.StringSliceVar(&opts.exclude, "exclude", nil, "do not report paths matching these patterns (glob: or regexp:)")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format, text or json")
	flags.StringVar(&opts.listen, "listen", "", "address to serve Prometheus metrics on, e.g., :8080")
	flags.IntVar(&opts.count, "count", 0, "stop after this many reports; 0 to go on until interrupted")
	flags.DurationVar(&opts.connectTimeout, "connect-timeout", source.DefaultConnectTimeout, "how long to wait when connecting")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log debug messages")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func (opts *rootOpts) RunE(cmd *cobra.Command, args []string) error {
	if len(args) > 1 {
		return errorTooManyArgs
	}
	if opts.sleeptime < 1 {
		return newUsageError(fmt.Sprintf("invalid --sleeptime: %d", opts.sleeptime))
	}
	if opts.count < 0 {
		return newUsageError(fmt.Sprintf("invalid --count: %d", opts.count))
	}
	set, err := filter.NewSet(opts.include, opts.exclude)
	if err != nil {
		return newUsageError(err.Error())
	}

	// Logger domain.
	var logger log.Logger
	{
		logger = log.NewLogfmtLogger(log.NewSyncWriter(cmd.ErrOrStderr()))
		logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
		if opts.verbose {
			logger = level.NewFilter(logger, level.AllowDebug())
		} else {
			logger = level.NewFilter(logger, level.AllowInfo())
		}
	}

	// Reporter component.
	var reporter report.Reporter
	{
		out := cmd.OutOrStdout()
		switch opts.output {
		case "text":
			reporter = report.NewText(out, level.Info(log.With(logger, "component", "report")))
		case "json":
			reporter = report.NewJSON(out)
		default:
			return errorInvalidOutputFormat
		}
		reporter = report.Filtered(reporter, set)
		if opts.listen != "" {
			reporter = report.Multi(reporter, report.NewMetrics(prometheus.DefaultRegisterer))
		}
	}

	ctx := opts.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Mechanical stuff.
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(c)
		select {
		case sig := <-c:
			level.Info(logger).Log("signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	if opts.listen != "" {
		go serveMetrics(opts.listen, log.With(logger, "component", "metrics"))
	}

	// Source component.
	var src source.Source
	{
		target := os.Getenv(EnvVariableSource)
		if len(args) == 1 || target == "" {
			target = strings.Join(args, "")
		}
		logger := log.With(logger, "component", "source")
		src, err = source.Open(ctx, target, source.Options{
			ConnectTimeout: opts.connectTimeout,
			Queries:        opts.queries,
			Logger:         level.Info(logger),
		})
		if err != nil {
			level.Error(logger).Log("err", err)
			return err
		}
	}
	defer src.Close()

	m := monitor.New(src, reporter, time.Duration(opts.sleeptime)*time.Second, level.Info(log.With(logger, "component", "monitor")))
	m.Section = opts.section
	m.Count = opts.count
	if err := m.Run(ctx); err != nil {
		level.Error(logger).Log("err", err)
		return err
	}
	return nil
}

func serveMetrics(addr string, logger log.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Log("addr", addr)
	logger.Log("exit", http.ListenAndServe(addr, mux))
}

func printUsage(cmd *cobra.Command, out io.Writer) {
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, cmd.UsageString())
}
