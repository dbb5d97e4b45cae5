// Package monitor drives the sampling loop: fetch a snapshot, compare
// it with the last, report what changed, and sleep.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kit/kit/log"

	"github.com/fluxcd/statwatch/diff"
	swerrors "github.com/fluxcd/statwatch/errors"
	swmetrics "github.com/fluxcd/statwatch/metrics"
	"github.com/fluxcd/statwatch/report"
	"github.com/fluxcd/statwatch/source"
)

type Monitor struct {
	Source   source.Source
	Reporter report.Reporter
	// Dotted path of the part of the status document to watch; empty
	// for all of it
	Section string
	// Time between samples, which is also what rates are per
	Interval time.Duration
	// Stop after this many cycles; zero to go on until cancelled
	Count  int
	Logger log.Logger

	// last value seen at each path, owned by whoever is running cycles
	state diff.Flat
}

func New(src source.Source, reporter report.Reporter, interval time.Duration, logger log.Logger) *Monitor {
	return &Monitor{
		Source:   src,
		Reporter: reporter,
		Interval: interval,
		Logger:   logger,
		state:    diff.Flat{},
	}
}

// IntervalSeconds is the interval in whole seconds, and at least one.
func (m *Monitor) IntervalSeconds() int {
	secs := int(m.Interval / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// State returns the last value seen at each path. It is not safe to
// use while a cycle is running.
func (m *Monitor) State() diff.Flat {
	return m.state
}

// Cycle takes one sample and reports on it. If fetching fails, nothing
// is compared and the state is left as it was.
func (m *Monitor) Cycle(ctx context.Context) error {
	if m.state == nil {
		m.state = diff.Flat{}
	}

	start := time.Now()
	doc, err := m.Source.Fetch(ctx)
	fetchDuration.With(
		swmetrics.LabelSuccess, fmt.Sprint(err == nil),
	).Observe(time.Since(start).Seconds())
	if err == nil {
		doc, err = source.Section(doc, m.Section)
	}
	if err != nil {
		cycleCount.With(swmetrics.LabelStage, swmetrics.StageFetch, swmetrics.LabelSuccess, "false").Add(1)
		return swerrors.Wrap(swerrors.Fetch, err, "error fetching status")
	}

	changes := diff.Diff(m.state, diff.FromInterface(doc), m.IntervalSeconds())
	trackedPaths.Set(float64(len(m.state)))

	if err := m.Reporter.Report(start, changes); err != nil {
		cycleCount.With(swmetrics.LabelStage, swmetrics.StageReport, swmetrics.LabelSuccess, "false").Add(1)
		return swerrors.Wrap(swerrors.Report, err, "error printing info")
	}
	cycleCount.With(swmetrics.LabelStage, swmetrics.StageReport, swmetrics.LabelSuccess, "true").Add(1)
	return nil
}

// Run samples straight away, then every Interval, until the context
// is cancelled, Count cycles have run, or a cycle fails. Cancellation
// is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	logger := m.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger.Log("interval", m.Interval, "section", m.Section, "count", m.Count)

	timer := time.NewTimer(m.Interval)
	defer timer.Stop()

	for n := 1; ; n++ {
		if err := m.Cycle(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Log("msg", "disconnecting")
				return nil
			}
			logger.Log("cycle", n, "err", err)
			return err
		}
		if m.Count > 0 && n >= m.Count {
			return nil
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(m.Interval)
		select {
		case <-ctx.Done():
			logger.Log("msg", "disconnecting")
			return nil
		case <-timer.C:
		}
	}
}
