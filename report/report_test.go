package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/ioutil"
	"testing"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxcd/statwatch/diff"
	"github.com/fluxcd/statwatch/filter"
)

var (
	at = time.Date(2020, 3, 1, 12, 0, 0, 0, time.UTC)

	changes = []diff.Change{
		{Path: "cachetable.miss", Old: diff.IntValue(1), New: diff.IntValue(3), Delta: diff.IntValue(2), Rate: diff.FloatValue(0.2)},
		{Path: "checkpoint.time", Old: diff.DurationValue(time.Second), New: diff.DurationValue(21 * time.Second), Delta: diff.DurationValue(20 * time.Second), Rate: diff.DurationValue(2 * time.Second)},
		{Path: "engine", Old: diff.IntValue(1), New: diff.TextValue("tokuft")},
	}
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestText(t *testing.T) {
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}
	r := NewText(out, log.NewLogfmtLogger(logs))

	require.NoError(t, r.Report(at, changes))
	assert.Equal(t, "cachetable.miss | 1 | 3 | 2 | 0.2\n"+
		"checkpoint.time | 1s | 21s | 20s | 2s\n"+
		"engine | 1 | tokuft\n"+
		"\n", out.String())
	assert.Contains(t, logs.String(), "changes=3")
}

func TestTextEmptyCycle(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, NewText(out, nil).Report(at, nil))
	assert.Equal(t, "\n", out.String())
}

func TestTextWriteFailure(t *testing.T) {
	err := NewText(failingWriter{}, log.NewNopLogger()).Report(at, changes)
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, NewJSON(out).Report(at, changes))

	var got struct {
		Time    time.Time
		Changes []map[string]interface{}
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.True(t, at.Equal(got.Time))
	require.Len(t, got.Changes, 3)
	assert.Equal(t, map[string]interface{}{
		"path": "cachetable.miss", "old": 1.0, "new": 3.0, "delta": 2.0, "rate": 0.2,
	}, got.Changes[0])
	assert.Equal(t, "20s", got.Changes[1]["delta"])
	assert.NotContains(t, got.Changes[2], "delta")
	assert.NotContains(t, got.Changes[2], "rate")
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	require.NoError(t, m.Report(at, changes))
	require.NoError(t, m.Report(at, changes[:1]))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.changes.WithLabelValues("cachetable.miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.changes.WithLabelValues("engine")))
	assert.Equal(t, 0.2, testutil.ToFloat64(m.rate.WithLabelValues("cachetable.miss")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rate.WithLabelValues("checkpoint.time")))
}

func TestMetricsUseDeltaWithoutRate(t *testing.T) {
	m := NewMetrics(nil)
	require.NoError(t, m.Report(at, []diff.Change{
		{Path: "x", Old: diff.IntValue(1), New: diff.IntValue(5), Delta: diff.IntValue(4)},
	}))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.rate.WithLabelValues("x")))
}

func TestFilteredAndMulti(t *testing.T) {
	set, err := filter.NewSet([]string{"cachetable.*", "engine"}, nil)
	require.NoError(t, err)

	var seen [][]diff.Change
	record := Func(func(_ time.Time, cs []diff.Change) error {
		seen = append(seen, cs)
		return nil
	})
	r := Multi(Filtered(record, set), record)

	require.NoError(t, r.Report(at, changes))
	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 2)
	assert.Len(t, seen[1], 3)
}

func TestMultiStopsAtFirstError(t *testing.T) {
	called := false
	r := Multi(
		NewText(failingWriter{}, nil),
		Func(func(time.Time, []diff.Change) error { called = true; return nil }),
	)
	assert.Error(t, r.Report(at, changes))
	assert.False(t, called)

	assert.NoError(t, Multi(NewText(ioutil.Discard, nil)).Report(at, changes))
}
