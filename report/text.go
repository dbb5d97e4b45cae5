package report

import (
	"bufio"
	"io"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	"github.com/fluxcd/statwatch/diff"
)

// Text writes one line per change, `path | old | new | delta | rate`,
// and a blank line after each cycle. The time of each cycle goes to
// the log rather than the output.
type Text struct {
	Out    io.Writer
	Logger log.Logger
}

func NewText(out io.Writer, logger log.Logger) *Text {
	return &Text{Out: out, Logger: logger}
}

func (t *Text) Report(at time.Time, changes []diff.Change) error {
	if t.Logger != nil {
		t.Logger.Log("time", at.Format(time.ANSIC), "changes", len(changes))
	}
	w := bufio.NewWriter(t.Out)
	for _, c := range changes {
		if err := c.Summarise(w); err != nil {
			return errors.Wrap(err, "writing change")
		}
	}
	if _, err := w.WriteString("\n"); err != nil {
		return errors.Wrap(err, "writing report")
	}
	return errors.Wrap(w.Flush(), "writing report")
}
