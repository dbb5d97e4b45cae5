package diff

import (
	"fmt"
	"io"
)

// Summarise writes the change as `path | old | new | delta | rate`,
// leaving off whatever the change does not have.
func (c Change) Summarise(out io.Writer) error {
	var err error
	switch {
	case c.HasRate():
		_, err = fmt.Fprintf(out, "%s | %s | %s | %s | %s\n", c.Path, c.Old, c.New, c.Delta, c.Rate)
	case c.HasDelta():
		_, err = fmt.Fprintf(out, "%s | %s | %s | %s\n", c.Path, c.Old, c.New, c.Delta)
	default:
		_, err = fmt.Fprintf(out, "%s | %s | %s\n", c.Path, c.Old, c.New)
	}
	return err
}
