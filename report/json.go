package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/fluxcd/statwatch/diff"
)

// JSON writes each cycle as a single JSON object on its own line.
type JSON struct {
	enc *json.Encoder
}

type jsonCycle struct {
	Time    time.Time    `json:"time"`
	Changes []jsonChange `json:"changes"`
}

type jsonChange struct {
	Path  string      `json:"path"`
	Old   interface{} `json:"old"`
	New   interface{} `json:"new"`
	Delta interface{} `json:"delta,omitempty"`
	Rate  interface{} `json:"rate,omitempty"`
}

func NewJSON(out io.Writer) *JSON {
	return &JSON{enc: json.NewEncoder(out)}
}

func (j *JSON) Report(at time.Time, changes []diff.Change) error {
	cycle := jsonCycle{
		Time:    at.UTC(),
		Changes: make([]jsonChange, 0, len(changes)),
	}
	for _, c := range changes {
		jc := jsonChange{
			Path: c.Path,
			Old:  c.Old.Interface(),
			New:  c.New.Interface(),
		}
		if c.HasDelta() {
			jc.Delta = c.Delta.Interface()
		}
		if c.HasRate() {
			jc.Rate = c.Rate.Interface()
		}
		cycle.Changes = append(cycle.Changes, jc)
	}
	return errors.Wrap(j.enc.Encode(cycle), "writing report")
}
