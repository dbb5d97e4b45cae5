package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
)

// File reads a status document saved as JSON or YAML, afresh on every
// fetch, so that a captured or generated document can stand in for a
// live server.
type File struct {
	Path string
}

func NewFile(path string) (*File, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "opening status file %s", path)
	}
	return &File{Path: path}, nil
}

func (f *File) Fetch(ctx context.Context) (map[string]interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf, err := ioutil.ReadFile(f.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading status file %s", f.Path)
	}
	return decodeDocument(buf)
}

func (f *File) Close() error {
	return nil
}

// decodeDocument accepts YAML or JSON, keeping integers distinct from
// floats.
func decodeDocument(buf []byte) (map[string]interface{}, error) {
	jsonBytes, err := yaml.YAMLToJSON(buf)
	if err != nil {
		return nil, errors.Wrap(err, "parsing status document")
	}
	dec := json.NewDecoder(bytes.NewReader(jsonBytes))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding status document")
	}
	if doc == nil {
		return nil, errors.New("status document is empty")
	}
	return doc, nil
}
