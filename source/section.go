package source

import (
	"github.com/Jeffail/gabs"
	"github.com/pkg/errors"
)

// Section picks out the document at the dotted path within doc, e.g.,
// "wiredTiger.cache". The empty path is the whole document.
func Section(doc map[string]interface{}, path string) (map[string]interface{}, error) {
	if path == "" {
		return doc, nil
	}
	v, err := gabs.Consume(doc)
	if err != nil {
		return nil, errors.Wrap(err, "reading status document")
	}
	if !v.ExistsP(path) {
		return nil, errors.Errorf("status document has no section %q", path)
	}
	section, ok := v.Path(path).Data().(map[string]interface{})
	if !ok {
		return nil, errors.Errorf("section %q is not a document", path)
	}
	return section, nil
}
