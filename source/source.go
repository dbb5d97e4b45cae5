// Package source fetches status documents from a running database, or
// from something standing in for one.
package source

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"

	swerrors "github.com/fluxcd/statwatch/errors"
)

const (
	DefaultHost           = "localhost:27017"
	DefaultConnectTimeout = 10 * time.Second
)

// Source produces a fresh status document each time it is asked. The
// document is fully materialised: nested documents are
// map[string]interface{}, and leaves are plain Go values.
type Source interface {
	Fetch(ctx context.Context) (map[string]interface{}, error)
	Close() error
}

type Options struct {
	// How long to wait for the database to answer when connecting
	ConnectTimeout time.Duration
	// Path to a YAML file of named queries, for SQL databases
	Queries string
	Logger  log.Logger
}

// Open connects to the database named by rawurl. The scheme selects
// the kind of source: mongodb and mongodb+srv for MongoDB, file for a
// JSON or YAML document on disk, and sqlite3 or memory for SQL
// queries. A bare host:port is taken to be a MongoDB server. Errors
// are all of type Connect.
func Open(ctx context.Context, rawurl string, opts Options) (Source, error) {
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.NewNopLogger()
	}

	rawurl = Normalise(rawurl)
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, swerrors.Wrap(swerrors.Connect, errors.Wrap(err, "parsing source URL"), "invalid source "+rawurl)
	}

	opts.Logger.Log("connecting", Redact(u))
	var src Source
	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		src, err = NewMongo(ctx, rawurl, opts)
	case "file":
		src, err = NewFile(strings.TrimPrefix(rawurl, "file://"))
	case "sqlite3", "memory":
		src, err = OpenSQL(rawurl, opts.Queries)
	default:
		err = errors.Errorf("unsupported scheme %q", u.Scheme)
	}
	if err != nil {
		return nil, swerrors.Wrap(swerrors.Connect, err, "error connecting to "+Redact(u))
	}
	opts.Logger.Log("connected", Redact(u))
	return src, nil
}

// Normalise turns the host:port form accepted on the command line
// into a MongoDB URL, and an empty string into the default server.
func Normalise(rawurl string) string {
	switch {
	case rawurl == "":
		return "mongodb://" + DefaultHost
	case !strings.Contains(rawurl, "://"):
		return "mongodb://" + rawurl
	}
	return rawurl
}

// Redact gives a URL suitable for logging, without any password.
func Redact(u *url.URL) string {
	if u.User == nil {
		return u.String()
	}
	redacted := *u
	redacted.User = url.User(u.User.Username())
	return redacted.String()
}
