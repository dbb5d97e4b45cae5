package source

import (
	"context"
	"database/sql"
	"io/ioutil"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/fluxcd/statwatch/diff"
)

// Query is a named query returning a single value. Names with dots
// nest, so "jobs.queued" and "jobs.done" share a "jobs" document.
type Query struct {
	Name  string `yaml:"name"`
	Query string `yaml:"query"`
}

type queriesFile struct {
	Queries []Query `yaml:"queries"`
}

// SQL builds a status document by running each of its queries.
type SQL struct {
	db      *sql.DB
	queries []Query
}

// Most SQL drivers expect the driver name to appear as the scheme in
// the source URL. The "memory" scheme is a throwaway in-memory sqlite
// database, mostly of use for trying out queries.
func DriverForScheme(scheme string) string {
	switch scheme {
	case "memory":
		return "sqlite3"
	default:
		return scheme
	}
}

// OpenSQL opens the database at rawurl and loads the queries to run
// against it from queriesPath.
func OpenSQL(rawurl, queriesPath string) (*SQL, error) {
	if queriesPath == "" {
		return nil, errors.New("a queries file is needed for SQL sources")
	}
	queries, err := LoadQueries(queriesPath)
	if err != nil {
		return nil, err
	}

	i := strings.Index(rawurl, "://")
	if i < 0 {
		return nil, errors.Errorf("database URL %q has no scheme", rawurl)
	}
	scheme, dsn := rawurl[:i], rawurl[i+len("://"):]
	if scheme == "memory" {
		dsn = ":memory:"
	}
	db, err := sql.Open(DriverForScheme(scheme), dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// sqlite works best with a single connection, and an in-memory
	// database exists only on the connection that made it
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "pinging database")
	}
	return NewSQL(db, queries), nil
}

func LoadQueries(path string) ([]Query, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading queries")
	}
	var f queriesFile
	if err := yaml.Unmarshal(buf, &f); err != nil {
		return nil, errors.Wrap(err, "parsing queries")
	}
	if len(f.Queries) == 0 {
		return nil, errors.Errorf("no queries in %s", path)
	}
	for _, q := range f.Queries {
		if q.Name == "" || q.Query == "" {
			return nil, errors.Errorf("query %q in %s needs both a name and a query", q.Name, path)
		}
	}
	return f.Queries, nil
}

func NewSQL(db *sql.DB, queries []Query) *SQL {
	return &SQL{db: db, queries: queries}
}

func (s *SQL) Fetch(ctx context.Context) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	for _, q := range s.queries {
		var v interface{}
		if err := s.db.QueryRowContext(ctx, q.Query).Scan(&v); err != nil {
			return nil, errors.Wrapf(err, "running query %s", q.Name)
		}
		if err := setPath(doc, q.Name, sqlValue(v)); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func (s *SQL) Close() error {
	return s.db.Close()
}

func sqlValue(v interface{}) interface{} {
	switch v := v.(type) {
	case []byte:
		return diff.ParseValue(string(v))
	case string:
		return diff.ParseValue(v)
	}
	return v
}

func setPath(doc map[string]interface{}, path string, v interface{}) error {
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		next, found := doc[k]
		if !found {
			m := map[string]interface{}{}
			doc[k] = m
			doc = m
			continue
		}
		m, ok := next.(map[string]interface{})
		if !ok {
			return errors.Errorf("query %s is nested under the value of another query", path)
		}
		doc = m
	}
	last := keys[len(keys)-1]
	if _, found := doc[last]; found {
		return errors.Errorf("query %s clashes with another query", path)
	}
	doc[last] = v
	return nil
}
