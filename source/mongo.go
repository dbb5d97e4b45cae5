package source

import (
	"context"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo runs serverStatus against a MongoDB server.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger log.Logger
}

func NewMongo(ctx context.Context, uri string, opts Options) (*Mongo, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ConnectTimeout).
		SetAppName("statwatch")
	client, err := mongo.NewClient(clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "configuring client")
	}

	ctx, cancel := context.WithTimeout(ctx, opts.ConnectTimeout)
	defer cancel()
	if err := client.Connect(ctx); err != nil {
		return nil, errors.Wrap(err, "connecting")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging server")
	}

	return &Mongo{
		client: client,
		db:     client.Database("admin"),
		logger: opts.Logger,
	}, nil
}

func (m *Mongo) Fetch(ctx context.Context) (map[string]interface{}, error) {
	var status bson.M
	err := m.db.RunCommand(ctx, bson.D{{Key: "serverStatus", Value: 1}}).Decode(&status)
	if err != nil {
		return nil, errors.Wrap(err, "running serverStatus command")
	}
	return normaliseDocument(status), nil
}

func (m *Mongo) Close() error {
	m.logger.Log("msg", "disconnecting")
	return m.client.Disconnect(context.Background())
}

func normaliseDocument(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = normaliseBSON(v)
	}
	return out
}

// normaliseBSON converts the driver's BSON types into the plain values
// the rest of statwatch understands.
func normaliseBSON(v interface{}) interface{} {
	switch v := v.(type) {
	case primitive.M:
		return normaliseDocument(v)
	case map[string]interface{}:
		return normaliseDocument(v)
	case primitive.D:
		out := make(map[string]interface{}, len(v))
		for _, e := range v {
			out[e.Key] = normaliseBSON(e.Value)
		}
		return out
	case primitive.A:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = normaliseBSON(v[i])
		}
		return out
	case primitive.DateTime:
		return time.Unix(0, int64(v)*int64(time.Millisecond)).UTC()
	case primitive.Timestamp:
		return time.Unix(int64(v.T), 0).UTC()
	case primitive.Decimal128:
		s := v.String()
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	case primitive.ObjectID:
		return v.Hex()
	}
	return v
}
