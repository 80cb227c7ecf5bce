package snapshot

import (
	"context"
	"errors"
	"regexp"
	"time"

	perr "factsongs/internal/platform/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection is the subset of *mongo.Collection the backend drives
type collection interface {
	UpdateOne(ctx context.Context, filter any, update any, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// mongoDoc is one snapshot; the key is the document id
type mongoDoc struct {
	Key       string    `bson:"_id"`
	Body      []byte    `bson:"body"`
	Size      int64     `bson:"size"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Mongo stores snapshots as documents keyed by snapshot key
type Mongo struct {
	client *mongo.Client
	coll   collection
	now    func() time.Time
}

var _ Store = (*Mongo)(nil)

// OpenMongo connects and pings the server
func OpenMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, perr.InvalidArgf("snapshot: mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = "factsongs"
	}
	if cfg.Collection == "" {
		cfg.Collection = "snapshots"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "snapshot: mongo connect")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "snapshot: mongo ping")
	}
	m := newMongo(client.Database(cfg.Database).Collection(cfg.Collection))
	m.client = client
	return m, nil
}

func newMongo(c collection) *Mongo {
	return &Mongo{coll: c, now: time.Now}
}

// Put upserts the document under key
func (m *Mongo) Put(ctx context.Context, key string, data []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	doc := mongoDoc{Key: key, Body: data, Size: int64(len(data)), UpdatedAt: m.now().UTC()}
	_, err := m.coll.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mongo put %s", key)
	}
	return nil
}

// Get reads one document body
func (m *Mongo) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	var doc mongoDoc
	err := m.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, missing(key)
	}
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mongo get %s", key)
	}
	return doc.Body, nil
}

// List returns metadata for every key starting with prefix, sorted by key
func (m *Mongo) List(ctx context.Context, prefix string) ([]Document, error) {
	filter := bson.M{"_id": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix)}}
	opts := options.Find().
		SetProjection(bson.M{"body": 0}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mongo list %s", prefix)
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []Document
	for cur.Next(ctx) {
		var doc mongoDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mongo decode %s", prefix)
		}
		out = append(out, Document{Key: doc.Key, Size: doc.Size, UpdatedAt: doc.UpdatedAt.UTC()})
	}
	if err := cur.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "snapshot: mongo cursor %s", prefix)
	}
	return out, nil
}

// Close disconnects the client
func (m *Mongo) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
