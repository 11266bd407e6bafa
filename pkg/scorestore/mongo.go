package scorestore

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notationkit/stave/pkg/errors"
	"github.com/notationkit/stave/pkg/score"
)

const (
	scoresCollection = "scores"
	connectTimeout   = 10 * time.Second
)

// MongoStore persists scores in a MongoDB collection. The score ID is
// the document key, so Put is a replace with upsert.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ Repository = (*MongoStore)(nil)

// NewMongoStore connects to MongoDB and pings the deployment to verify
// the connection before returning.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(scoresCollection),
	}, nil
}

// Put inserts or replaces a score keyed by its ID.
func (s *MongoStore) Put(ctx context.Context, sc *score.Score) error {
	if sc == nil {
		return errors.New(errors.ErrCodeInvalidInput, "score is nil")
	}
	if err := errors.ValidateID(sc.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": sc.ID}, sc, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err,
			"save score %s", sc.ID)
	}
	return nil
}

// Get returns the score with the given ID.
func (s *MongoStore) Get(ctx context.Context, id string) (*score.Score, error) {
	var sc score.Score
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&sc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeScoreNotFound,
			"score %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err,
			"load score %s", id)
	}
	return &sc, nil
}

// Delete removes a score by ID.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err,
			"delete score %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeScoreNotFound,
			"score %s not found", id)
	}
	return nil
}

// List returns all stored scores ordered by ID.
func (s *MongoStore) List(ctx context.Context) ([]*score.Score, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list scores")
	}
	var out []*score.Score
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode scores")
	}
	return out, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "disconnect mongodb")
	}
	return nil
}
