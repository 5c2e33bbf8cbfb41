package book

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bucketName = "books"

// MongoStore keeps one GridFS file per key in the books bucket, so books are not bound by the
// document size limit. Saving uploads a new revision and then drops the older ones.
type MongoStore struct {
	client *mongo.Client
	bucket *gridfs.Bucket
}

func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = "pentago"
	}

	ctxConnect, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctxConnect, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctxConnect, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	bucket, err := gridfs.NewBucket(client.Database(database), options.GridFSBucket().SetName(bucketName))
	if err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("opening gridfs bucket: %w", err)
	}

	log.Info().Msgf("Book store connected to mongo database %s", database)
	return &MongoStore{client: client, bucket: bucket}, nil
}

func (s *MongoStore) Save(ctx context.Context, key string, b *Book) error {
	data, err := pack(b)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	id, err := s.bucket.UploadFromStream(key, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("saving book %q: %w", key, err)
	}

	cursor, err := s.bucket.FindContext(ctx, bson.D{
		{Key: "filename", Value: key},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: id}}},
	})
	if err != nil {
		return fmt.Errorf("listing old revisions of book %q: %w", key, err)
	}
	var revisions []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &revisions); err != nil {
		return fmt.Errorf("listing old revisions of book %q: %w", key, err)
	}
	for _, revision := range revisions {
		if err := s.bucket.DeleteContext(ctx, revision.ID); err != nil {
			log.Warn().Msgf("failed to drop an old revision of book %q: %v", key, err)
		}
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, key string) (*Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	// The latest revision is the default
	_, err := s.bucket.DownloadToStreamByName(key, &buf)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("loading book %q: %w", key, err)
	}
	return unpack(buf.Bytes())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
