package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const fullTextCollection = "full_texts"

// Mongo archives scraped article text in a MongoDB collection.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongo connects to uri and uses the full_texts collection of database.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{
		client:     client,
		collection: client.Database(database).Collection(fullTextCollection),
	}, nil
}

func (m *Mongo) SaveFullText(ctx context.Context, ft FullText) error {
	if ft.CreatedAt.IsZero() {
		ft.CreatedAt = time.Now().UTC()
	}
	if _, err := m.collection.InsertOne(ctx, ft); err != nil {
		return fmt.Errorf("insert full text: %w", err)
	}
	return nil
}

// FullTexts returns archived texts for url, newest first.
func (m *Mongo) FullTexts(ctx context.Context, url string, limit int) ([]FullText, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := m.collection.Find(ctx, bson.D{{Key: "url", Value: url}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find full texts: %w", err)
	}
	defer cursor.Close(ctx)

	var out []FullText
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode full texts: %w", err)
	}
	return out, nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
