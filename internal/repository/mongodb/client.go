package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/fhuszti/movies-ms-go/internal/logger"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const uniqueTitleIndex = "uq_normalized_title"

// Connect opens a client and verifies it can reach a primary.
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	logger.Info(ctx, "initialising mongodb client")
	opts := options.Client().ApplyURI(uri)
	if timeout > 0 {
		opts.SetTimeout(timeout)
	}
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	pingCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique index on the normalized title.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "normalizedTitle", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(uniqueTitleIndex),
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", uniqueTitleIndex, err)
	}
	return nil
}
