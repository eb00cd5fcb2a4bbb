package database

import (
	"context"
	"fmt"
	"log/slog"

	"roobaroo/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoDatabase owns the client connection; repositories borrow the
// database handle through Database().
type MongoDatabase struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoDatabase(ctx context.Context, cfg config.DatabaseConfig) (*MongoDatabase, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		// Release the client; a half-connected handle is useless.
		if derr := client.Disconnect(context.Background()); derr != nil {
			slog.Error("Failed to disconnect after ping failure", "error", derr)
		}
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	slog.Info("MongoDB connected", "database", cfg.Name)

	return &MongoDatabase{
		client: client,
		db:     client.Database(cfg.Name),
	}, nil
}

func (m *MongoDatabase) Database() *mongo.Database {
	return m.db
}

func (m *MongoDatabase) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

func (m *MongoDatabase) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
