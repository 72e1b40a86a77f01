// Package database manages the MongoDB connection for the site backend.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/adeqintegrated/adeqsite/config"
)

var client *mongo.Client

// Connect opens the MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context) error {
	opts := options.Client().ApplyURI(config.MongoURI()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	c, err := mongo.Connect(pingCtx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}
	if err := c.Ping(pingCtx, nil); err != nil {
		_ = c.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	client = c
	return nil
}

// Client returns the connected client, or nil before Connect.
func Client() *mongo.Client { return client }

// DB returns the application database handle.
func DB() *mongo.Database {
	return client.Database(config.MongoDB())
}

// Collection returns a named collection on the application database, or nil
// before Connect so offline commands like route:list can still build the
// object graph.
func Collection(name string) *mongo.Collection {
	if client == nil {
		return nil
	}
	return DB().Collection(name)
}

// Disconnect closes the connection; safe to call when never connected.
func Disconnect(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}
