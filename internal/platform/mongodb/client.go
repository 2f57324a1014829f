// Copyright (c) 2026 Ultimate Library. All rights reserved.

// Package mongodb provides a managed MongoDB client and a typed collection
// gateway for the Ultimate Library application.
//
// # Architecture
//
// This package is part of the infrastructure layer. It owns the physical
// database connections and is the only code that talks to the driver;
// feature stores compose the [Collection] gateway, and handlers never touch
// storage directly.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fabinnerself/ultimate-library/internal/platform/constants"
)

// Opinionated client settings for the Ultimate Library workload.
const (
	// maxPoolSize is the maximum number of connections in the pool.
	maxPoolSize = 10
	// minPoolSize keeps a warm set of connections to avoid cold-start latency.
	minPoolSize = 10
	// serverSelectionTimeout bounds how long the driver waits for a suitable server.
	serverSelectionTimeout = 5 * time.Second
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// Connect creates and validates a new MongoDB client.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - uri: A mongodb:// or mongodb+srv:// connection string.
//   - logger: Structured logger for client-level events.
func Connect(ctx context.Context, uri string, logger *slog.Logger) (*mongo.Client, error) {
	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetServerSelectionTimeout(serverSelectionTimeout).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongodb: failed to connect: %w", err)
	}

	// Validate that we can actually reach the deployment.
	if err := Ping(ctx, client); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("mongodb client connected",
		slog.Int("max_pool_size", maxPoolSize),
	)

	return client, nil
}

// Ping verifies that the MongoDB deployment is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("mongodb: ping failed: %w", err)
	}

	return nil
}

// EnsureIndexes creates the indexes the application relies on. It is
// idempotent and safe to run at every startup.
//
// The partial unique index on users.email is the storage-layer backstop for
// the registration/email-change uniqueness check: the application-level
// check-then-insert is not atomic, so concurrent duplicates are rejected
// here. Uniqueness only applies among non-deleted users, hence the partial
// filter.
func EnsureIndexes(ctx context.Context, database *mongo.Database, logger *slog.Logger) error {
	users := database.Collection(constants.CollectionUsers)

	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("uniq_email_not_deleted").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_deleted": false}),
	})
	if err != nil {
		return fmt.Errorf("mongodb: failed to create users email index: %w", err)
	}

	books := database.Collection(constants.CollectionBooks)

	_, err = books.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName("idx_name"),
	})
	if err != nil {
		return fmt.Errorf("mongodb: failed to create books name index: %w", err)
	}

	logger.Info("mongodb indexes ensured")
	return nil
}
