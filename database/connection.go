package database

import (
	"context"
	"time"

	"clinic-booking-backend/config"

	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect establishes the database connection when persistence is enabled.
func Connect(cfg *config.Config) error {
	if !cfg.Database.Enabled {
		return nil
	}
	return ConnectMongoDB(cfg)
}

// Disconnect closes the database connection
func Disconnect() error {
	return DisconnectMongoDB()
}

// Connected reports whether a database connection is live.
func Connected() bool {
	return mongoClient != nil
}

// HealthCheck performs a database health check. Returns nil when persistence
// is disabled.
func HealthCheck() error {
	if mongoClient == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return mongoClient.Ping(ctx, readpref.Primary())
}
