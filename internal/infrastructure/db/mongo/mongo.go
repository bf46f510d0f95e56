package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	userCollection    = "users"
	roleCollection    = "roles"
	auditCollection   = "login_audit"
	resetCollection   = "password_resets"
	counterCollection = "counters"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes the auth flows rely on. Email and
// username uniqueness is enforced here, in the store, so concurrent signups
// race on the index rather than on an application-level read.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(userCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	resets := db.Collection(resetCollection)
	_, err = resets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token_hash", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create reset index: %w", err)
	}

	audits := db.Collection(auditCollection)
	_, err = audits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "login_time", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create audit index: %w", err)
	}

	return nil
}

// nextSequence atomically allocates the next value of a named counter via a
// single findOneAndUpdate $inc upsert. No lock is held and no read-then-write
// window exists, so concurrent allocations never collide.
func nextSequence(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var doc struct {
		Value int64 `bson:"value"`
	}
	err := db.Collection(counterCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"value": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, fmt.Errorf("next sequence %s: %w", name, err)
	}
	return doc.Value, nil
}
