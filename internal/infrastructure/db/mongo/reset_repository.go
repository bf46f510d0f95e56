package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// MongoResetRepository persists single-use password reset tokens.
type MongoResetRepository struct {
	db     *mongo.Database
	resets *mongo.Collection
	users  *mongo.Collection
}

func NewResetRepository(db *mongo.Database) *MongoResetRepository {
	return &MongoResetRepository{
		db:     db,
		resets: db.Collection(resetCollection),
		users:  db.Collection(userCollection),
	}
}

type mongoReset struct {
	TokenHash string     `bson:"token_hash"`
	UserID    int64      `bson:"user_id"`
	CreatedAt time.Time  `bson:"created_at"`
	ExpiresAt time.Time  `bson:"expires_at"`
	UsedAt    *time.Time `bson:"used_at,omitempty"`
}

func (r *MongoResetRepository) Create(ctx context.Context, reset *domain.PasswordReset) error {
	doc := mongoReset{
		TokenHash: reset.TokenHash,
		UserID:    reset.UserID,
		CreatedAt: reset.CreatedAt,
		ExpiresAt: reset.ExpiresAt,
	}
	if _, err := r.resets.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

// Redeem spends a reset token and installs the new password hash in one
// transaction. The token claim is a findOneAndUpdate whose filter requires
// used_at to be unset and the expiry to be in the future, so two concurrent
// redemptions of the same token cannot both succeed.
func (r *MongoResetRepository) Redeem(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var claimed mongoReset
		err := r.resets.FindOneAndUpdate(sc,
			bson.M{
				"token_hash": tokenHash,
				"used_at":    bson.M{"$exists": false},
				"expires_at": bson.M{"$gt": now},
			},
			bson.M{"$set": bson.M{"used_at": now}},
		).Decode(&claimed)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return nil, domain.ErrResetTokenInvalid
			}
			return nil, fmt.Errorf("claim reset token: %w", err)
		}

		res, err := r.users.UpdateOne(sc,
			bson.M{"_id": claimed.UserID},
			bson.M{"$set": bson.M{"password_hash": newPasswordHash, "updated_at": now}},
		)
		if err != nil {
			return nil, fmt.Errorf("update password: %w", err)
		}
		if res.MatchedCount == 0 {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, nil
	})
	return err
}
