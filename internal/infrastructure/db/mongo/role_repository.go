package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// MongoRoleRepository manages the role catalog collection and the grants
// embedded in user documents. $addToSet and $pull keep (user, role) pairs
// unique and grant/revoke atomic without extra locking.
type MongoRoleRepository struct {
	roles *mongo.Collection
	users *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *MongoRoleRepository {
	return &MongoRoleRepository{
		roles: db.Collection(roleCollection),
		users: db.Collection(userCollection),
	}
}

// EnsureCatalog upserts the closed role catalog. Idempotent.
func (r *MongoRoleRepository) EnsureCatalog(ctx context.Context, roles []domain.Role) error {
	for _, role := range roles {
		_, err := r.roles.UpdateOne(ctx,
			bson.M{"_id": role.Code},
			bson.M{"$set": bson.M{"display_name": role.DisplayName}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("ensure role %s: %w", role.Code, err)
		}
	}
	return nil
}

func (r *MongoRoleRepository) CatalogContains(ctx context.Context, code string) (bool, error) {
	err := r.roles.FindOne(ctx, bson.M{"_id": code}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("find role: %w", err)
	}
	return true, nil
}

// RolesFor returns the user's role codes; an empty slice when the user is
// unknown or holds none.
func (r *MongoRoleRepository) RolesFor(ctx context.Context, userID int64) ([]string, error) {
	var doc struct {
		Roles []string `bson:"roles"`
	}
	err := r.users.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"roles": 1}),
	).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []string{}, nil
		}
		return nil, fmt.Errorf("resolve roles: %w", err)
	}
	if doc.Roles == nil {
		return []string{}, nil
	}
	return doc.Roles, nil
}

func (r *MongoRoleRepository) Grant(ctx context.Context, userID int64, code string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"roles": code}},
	)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoRoleRepository) Revoke(ctx context.Context, userID int64, code string) error {
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"roles": code}},
	)
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	if res.ModifiedCount == 0 {
		return domain.ErrRoleNotGranted
	}
	return nil
}
