package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// MongoUserRepository persists user identities with their embedded role
// grants. Signup writes the user and its default role in one insert, which
// keeps creation atomic without a multi-document transaction.
type MongoUserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{db: db, coll: db.Collection(userCollection)}
}

type mongoUser struct {
	ID           int64      `bson:"_id"`
	Email        string     `bson:"email"`
	Username     string     `bson:"username"`
	PasswordHash string     `bson:"password_hash"`
	Active       bool       `bson:"is_active"`
	Roles        []string   `bson:"roles"`
	CreatedAt    time.Time  `bson:"created_at"`
	UpdatedAt    time.Time  `bson:"updated_at"`
	LastLoginAt  *time.Time `bson:"last_login_at,omitempty"`
}

func (mu *mongoUser) toDomain() *domain.User {
	roles := mu.Roles
	if roles == nil {
		roles = []string{}
	}
	return &domain.User{
		ID:           mu.ID,
		Email:        mu.Email,
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		Active:       mu.Active,
		Roles:        roles,
		CreatedAt:    mu.CreatedAt.UTC(),
		UpdatedAt:    mu.UpdatedAt.UTC(),
		LastLoginAt:  mu.LastLoginAt,
	}
}

// FindByIdentifier matches either the unique email or the unique username
// with a single $or query over two indexed columns. Emails are stored
// lowercased at signup, so the email side of the match lowercases the
// identifier as well; usernames stay case-sensitive.
func (r *MongoUserRepository) FindByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	var mu mongoUser
	filter := bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(identifier)},
		bson.M{"username": identifier},
	}}
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by identifier: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return mu.toDomain(), nil
}

// Create allocates a sequential id and inserts the user. Uniqueness of email
// and username is enforced by the store indexes: a duplicate-key error from a
// concurrent signup surfaces as domain.ErrUserExists, never as a raw driver
// error.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	id, err := nextSequence(ctx, r.db, "user_id")
	if err != nil {
		return nil, err
	}

	doc := mongoUser{
		ID:           id,
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Active:       user.Active,
		Roles:        user.Roles,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *user
	created.ID = id
	return &created, nil
}

func (r *MongoUserRepository) MarkLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login_at": at, "updated_at": at}},
	)
	if err != nil {
		return fmt.Errorf("mark login: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"password_hash": hash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update password hash: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
