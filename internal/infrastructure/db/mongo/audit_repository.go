package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// MongoAuditRepository appends immutable login audit documents. There is no
// update or delete path.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAudit struct {
	UserID    int64     `bson:"user_id"`
	LoginTime time.Time `bson:"login_time"`
	IPAddress string    `bson:"ip_address,omitempty"`
	UserAgent string    `bson:"user_agent,omitempty"`
	Success   bool      `bson:"success"`
}

func (r *MongoAuditRepository) Record(ctx context.Context, entry *domain.LoginAudit) error {
	doc := mongoAudit{
		UserID:    entry.UserID,
		LoginTime: entry.LoginTime,
		IPAddress: entry.IPAddress,
		UserAgent: entry.UserAgent,
		Success:   entry.Success,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert login audit: %w", err)
	}
	return nil
}
