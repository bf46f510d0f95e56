package ports

import (
	"context"

	"github.com/streamhub/identity-service/internal/core/domain"
)

// AuditRepository appends login audit records. Records are immutable; there
// is no read path in the service itself.
type AuditRepository interface {
	Record(ctx context.Context, entry *domain.LoginAudit) error
}
