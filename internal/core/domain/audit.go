package domain

import "time"

// LoginAudit is an append-only record of a login attempt for a resolved
// identity. Attempts that never resolve an identity are not recorded (there
// is nothing to attribute them to).
type LoginAudit struct {
	UserID    int64     `json:"user_id"`
	LoginTime time.Time `json:"login_time"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Success   bool      `json:"success"`
}
