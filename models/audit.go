package models

import "time"

// Audit severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// AuditLog records a security-relevant action: logins, bookings, role changes.
type AuditLog struct {
	ID        string         `bson:"id" json:"log_id"`
	UserID    string         `bson:"userId,omitempty" json:"user_id,omitempty"`
	LogType   string         `bson:"logType" json:"log_type"` // e.g. "auth", "booking", "admin"
	Action    string         `bson:"action" json:"action"`
	Details   map[string]any `bson:"details,omitempty" json:"action_details,omitempty"`
	Severity  string         `bson:"severity" json:"severity"`
	IPAddress string         `bson:"ipAddress,omitempty" json:"ip_address,omitempty"`
	CreatedAt time.Time      `bson:"createdAt" json:"created_at"`
}
