package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of admin console actions. Rows are never
// updated; the admin SSE channel watches the row count for new entries.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string    `gorm:"size:50;not null" json:"action"`
	TargetType string    `gorm:"size:20;not null" json:"target_type"`
	TargetID   uuid.UUID `gorm:"type:uuid;not null" json:"target_id"`
	Detail     string    `gorm:"type:text" json:"detail"`

	Admin User `gorm:"foreignkey:AdminID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
