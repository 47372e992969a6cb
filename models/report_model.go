package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ReportStatusOpen      = "open"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ReporterID  uuid.UUID `gorm:"type:uuid;not null" json:"reporter_id"`
	SubjectType string    `gorm:"size:20;not null" json:"subject_type"`
	SubjectID   uuid.UUID `gorm:"type:uuid;not null" json:"subject_id"`
	Reason      string    `gorm:"type:text;not null" json:"reason"`
	Status      string    `gorm:"size:20;not null;default:'open';index" json:"status"`

	ResolvedByID *uuid.UUID `gorm:"type:uuid" json:"resolved_by_id"`
	ResolvedAt   *time.Time `json:"resolved_at"`

	Reporter User `gorm:"foreignkey:ReporterID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
