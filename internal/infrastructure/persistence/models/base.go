// Package models holds the database representations of the domain types.
// Domain aggregates are converted to and from these records at the
// repository boundary.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BaseModel is the common persisted column set
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// VersionedModel adds the optimistic-lock version column
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}
