package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrphanIdentity is an identity left behind when both the customer insert
// and the compensating delete failed.
type OrphanIdentity struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	IdentityID string    `gorm:"type:text;index;not null"`
	Provider   string    `gorm:"type:varchar(20);not null"`
	Email      string
	LineID     string `gorm:"index"`
	Reason     string `gorm:"type:text"`
	Attempts   int    `gorm:"not null;default:0"`
	LastError  string `gorm:"type:text"`
	ResolvedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (OrphanIdentity) TableName() string {
	return "orphan_identities"
}

func (o *OrphanIdentity) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return
}
