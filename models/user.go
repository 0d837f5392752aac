package models

import (
	"liff-member-backend/utils"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthUser is an email/password identity owned by this service when no
// external identity provider is configured.
type AuthUser struct {
	ID        string `gorm:"type:text;primaryKey"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	CreatedAt time.Time
}

func (AuthUser) TableName() string {
	return "auth_users"
}

// Initialize ID and hash the password before creating
func (u *AuthUser) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed
	return
}
