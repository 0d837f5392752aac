package models

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Valid reports whether g is one of the accepted genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

const MembershipBasic = "basic"

// Customer mirrors the customers table. ID is the identity provider's user id.
type Customer struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(5);not null" json:"name,omitempty"`
	Nickname string `gorm:"type:varchar(15)" json:"nickname,omitempty"`
	Email    string `gorm:"not null" json:"email,omitempty"`
	Phone    string `gorm:"type:varchar(10);not null" json:"phone,omitempty"`
	Gender   Gender `gorm:"type:varchar(10);not null" json:"gender,omitempty"`
	Birthday Date   `json:"birthday"`
	City     string `gorm:"not null" json:"city,omitempty"`
	District string `gorm:"not null" json:"district,omitempty"`
	LineID   string `gorm:"uniqueIndex;not null" json:"line_id"`

	MembershipLevel  string  `gorm:"type:varchar(20);not null;default:'basic'" json:"membership_level"`
	Points           int     `gorm:"not null;default:0" json:"points"`
	TotalSpent       float64 `gorm:"type:decimal(10,2);not null;default:0" json:"total_spent"`
	LastPurchaseDate *Date   `json:"last_purchase_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
