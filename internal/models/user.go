package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User owns products (as creator), reviews and orders; account deletion
// removes all of them.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name                string         `gorm:"size:100;not null" json:"name"`
	Email               string         `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password            string         `gorm:"not null" json:"-"`
	Role                string         `gorm:"size:10;default:'USER';check:role IN ('USER','ADMIN')" json:"role"`
	Avatar              datatypes.JSON `json:"avatar,omitempty"`
	ResetPasswordToken  *string        `gorm:"type:text" json:"-"`
	ResetPasswordExpire *time.Time     `json:"-"`
	CreatedAt           time.Time      `json:"created_at"`

	Products []Product `gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE" json:"-"`
	Reviews  []Review  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Orders   []Order   `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"-"`
}

// AvatarImage is the shape stored in users.avatar.
type AvatarImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}
