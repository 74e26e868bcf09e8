package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account that signed in through Google
type User struct {
	ID            string     `json:"id" gorm:"type:uuid;primaryKey"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	Email         string     `json:"email" gorm:"type:varchar(255);not null;uniqueIndex"`
	Name          string     `json:"name" gorm:"type:varchar(255)"`
	Picture       string     `json:"picture" gorm:"type:varchar(1024)"`
	GoogleSubject string     `json:"-" gorm:"type:varchar(255);index"`
	TokenVersion  uint       `json:"-" gorm:"default:0"`
	LastLoginAt   *time.Time `json:"last_login_at"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the primary key when the caller did not
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
