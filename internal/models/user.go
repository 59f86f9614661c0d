package models

import (
	"time"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Username     string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         authz.Role `gorm:"size:20;not null" json:"role"`

	FullName string `gorm:"size:100" json:"full_name"`
	Email    string `gorm:"size:100" json:"email"`
	Active   bool   `gorm:"column:is_active" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
}

// DisplayName is what other records reference a user by (assigned dentist,
// audit rows shown in the UI).
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) Actor() authz.Actor {
	return authz.Actor{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
