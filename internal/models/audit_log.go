package models

import "time"

type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `json:"user_id"`

	// Username is a snapshot taken when the entry is written. It is not
	// kept in sync with later profile changes.
	Username string `gorm:"size:100" json:"username"`

	ActionType string `gorm:"size:50;index" json:"action_type"`
	Details    string `gorm:"type:text" json:"details"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
