package models

import "time"

type DeletionRequest struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PatientID   uint `gorm:"not null;index" json:"patient_id"`
	RequestedBy uint `gorm:"not null" json:"requested_by"`

	Status string `gorm:"size:20;not null;default:'pending';index" json:"status"`

	RequestedAt time.Time  `gorm:"autoCreateTime" json:"requested_at"`
	ApprovedBy  *uint      `json:"approved_by"`
	ApprovedAt  *time.Time `json:"approved_at"`
}
