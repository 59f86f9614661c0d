package models

import "time"

type Patient struct {
	ID uint `gorm:"primaryKey" json:"id"`

	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`

	DateOfBirth *string `gorm:"size:10" json:"date_of_birth"` // YYYY-MM-DD
	Gender      *string `gorm:"size:20" json:"gender"`
	Phone       *string `gorm:"size:30" json:"phone"`
	Email       *string `gorm:"size:100" json:"email"`
	Address     *string `gorm:"type:text" json:"address"`

	EmergencyContactName  *string `gorm:"size:100" json:"emergency_contact_name"`
	EmergencyContactPhone *string `gorm:"size:30" json:"emergency_contact_phone"`

	// Medical fields, write-restricted to owner/dentist/admin.
	Allergies         *string `gorm:"type:text" json:"allergies"`
	ExistingCondition *string `gorm:"type:text" json:"existing_condition"`
	DentistNotes      *string `gorm:"type:text" json:"dentist_notes"`
	AssignedDentist   *string `gorm:"size:100" json:"assigned_dentist"`

	CreatedBy uint `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
