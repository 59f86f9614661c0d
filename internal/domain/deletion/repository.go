package deletion

import (
	"context"
	"time"

	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// PendingRow is a pending request joined with the patient's name and the
// requester's username, as shown to the approving owner.
type PendingRow struct {
	ID               uint      `json:"id"`
	PatientID        uint      `json:"patient_id"`
	PatientFirstName string    `json:"patient_first_name"`
	PatientLastName  string    `json:"patient_last_name"`
	RequestedBy      uint      `json:"requested_by"`
	RequestedByName  string    `json:"requested_by_name"`
	RequestedAt      time.Time `json:"requested_at"`
}

type Repository interface {
	// -------- Patient --------
	GetPatient(
		ctx context.Context,
		id uint,
	) (*models.Patient, error) // (nil, nil) when absent

	DeletePatient(
		ctx context.Context,
		id uint,
	) error

	// -------- Request (create) --------
	HasPendingRequest(
		ctx context.Context,
		patientID uint,
	) (bool, error)

	CreateRequest(
		ctx context.Context,
		req *models.DeletionRequest,
	) error

	// -------- Request (state change) --------
	GetRequest(
		ctx context.Context,
		id uint,
	) (*models.DeletionRequest, error) // (nil, nil) when absent

	UpdateRequest(
		ctx context.Context,
		req *models.DeletionRequest,
	) error

	// -------- Listing --------
	ListPending(
		ctx context.Context,
		filter string,
	) ([]PendingRow, error)
}
