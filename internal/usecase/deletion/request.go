package deletion

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// RequestDeletion files a pending deletion request on behalf of a staff
// member. Staff cannot remove patients themselves; an owner resolves the
// request later.
type RequestDeletion struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRequestDeletion(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *RequestDeletion {
	return &RequestDeletion{
		repo:  repo,
		audit: audit,
	}
}

func (uc *RequestDeletion) Execute(
	ctx context.Context,
	actor authz.Actor,
	patientID uint,
) (*models.DeletionRequest, error) {

	if !actor.Can(authz.CapRequestDeletion) {
		return nil, httperr.ErrBusiness("permission_denied",
			"Only staff members can request deletions.")
	}

	patient, err := uc.repo.GetPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, httperr.ErrBusiness("patient_not_found", "Patient not found.")
	}

	// At most one pending request per patient.
	exists, err := uc.repo.HasPendingRequest(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.ErrBusiness("duplicate_request",
			"A deletion request for this patient already exists.")
	}

	req := &models.DeletionRequest{
		PatientID:   patientID,
		RequestedBy: actor.ID,
		Status:      string(domain.InitialStatus()),
	}

	if err := uc.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionRequestDelete,
		Details:    fmt.Sprintf("Requested deletion for patient ID %d", patientID),
	})

	return req, nil
}
