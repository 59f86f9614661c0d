package deletion

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
)

// DirectDelete removes a patient immediately, without the approval
// workflow. Owners and dentists only; staff are pointed at the request
// workflow instead.
type DirectDelete struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewDirectDelete(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DirectDelete {
	return &DirectDelete{
		repo:  repo,
		audit: audit,
	}
}

func (uc *DirectDelete) Execute(
	ctx context.Context,
	actor authz.Actor,
	patientID uint,
) error {

	if !actor.Can(authz.CapDeletePatientDirectly) {
		return httperr.ErrBusiness("permission_denied",
			"Only owners and dentists can delete patients directly. Submit a deletion request instead.")
	}

	patient, err := uc.repo.GetPatient(ctx, patientID)
	if err != nil {
		return err
	}
	if patient == nil {
		return httperr.ErrBusiness("patient_not_found", "Patient not found.")
	}

	if err := uc.repo.DeletePatient(ctx, patientID); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionDeletePatient,
		Details:    fmt.Sprintf("Deleted patient ID %d", patientID),
	})

	return nil
}
