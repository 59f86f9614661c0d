package deletion

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// ApproveDeletion resolves a pending request and cascades the patient
// delete. The request row itself is retained for the audit trail.
type ApproveDeletion struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewApproveDeletion(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *ApproveDeletion {
	return &ApproveDeletion{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *ApproveDeletion) Execute(
	ctx context.Context,
	actor authz.Actor,
	requestID uint,
) (*models.DeletionRequest, error) {

	if !actor.Can(authz.CapApproveOrDenyDeletion) {
		return nil, httperr.ErrBusiness("permission_denied",
			"Owner privileges required.")
	}

	req, err := uc.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, httperr.ErrBusiness("request_not_found", "Deletion request not found.")
	}

	if err := domain.Approve(req, actor.ID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}

	// The referenced patient may already be gone (direct delete in the
	// meantime); the approval still stands.
	patient, err := uc.repo.GetPatient(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}
	if patient != nil {
		if err := uc.repo.DeletePatient(ctx, req.PatientID); err != nil {
			return nil, err
		}

		uc.audit.Dispatch(audit.Event{
			UserID:     actor.ID,
			Username:   actor.Username,
			ActionType: audit.ActionApproveDelete,
			Details:    fmt.Sprintf("Approved deletion for patient ID %d", req.PatientID),
		})
	}

	return req, nil
}
