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

// DenyDeletion resolves a pending request without touching the patient.
type DenyDeletion struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewDenyDeletion(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *DenyDeletion {
	return &DenyDeletion{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

func (uc *DenyDeletion) Execute(
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

	if err := domain.Deny(req, actor.ID, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateRequest(ctx, req); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionDenyDelete,
		Details:    fmt.Sprintf("Denied deletion request ID %d", requestID),
	})

	return req, nil
}
