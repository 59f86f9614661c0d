package deletion

import (
	"context"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
)

// ListPending returns the owner's approval queue, newest first. The filter
// matches patient first/last name (case-insensitive substring) or the
// request id's decimal form.
type ListPending struct {
	repo domain.Repository
}

func NewListPending(repo domain.Repository) *ListPending {
	return &ListPending{repo: repo}
}

func (uc *ListPending) Execute(
	ctx context.Context,
	actor authz.Actor,
	filter string,
) ([]domain.PendingRow, error) {

	if !actor.Can(authz.CapApproveOrDenyDeletion) {
		return nil, httperr.ErrBusiness("permission_denied",
			"Owner privileges required.")
	}

	return uc.repo.ListPending(ctx, filter)
}
