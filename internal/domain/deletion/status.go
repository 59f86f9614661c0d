package deletion

import "github.com/BruksfildServices01/clinic-records/internal/httperr"

// ===============================
// Deletion Request Status
// ===============================

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// ===============================
// Validations
// ===============================

// Approved and denied are terminal: there is no transition out of either.
// Re-approving a resolved request is rejected instead of silently
// no-opping against an already-deleted patient.

func CanApprove(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("request_not_pending",
			"This deletion request has already been resolved.")
	}
	return nil
}

func CanDeny(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("request_not_pending",
			"This deletion request has already been resolved.")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
