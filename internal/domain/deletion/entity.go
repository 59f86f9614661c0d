package deletion

import (
	"time"

	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Approve(req *models.DeletionRequest, approvedBy uint, now time.Time) error {
	if err := CanApprove(Status(req.Status)); err != nil {
		return err
	}

	req.Status = string(StatusApproved)
	req.ApprovedBy = &approvedBy
	req.ApprovedAt = &now
	return nil
}

func Deny(req *models.DeletionRequest, approvedBy uint, now time.Time) error {
	if err := CanDeny(Status(req.Status)); err != nil {
		return err
	}

	req.Status = string(StatusDenied)
	req.ApprovedBy = &approvedBy
	req.ApprovedAt = &now
	return nil
}
