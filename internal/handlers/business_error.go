package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-records/internal/httperr"
)

// writeBusinessError maps soft use-case failures onto HTTP statuses.
// Anything that is not a BusinessError is an internal failure.
func writeBusinessError(c *gin.Context, err error) {
	be, ok := httperr.AsBusiness(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	status := http.StatusBadRequest
	switch be.Code {
	case "permission_denied":
		status = http.StatusForbidden
	case "patient_not_found", "request_not_found":
		status = http.StatusNotFound
	case "duplicate_request", "request_not_pending":
		status = http.StatusConflict
	}

	httperr.Write(c, status, be.Code, be.Message)
}
