package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 200
)

type AuditLogsHandler struct {
	db *gorm.DB
}

func NewAuditLogsHandler(db *gorm.DB) *AuditLogsHandler {
	return &AuditLogsHandler{db: db}
}

// List returns recent audit entries, newest first. Owners see the whole
// trail; everyone else only their own actions.
func (h *AuditLogsHandler) List(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	limit := defaultAuditLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httperr.BadRequest(c, "invalid_limit", "Limit must be a positive integer.")
			return
		}
		limit = n
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	q := h.db.Model(&models.AuditLog{})
	if !actor.Can(authz.CapViewAllAuditLogs) {
		q = q.Where("user_id = ?", actor.ID)
	}

	var entries []models.AuditLog
	if err := q.
		Order("timestamp DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {

		httperr.Internal(c, "failed_to_list_audit_logs", "Failed to load audit logs.")
		return
	}

	httpresp.List(c, entries)
}
