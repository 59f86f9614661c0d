package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	deletionDomain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/dto"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/models"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

type DashboardHandler struct {
	db        *gorm.DB
	users     *users.Store
	deletions deletionDomain.Repository
}

func NewDashboardHandler(db *gorm.DB, userStore *users.Store, deletions deletionDomain.Repository) *DashboardHandler {
	return &DashboardHandler{db: db, users: userStore, deletions: deletions}
}

type recentPatient struct {
	dto.PatientResponse
	AddedBy string `json:"added_by"`
}

// Get assembles the landing-page numbers: record counts, the latest
// patients and the latest audit activity. The pending-deletions counter
// only shows for roles that can resolve requests.
func (h *DashboardHandler) Get(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	ctx := c.Request.Context()

	var totalPatients, totalStaff int64
	if err := h.db.Model(&models.Patient{}).Count(&totalPatients).Error; err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
		return
	}
	if err := h.db.Model(&models.User{}).
		Where("role = ? AND is_active = ?", authz.RoleStaff, true).
		Count(&totalStaff).Error; err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
		return
	}

	var patients []models.Patient
	if err := h.db.Order("id DESC").Limit(5).Find(&patients).Error; err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
		return
	}

	// One query resolves every creator name instead of one lookup per row.
	creatorIDs := make([]uint, 0, len(patients))
	for _, p := range patients {
		creatorIDs = append(creatorIDs, p.CreatedBy)
	}
	creators, err := h.users.UsernamesByIDs(ctx, creatorIDs)
	if err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
		return
	}

	now := time.Now()
	recent := make([]recentPatient, 0, len(patients))
	for _, p := range patients {
		recent = append(recent, recentPatient{
			PatientResponse: dto.FromPatient(p, now),
			AddedBy:         creators[p.CreatedBy],
		})
	}

	var activities []models.AuditLog
	activityQuery := h.db.Model(&models.AuditLog{})
	if !actor.Can(authz.CapViewAllAuditLogs) {
		activityQuery = activityQuery.Where("user_id = ?", actor.ID)
	}
	if err := activityQuery.
		Order("timestamp DESC").
		Limit(10).
		Find(&activities).Error; err != nil {
		httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
		return
	}

	resp := gin.H{
		"total_patients":    totalPatients,
		"total_staff":       totalStaff,
		"recent_patients":   recent,
		"recent_activities": activities,
	}

	if actor.Can(authz.CapApproveOrDenyDeletion) {
		pending, err := h.deletions.ListPending(ctx, "")
		if err != nil {
			httperr.Internal(c, "failed_to_load_dashboard", "Failed to load dashboard.")
			return
		}
		resp["pending_deletions"] = len(pending)
		resp["pending_requests"] = pending
	}

	httpresp.OK(c, resp)
}
