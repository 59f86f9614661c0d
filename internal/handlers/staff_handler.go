package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/models"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

// StaffHandler manages staff accounts. Only accounts with the staff role
// are visible here; owners, dentists and admins are never listed nor
// editable through this surface.
type StaffHandler struct {
	db    *gorm.DB
	users *users.Store
	audit *audit.Dispatcher
}

func NewStaffHandler(db *gorm.DB, userStore *users.Store, auditDispatcher *audit.Dispatcher) *StaffHandler {
	return &StaffHandler{db: db, users: userStore, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateStaffRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email"`
}

type UpdateStaffRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Email       *string `json:"email,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
	NewPassword *string `json:"new_password,omitempty"`
}

type StaffResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

func toStaffResponse(u models.User) StaffResponse {
	return StaffResponse{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		IsActive: u.Active,
	}
}

// --------- Handlers ---------

func (h *StaffHandler) requireManager(c *gin.Context) (authz.Actor, bool) {
	actor := middleware.CurrentActor(c)
	if !actor.Can(authz.CapManageStaff) {
		httperr.Forbidden(c, "permission_denied", "Owner privileges required.")
		return actor, false
	}
	return actor, true
}

func (h *StaffHandler) List(c *gin.Context) {
	if _, ok := h.requireManager(c); !ok {
		return
	}

	q := h.db.Model(&models.User{}).Where("role = ?", authz.RoleStaff)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(full_name) LIKE ?", like, like)
	}

	switch c.Query("status") {
	case "active":
		q = q.Where("is_active = ?", true)
	case "inactive":
		q = q.Where("is_active = ?", false)
	}

	var rows []models.User
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_list_staff", "Failed to list staff.")
		return
	}

	out := make([]StaffResponse, 0, len(rows))
	for _, u := range rows {
		out = append(out, toStaffResponse(u))
	}
	httpresp.List(c, out)
}

func (h *StaffHandler) Create(c *gin.Context) {
	actor, ok := h.requireManager(c)
	if !ok {
		return
	}

	var req CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "validation_error", "Username, password and full name are required.")
		return
	}

	username := strings.TrimSpace(req.Username)

	created, err := h.users.Create(c.Request.Context(), username, req.Password, authz.RoleStaff, req.FullName, req.Email)
	if err != nil {
		httperr.Internal(c, "failed_to_create_staff", "Failed to add staff member.")
		return
	}
	if !created {
		httperr.Conflict(c, "username_taken", "Username already exists!")
		return
	}

	user, err := h.users.FindByUsername(c.Request.Context(), username)
	if err != nil || user == nil {
		httperr.Internal(c, "failed_to_create_staff", "Failed to add staff member.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionAddStaff,
		Details:    fmt.Sprintf("Added staff account %s", user.Username),
	})

	httpresp.Created(c, toStaffResponse(*user))
}

func (h *StaffHandler) Update(c *gin.Context) {
	actor, ok := h.requireManager(c)
	if !ok {
		return
	}

	user, ok := h.loadStaff(c)
	if !ok {
		return
	}

	var req UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	updates := map[string]any{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.db.Model(user).Updates(updates).Error; err != nil {
			httperr.Internal(c, "failed_to_update_staff", "Failed to update staff member.")
			return
		}
	}

	if req.NewPassword != nil && *req.NewPassword != "" {
		if err := h.users.SetPassword(c.Request.Context(), user.ID, *req.NewPassword); err != nil {
			httperr.Internal(c, "failed_to_update_staff", "Failed to update staff member.")
			return
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionEditStaff,
		Details:    fmt.Sprintf("Edited staff account %s", user.Username),
	})

	if err := h.db.First(user, user.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_update_staff", "Failed to update staff member.")
		return
	}

	httpresp.OK(c, toStaffResponse(*user))
}

func (h *StaffHandler) Delete(c *gin.Context) {
	actor, ok := h.requireManager(c)
	if !ok {
		return
	}

	user, ok := h.loadStaff(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.User{}, user.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_staff", "Failed to remove staff member.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionDeleteStaff,
		Details:    fmt.Sprintf("Removed staff account %s", user.Username),
	})

	httpresp.Message(c, "Staff member removed.")
}

// loadStaff resolves :id to an existing staff-role account. Accounts of
// any other role 404 so this surface cannot be used to probe or edit
// privileged accounts.
func (h *StaffHandler) loadStaff(c *gin.Context) (*models.User, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_staff_id", "Invalid staff id.")
		return nil, false
	}

	var user models.User
	err = h.db.
		Where("role = ?", authz.RoleStaff).
		First(&user, uint(id)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.NotFound(c, "staff_not_found", "Staff member not found.")
		return nil, false
	}
	if err != nil {
		httperr.Internal(c, "failed_to_get_staff", "Failed to load staff member.")
		return nil, false
	}

	return &user, true
}
