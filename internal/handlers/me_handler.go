package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

type MeHandler struct {
	users *users.Store
	audit *audit.Dispatcher
}

func NewMeHandler(userStore *users.Store, auditDispatcher *audit.Dispatcher) *MeHandler {
	return &MeHandler{users: userStore, audit: auditDispatcher}
}

// --------- Requests ---------

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`

	// Optional password change. NewPassword requires CurrentPassword.
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// --------- Handlers ---------

func (h *MeHandler) Get(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	user, err := h.users.FindByID(c.Request.Context(), actor.ID)
	if err != nil || user == nil {
		httperr.Internal(c, "failed_to_load_profile", "Failed to load profile.")
		return
	}

	httpresp.OK(c, gin.H{
		"id":        user.ID,
		"username":  user.Username,
		"full_name": user.FullName,
		"email":     user.Email,
		"role":      user.Role,
	})
}

func (h *MeHandler) Update(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), actor.ID)
	if err != nil || user == nil {
		httperr.Internal(c, "failed_to_load_profile", "Failed to load profile.")
		return
	}

	// A password change must prove knowledge of the current password even
	// on an authenticated session; a stolen token alone is not enough.
	if req.NewPassword != "" {
		if !h.users.Verify(user, req.CurrentPassword) {
			httperr.BadRequest(c, "incorrect_password", "Current password is incorrect.")
			return
		}
		if err := h.users.SetPassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
			httperr.Internal(c, "failed_to_update_profile", "Failed to update profile.")
			return
		}
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = user.FullName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = user.Email
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user.ID, fullName, email); err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Failed to update profile.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     user.ID,
		Username:   user.Username,
		ActionType: audit.ActionUpdateProfile,
		Details:    "Updated own profile",
	})

	httpresp.Message(c, "Profile updated successfully!")
}
