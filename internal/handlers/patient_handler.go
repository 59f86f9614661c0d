package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/dto"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/models"
	"github.com/BruksfildServices01/clinic-records/internal/validators"
)

type PatientHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPatientHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PatientHandler {
	return &PatientHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreatePatientRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`

	DateOfBirth *string `json:"date_of_birth"`
	Gender      *string `json:"gender"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`

	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`

	Allergies         *string `json:"allergies"`
	ExistingCondition *string `json:"existing_condition"`
	DentistNotes      *string `json:"dentist_notes"`
	AssignedDentist   *string `json:"assigned_dentist"`
}

type UpdatePatientRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`

	DateOfBirth *string `json:"date_of_birth,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Email       *string `json:"email,omitempty"`
	Address     *string `json:"address,omitempty"`

	EmergencyContactName  *string `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string `json:"emergency_contact_phone,omitempty"`

	Allergies         *string `json:"allergies,omitempty"`
	ExistingCondition *string `json:"existing_condition,omitempty"`
	DentistNotes      *string `json:"dentist_notes,omitempty"`
	AssignedDentist   *string `json:"assigned_dentist,omitempty"`
}

// --------- Handlers ---------

// List searches patients. The text filter matches first name, last name,
// phone or the decimal id, case-insensitively; gender is exact. Newest
// records come first.
func (h *PatientHandler) List(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	gender := strings.TrimSpace(c.Query("gender"))

	q := h.db.Model(&models.Patient{})

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR phone LIKE ? OR CAST(id AS TEXT) LIKE ?",
			like, like, "%"+search+"%", "%"+search+"%",
		)
	}

	if gender != "" {
		q = q.Where("gender = ?", gender)
	}

	var patients []models.Patient
	if err := q.
		Order("id DESC").
		Find(&patients).Error; err != nil {

		httperr.Internal(c, "failed_to_list_patients", "Failed to list patients.")
		return
	}

	httpresp.List(c, dto.FromPatients(patients, time.Now()))
}

func (h *PatientHandler) Create(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "validation_error", "First Name and Last Name are required.")
		return
	}

	if req.DateOfBirth != nil && !validators.IsValidDateOfBirth(*req.DateOfBirth) {
		httperr.BadRequest(c, "invalid_date_of_birth", "Date of birth must be YYYY-MM-DD.")
		return
	}

	patient := models.Patient{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Phone:                 req.Phone,
		Email:                 req.Email,
		Address:               req.Address,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		CreatedBy:             actor.ID,
	}

	// Medical fields are only writable by owner/dentist/admin; anything a
	// plain staff member submitted is dropped, and the record is assigned
	// to them by name.
	if actor.Can(authz.CapEditMedicalFields) {
		patient.Allergies = req.Allergies
		patient.ExistingCondition = req.ExistingCondition
		patient.DentistNotes = req.DentistNotes
		patient.AssignedDentist = req.AssignedDentist
	} else if actor.Role == authz.RoleStaff {
		name := actor.DisplayName()
		patient.AssignedDentist = &name
	}

	if err := h.db.Create(&patient).Error; err != nil {
		httperr.Internal(c, "failed_to_create_patient", "Failed to add patient.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionAddPatient,
		Details:    fmt.Sprintf("Added patient %s %s", patient.FirstName, patient.LastName),
	})

	httpresp.Created(c, dto.FromPatient(patient, time.Now()))
}

func (h *PatientHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Invalid patient id.")
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "Patient not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_patient", "Failed to load patient.")
		return
	}

	httpresp.OK(c, dto.FromPatient(patient, time.Now()))
}

func (h *PatientHandler) Update(c *gin.Context) {
	actor := middleware.CurrentActor(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		httperr.BadRequest(c, "invalid_patient_id", "Invalid patient id.")
		return
	}

	var patient models.Patient
	if err := h.db.First(&patient, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "patient_not_found", "Patient not found.")
			return
		}
		httperr.Internal(c, "failed_to_get_patient", "Failed to load patient.")
		return
	}

	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	if (req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "") ||
		(req.LastName != nil && strings.TrimSpace(*req.LastName) == "") {
		httperr.BadRequest(c, "validation_error", "First Name and Last Name are required.")
		return
	}

	if req.DateOfBirth != nil && !validators.IsValidDateOfBirth(*req.DateOfBirth) {
		httperr.BadRequest(c, "invalid_date_of_birth", "Date of birth must be YYYY-MM-DD.")
		return
	}

	updates := map[string]any{}

	setIf := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}

	setIf("first_name", req.FirstName)
	setIf("last_name", req.LastName)
	setIf("date_of_birth", req.DateOfBirth)
	setIf("gender", req.Gender)
	setIf("phone", req.Phone)
	setIf("email", req.Email)
	setIf("address", req.Address)
	setIf("emergency_contact_name", req.EmergencyContactName)
	setIf("emergency_contact_phone", req.EmergencyContactPhone)

	// Non-privileged actors cannot touch medical fields; submitted values
	// are ignored and the stored ones retained.
	if actor.Can(authz.CapEditMedicalFields) {
		setIf("allergies", req.Allergies)
		setIf("existing_condition", req.ExistingCondition)
		setIf("dentist_notes", req.DentistNotes)
		setIf("assigned_dentist", req.AssignedDentist)
	}

	updates["updated_at"] = time.Now()

	if err := h.db.Model(&patient).Updates(updates).Error; err != nil {
		httperr.Internal(c, "failed_to_update_patient", "Failed to update patient.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionEditPatient,
		Details:    fmt.Sprintf("Edited patient ID %d", patient.ID),
	})

	// Re-read so the response reflects exactly what was stored.
	if err := h.db.First(&patient, patient.ID).Error; err != nil {
		httperr.Internal(c, "failed_to_get_patient", "Failed to load patient.")
		return
	}

	httpresp.OK(c, dto.FromPatient(patient, time.Now()))
}
