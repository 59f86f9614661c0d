package deletion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	infraRepo "github.com/BruksfildServices01/clinic-records/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

type testEnv struct {
	db    *gorm.DB
	repo  *infraRepo.DeletionGormRepository
	audit *audit.Dispatcher

	owner   authz.Actor
	dentist authz.Actor
	staff   authz.Actor
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.AuditLog{},
		&models.DeletionRequest{},
	))

	users := []models.User{
		{Username: "manager", PasswordHash: "x", Role: authz.RoleOwner, FullName: "Clinic Owner"},
		{Username: "dr_smith", PasswordHash: "x", Role: authz.RoleDentist, FullName: "Dr. Smith"},
		{Username: "jane_staff", PasswordHash: "x", Role: authz.RoleStaff, FullName: "Jane Doe"},
	}
	require.NoError(t, db.Create(&users).Error)

	return &testEnv{
		db:      db,
		repo:    infraRepo.NewDeletionGormRepository(db),
		audit:   audit.NewDispatcher(audit.New(db)),
		owner:   users[0].Actor(),
		dentist: users[1].Actor(),
		staff:   users[2].Actor(),
	}
}

func (e *testEnv) createPatient(t *testing.T, first, last string) *models.Patient {
	t.Helper()
	p := &models.Patient{FirstName: first, LastName: last, CreatedBy: e.staff.ID}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) auditEntries(t *testing.T) []models.AuditLog {
	t.Helper()
	e.audit.Close()

	var entries []models.AuditLog
	require.NoError(t, e.db.Find(&entries).Error)
	return entries
}

func (e *testEnv) patientExists(t *testing.T, id uint) bool {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Patient{}).Where("id = ?", id).Count(&count).Error)
	return count > 0
}

// --------------------------------------------------
// RequestDeletion
// --------------------------------------------------

func TestRequestDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	uc := NewRequestDeletion(env.repo, env.audit)

	req, err := uc.Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, req.PatientID)
	assert.Equal(t, env.staff.ID, req.RequestedBy)
	assert.Equal(t, string(domain.StatusPending), req.Status)
	assert.Nil(t, req.ApprovedBy)

	entries := env.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionRequestDelete, entries[0].ActionType)
	assert.Equal(t, "jane_staff", entries[0].Username)
}

func TestRequestDeletionDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	uc := NewRequestDeletion(env.repo, env.audit)

	_, err := uc.Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)

	_, err = uc.Execute(ctx, env.staff, patient.ID)
	assert.True(t, httperr.IsBusiness(err, "duplicate_request"))

	// Exactly one pending row for the patient.
	var count int64
	require.NoError(t, env.db.Model(&models.DeletionRequest{}).
		Where("patient_id = ? AND status = ?", patient.ID, "pending").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRequestDeletionDeniedForNonStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	uc := NewRequestDeletion(env.repo, env.audit)

	for _, actor := range []authz.Actor{env.owner, env.dentist} {
		_, err := uc.Execute(ctx, actor, patient.ID)
		assert.True(t, httperr.IsBusiness(err, "permission_denied"), "role %s", actor.Role)
	}

	var count int64
	require.NoError(t, env.db.Model(&models.DeletionRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRequestDeletionPatientNotFound(t *testing.T) {
	env := newTestEnv(t)

	uc := NewRequestDeletion(env.repo, env.audit)

	_, err := uc.Execute(context.Background(), env.staff, 999)
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"))
}

// --------------------------------------------------
// DirectDelete
// --------------------------------------------------

func TestDirectDeleteByDentist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	uc := NewDirectDelete(env.repo, env.audit)

	require.NoError(t, uc.Execute(ctx, env.dentist, patient.ID))
	assert.False(t, env.patientExists(t, patient.ID))

	entries := env.auditEntries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionDeletePatient, entries[0].ActionType)
}

func TestDirectDeleteDeniedForStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	uc := NewDirectDelete(env.repo, env.audit)

	err := uc.Execute(ctx, env.staff, patient.ID)
	assert.True(t, httperr.IsBusiness(err, "permission_denied"))

	// The patient row must be untouched.
	assert.True(t, env.patientExists(t, patient.ID))
}

func TestDirectDeletePatientNotFound(t *testing.T) {
	env := newTestEnv(t)

	uc := NewDirectDelete(env.repo, env.audit)

	err := uc.Execute(context.Background(), env.owner, 999)
	assert.True(t, httperr.IsBusiness(err, "patient_not_found"))
}

// --------------------------------------------------
// Approve / Deny
// --------------------------------------------------

func TestApproveFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	req, err := NewRequestDeletion(env.repo, env.audit).Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)

	// The request shows up in the owner's queue with joined names.
	rows, err := NewListPending(env.repo).Execute(ctx, env.owner, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, req.ID, rows[0].ID)
	assert.Equal(t, "John", rows[0].PatientFirstName)
	assert.Equal(t, "Doe", rows[0].PatientLastName)
	assert.Equal(t, "jane_staff", rows[0].RequestedByName)

	resolved, err := NewApproveDeletion(env.repo, env.audit).Execute(ctx, env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), resolved.Status)
	require.NotNil(t, resolved.ApprovedBy)
	assert.Equal(t, env.owner.ID, *resolved.ApprovedBy)
	assert.NotNil(t, resolved.ApprovedAt)

	// The patient is gone, the request row is retained.
	assert.False(t, env.patientExists(t, patient.ID))

	var stored models.DeletionRequest
	require.NoError(t, env.db.First(&stored, req.ID).Error)
	assert.Equal(t, string(domain.StatusApproved), stored.Status)

	// Terminal states never reappear in the pending queue.
	rows, err = NewListPending(env.repo).Execute(ctx, env.owner, "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	entries := env.auditEntries(t)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.ActionType)
	}
	assert.Contains(t, actions, audit.ActionRequestDelete)
	assert.Contains(t, actions, audit.ActionApproveDelete)
}

func TestApproveDeniedForNonOwner(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	req, err := NewRequestDeletion(env.repo, env.audit).Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)

	for _, actor := range []authz.Actor{env.staff, env.dentist} {
		_, err := NewApproveDeletion(env.repo, env.audit).Execute(ctx, actor, req.ID)
		assert.True(t, httperr.IsBusiness(err, "permission_denied"), "role %s", actor.Role)
	}

	assert.True(t, env.patientExists(t, patient.ID))
}

func TestApproveResolvedRequestRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	req, err := NewRequestDeletion(env.repo, env.audit).Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)

	approve := NewApproveDeletion(env.repo, env.audit)
	_, err = approve.Execute(ctx, env.owner, req.ID)
	require.NoError(t, err)

	_, err = approve.Execute(ctx, env.owner, req.ID)
	assert.True(t, httperr.IsBusiness(err, "request_not_pending"))

	_, err = NewDenyDeletion(env.repo, env.audit).Execute(ctx, env.owner, req.ID)
	assert.True(t, httperr.IsBusiness(err, "request_not_pending"))
}

func TestApproveRequestNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewApproveDeletion(env.repo, env.audit).Execute(context.Background(), env.owner, 999)
	assert.True(t, httperr.IsBusiness(err, "request_not_found"))
}

func TestDenyKeepsPatient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	patient := env.createPatient(t, "John", "Doe")

	req, err := NewRequestDeletion(env.repo, env.audit).Execute(ctx, env.staff, patient.ID)
	require.NoError(t, err)

	resolved, err := NewDenyDeletion(env.repo, env.audit).Execute(ctx, env.owner, req.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusDenied), resolved.Status)

	assert.True(t, env.patientExists(t, patient.ID))

	rows, err := NewListPending(env.repo).Execute(ctx, env.owner, "")
	require.NoError(t, err)
	assert.Empty(t, rows)

	entries := env.auditEntries(t)
	var actions []string
	for _, e := range entries {
		actions = append(actions, e.ActionType)
	}
	assert.Contains(t, actions, audit.ActionDenyDelete)
}

// --------------------------------------------------
// ListPending
// --------------------------------------------------

func TestListPendingFilterAndOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createPatient(t, "Alice", "Anderson")
	bob := env.createPatient(t, "Bob", "Brown")

	request := NewRequestDeletion(env.repo, env.audit)
	reqAlice, err := request.Execute(ctx, env.staff, alice.ID)
	require.NoError(t, err)
	reqBob, err := request.Execute(ctx, env.staff, bob.ID)
	require.NoError(t, err)

	// Pin distinct request times so the ordering assertion is stable.
	base := time.Date(2025, 11, 5, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&models.DeletionRequest{}).
		Where("id = ?", reqAlice.ID).Update("requested_at", base).Error)
	require.NoError(t, env.db.Model(&models.DeletionRequest{}).
		Where("id = ?", reqBob.ID).Update("requested_at", base.Add(time.Hour)).Error)

	list := NewListPending(env.repo)

	rows, err := list.Execute(ctx, env.owner, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, reqBob.ID, rows[0].ID, "newest request first")
	assert.Equal(t, reqAlice.ID, rows[1].ID)

	// Case-insensitive name substring.
	rows, err = list.Execute(ctx, env.owner, "anderson")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reqAlice.ID, rows[0].ID)

	// Decimal request id.
	rows, err = list.Execute(ctx, env.owner, "2")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, reqBob.ID, rows[0].ID)

	// No match.
	rows, err = list.Execute(ctx, env.owner, "zzz")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListPendingDeniedForNonOwner(t *testing.T) {
	env := newTestEnv(t)

	_, err := NewListPending(env.repo).Execute(context.Background(), env.staff, "")
	assert.True(t, httperr.IsBusiness(err, "permission_denied"))
}
