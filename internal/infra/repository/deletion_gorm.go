package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/clinic-records/internal/domain/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

type DeletionGormRepository struct {
	db *gorm.DB
}

func NewDeletionGormRepository(db *gorm.DB) *DeletionGormRepository {
	return &DeletionGormRepository{db: db}
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *DeletionGormRepository) GetPatient(
	ctx context.Context,
	id uint,
) (*models.Patient, error) {

	var patient models.Patient
	err := r.db.WithContext(ctx).First(&patient, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &patient, nil
}

func (r *DeletionGormRepository) DeletePatient(
	ctx context.Context,
	id uint,
) error {
	return r.db.WithContext(ctx).Delete(&models.Patient{}, id).Error
}

// --------------------------------------------------
// Request (create)
// --------------------------------------------------

func (r *DeletionGormRepository) HasPendingRequest(
	ctx context.Context,
	patientID uint,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.DeletionRequest{}).
		Where("patient_id = ? AND status = ?", patientID, string(domain.StatusPending)).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *DeletionGormRepository) CreateRequest(
	ctx context.Context,
	req *models.DeletionRequest,
) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// --------------------------------------------------
// Request (state change)
// --------------------------------------------------

func (r *DeletionGormRepository) GetRequest(
	ctx context.Context,
	id uint,
) (*models.DeletionRequest, error) {

	var req models.DeletionRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *DeletionGormRepository) UpdateRequest(
	ctx context.Context,
	req *models.DeletionRequest,
) error {
	return r.db.WithContext(ctx).Save(req).Error
}

// --------------------------------------------------
// Listing
// --------------------------------------------------

func (r *DeletionGormRepository) ListPending(
	ctx context.Context,
	filter string,
) ([]domain.PendingRow, error) {

	q := r.db.WithContext(ctx).
		Table("deletion_requests AS dr").
		Select(`dr.id, dr.patient_id, dr.requested_by, dr.requested_at,
			p.first_name AS patient_first_name,
			p.last_name AS patient_last_name,
			u.username AS requested_by_name`).
		Joins("JOIN patients p ON dr.patient_id = p.id").
		Joins("JOIN users u ON dr.requested_by = u.id").
		Where("dr.status = ?", string(domain.StatusPending))

	if filter = strings.TrimSpace(filter); filter != "" {
		like := "%" + strings.ToLower(filter) + "%"
		q = q.Where(
			"LOWER(p.first_name) LIKE ? OR LOWER(p.last_name) LIKE ? OR CAST(dr.id AS TEXT) LIKE ?",
			like, like, "%"+filter+"%",
		)
	}

	var rows []domain.PendingRow
	if err := q.
		Order("dr.requested_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// Compile-time check
var _ domain.Repository = (*DeletionGormRepository)(nil)
