package audit

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/models"
)

// Action types recorded by the application.
const (
	ActionLogin         = "LOGIN"
	ActionLogout        = "LOGOUT"
	ActionAddPatient    = "ADD_PATIENT"
	ActionEditPatient   = "EDIT_PATIENT"
	ActionDeletePatient = "DELETE_PATIENT"
	ActionRequestDelete = "REQUEST_DELETE"
	ActionApproveDelete = "APPROVE_DELETE"
	ActionDenyDelete    = "DENY_DELETE"
	ActionAddStaff      = "ADD_STAFF"
	ActionEditStaff     = "EDIT_STAFF"
	ActionDeleteStaff   = "DELETE_STAFF"
	ActionUpdateProfile = "UPDATE_PROFILE"
	ActionBackup        = "BACKUP"
	ActionRestore       = "RESTORE"
)

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Log appends one audit entry. The username is snapshotted as-is; later
// renames do not rewrite history.
func (l *Logger) Log(userID uint, username, actionType, details string) error {
	entry := models.AuditLog{
		UserID:     userID,
		Username:   username,
		ActionType: actionType,
		Details:    details,
	}

	return l.db.Create(&entry).Error
}
