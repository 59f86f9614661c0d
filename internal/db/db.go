package db

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/config"
	"github.com/BruksfildServices01/clinic-records/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	// sqlite allows a single writer; more connections just means SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Patient{},
		&models.DeletionRequest{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	bootstrapOwner(db)

	return db
}

// bootstrapOwner seeds the initial owner account on an empty install so the
// first login is possible. The credentials are well known; the password must
// be rotated immediately after the first login.
func bootstrapOwner(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", authz.RoleOwner).
		Count(&count).Error; err != nil {
		log.Fatalf("failed to check for owner account: %v", err)
	}
	if count > 0 {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("12345"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash bootstrap password: %v", err)
	}

	owner := models.User{
		Username:     "manager",
		PasswordHash: string(hashed),
		Role:         authz.RoleOwner,
		FullName:     "Clinic Owner",
		Active:       true,
	}

	if err := db.Create(&owner).Error; err != nil {
		log.Fatalf("failed to create owner account: %v", err)
	}

	log.Println("created default owner account 'manager'; change its password now")
}
