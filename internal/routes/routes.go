package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/backup"
	"github.com/BruksfildServices01/clinic-records/internal/config"
	"github.com/BruksfildServices01/clinic-records/internal/handlers"
	infraRepo "github.com/BruksfildServices01/clinic-records/internal/infra/repository"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/session"
	ucDeletion "github.com/BruksfildServices01/clinic-records/internal/usecase/deletion"
	"github.com/BruksfildServices01/clinic-records/internal/users"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	revoker session.Revoker,
	backupStore backup.Store,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	userStore := users.NewStore(db)
	deletionRepo := infraRepo.NewDeletionGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — DELETION WORKFLOW
	// ======================================================
	requestDeletionUC := ucDeletion.NewRequestDeletion(
		deletionRepo,
		auditDispatcher,
	)

	directDeleteUC := ucDeletion.NewDirectDelete(
		deletionRepo,
		auditDispatcher,
	)

	approveDeletionUC := ucDeletion.NewApproveDeletion(
		deletionRepo,
		auditDispatcher,
	)

	denyDeletionUC := ucDeletion.NewDenyDeletion(
		deletionRepo,
		auditDispatcher,
	)

	listPendingUC := ucDeletion.NewListPending(deletionRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userStore, cfg, revoker, auditDispatcher)
	meHandler := handlers.NewMeHandler(userStore, auditDispatcher)

	patientHandler := handlers.NewPatientHandler(db, auditDispatcher)
	staffHandler := handlers.NewStaffHandler(db, userStore, auditDispatcher)

	deletionHandler := handlers.NewDeletionHandler(
		requestDeletionUC,
		directDeleteUC,
		approveDeletionUC,
		denyDeletionUC,
		listPendingUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	backupHandler := handlers.NewBackupHandler(backupStore, auditDispatcher)
	dashboardHandler := handlers.NewDashboardHandler(db, userStore, deletionRepo)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg, userStore, revoker))
		{
			secured.POST("/auth/logout", authHandler.Logout)

			secured.GET("/me", meHandler.Get)
			secured.PATCH("/me", meHandler.Update)

			secured.GET("/dashboard", dashboardHandler.Get)

			// ------------------------------
			// PATIENTS
			// ------------------------------
			secured.GET("/patients", patientHandler.List)
			secured.POST("/patients", patientHandler.Create)
			secured.GET("/patients/:id", patientHandler.Get)
			secured.PATCH("/patients/:id", patientHandler.Update)
			secured.DELETE("/patients/:id", deletionHandler.DeletePatient)
			secured.POST("/patients/:id/request-deletion", deletionHandler.RequestDeletion)

			// ------------------------------
			// DELETION REQUESTS
			// ------------------------------
			secured.GET("/deletion-requests", deletionHandler.ListPending)
			secured.POST("/deletion-requests/:id/approve", deletionHandler.Approve)
			secured.POST("/deletion-requests/:id/deny", deletionHandler.Deny)

			// ------------------------------
			// STAFF
			// ------------------------------
			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", staffHandler.Create)
			secured.PATCH("/staff/:id", staffHandler.Update)
			secured.DELETE("/staff/:id", staffHandler.Delete)

			// ------------------------------
			// AUDIT / BACKUPS
			// ------------------------------
			secured.GET("/audit-logs", auditLogsHandler.List)

			secured.GET("/backups", backupHandler.List)
			secured.POST("/backups", backupHandler.Create)
			secured.GET("/backups/:name/download", backupHandler.Download)
			secured.POST("/backups/:name/restore", backupHandler.Restore)
		}
	}
}
