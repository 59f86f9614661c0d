package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-records/internal/backup"
	"github.com/BruksfildServices01/clinic-records/internal/config"
	dbpkg "github.com/BruksfildServices01/clinic-records/internal/db"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
	"github.com/BruksfildServices01/clinic-records/internal/routes"
	"github.com/BruksfildServices01/clinic-records/internal/session"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	revoker := newRevoker(cfg)
	backupStore := newBackupStore(cfg)

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, revoker, backupStore)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func newRevoker(cfg *config.Config) session.Revoker {
	if cfg.RedisAddr != "" {
		log.Printf("using redis session revocation at %s", cfg.RedisAddr)
		return session.NewRedisRevoker(cfg.RedisAddr, cfg.RedisPassword)
	}
	// Single-instance fallback. Revocations are lost on restart; tokens
	// revoked before a crash become valid again until they expire.
	return session.NewMemoryRevoker()
}

func newBackupStore(cfg *config.Config) backup.Store {
	if cfg.BackupS3Bucket != "" {
		client, err := backup.NewS3Client(
			context.Background(),
			cfg.BackupS3Region,
			cfg.BackupS3Endpoint,
			cfg.BackupS3AccessKey,
			cfg.BackupS3SecretKey,
		)
		if err != nil {
			log.Fatalf("failed to init s3 backup client: %v", err)
		}
		log.Printf("storing backups in s3 bucket %s", cfg.BackupS3Bucket)
		return backup.NewS3Store(client, cfg.BackupS3Bucket, cfg.BackupS3Prefix, cfg.DatabasePath)
	}
	return backup.NewLocalStore(cfg.DatabasePath, cfg.BackupDir)
}
