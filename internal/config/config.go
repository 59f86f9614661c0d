package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabasePath string
	JWTSecret    string
	ServerPort   string

	// Optional redis for revoked-session tracking. Empty means the
	// in-process revoker is used instead.
	RedisAddr     string
	RedisPassword string

	// Backup snapshot storage. Local directory by default; when
	// BackupS3Bucket is set, snapshots go to S3 instead.
	BackupDir         string
	BackupS3Bucket    string
	BackupS3Prefix    string
	BackupS3Region    string
	BackupS3Endpoint  string
	BackupS3AccessKey string
	BackupS3SecretKey string
}

func Load() *Config {
	// Missing .env is fine: container deployments set real env vars.
	_ = godotenv.Load()

	return &Config{
		DatabasePath: getEnv("DATABASE_PATH", "clinic_records.db"),
		JWTSecret:    getEnv("JWT_SECRET", "changeme"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		BackupDir:         getEnv("BACKUP_DIR", "backups"),
		BackupS3Bucket:    getEnv("BACKUP_S3_BUCKET", ""),
		BackupS3Prefix:    getEnv("BACKUP_S3_PREFIX", "clinic-backups/"),
		BackupS3Region:    getEnv("BACKUP_S3_REGION", "us-east-1"),
		BackupS3Endpoint:  getEnv("BACKUP_S3_ENDPOINT", ""),
		BackupS3AccessKey: getEnv("BACKUP_S3_ACCESS_KEY", ""),
		BackupS3SecretKey: getEnv("BACKUP_S3_SECRET_KEY", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
