package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-records/internal/audit"
	"github.com/BruksfildServices01/clinic-records/internal/authz"
	"github.com/BruksfildServices01/clinic-records/internal/backup"
	"github.com/BruksfildServices01/clinic-records/internal/httperr"
	"github.com/BruksfildServices01/clinic-records/internal/httpresp"
	"github.com/BruksfildServices01/clinic-records/internal/middleware"
)

// BackupHandler exposes database snapshots. All operations are owner-only.
type BackupHandler struct {
	store backup.Store
	audit *audit.Dispatcher
}

func NewBackupHandler(store backup.Store, auditDispatcher *audit.Dispatcher) *BackupHandler {
	return &BackupHandler{store: store, audit: auditDispatcher}
}

func (h *BackupHandler) requireOwner(c *gin.Context) (authz.Actor, bool) {
	actor := middleware.CurrentActor(c)
	if !actor.Can(authz.CapManageBackups) {
		httperr.Forbidden(c, "permission_denied", "Owner privileges required.")
		return actor, false
	}
	return actor, true
}

func (h *BackupHandler) List(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	infos, err := h.store.List(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "failed_to_list_backups", "Failed to list backups.")
		return
	}

	httpresp.List(c, infos)
}

func (h *BackupHandler) Create(c *gin.Context) {
	actor, ok := h.requireOwner(c)
	if !ok {
		return
	}

	info, err := h.store.Snapshot(c.Request.Context())
	if err != nil {
		httperr.Internal(c, "backup_failed", "Backup failed.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionBackup,
		Details:    fmt.Sprintf("Created backup %s", info.Name),
	})

	httpresp.Created(c, info)
}

func (h *BackupHandler) Download(c *gin.Context) {
	if _, ok := h.requireOwner(c); !ok {
		return
	}

	name := c.Param("name")

	rc, err := h.store.Open(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			httperr.NotFound(c, "backup_not_found", "Backup not found.")
			return
		}
		httperr.Internal(c, "failed_to_open_backup", "Failed to open backup.")
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, rc); err != nil {
		// Headers are already out; nothing useful left to send.
		_ = c.Error(err)
	}
}

func (h *BackupHandler) Restore(c *gin.Context) {
	actor, ok := h.requireOwner(c)
	if !ok {
		return
	}

	name := c.Param("name")

	if err := h.store.Restore(c.Request.Context(), name); err != nil {
		if errors.Is(err, backup.ErrNotFound) {
			httperr.NotFound(c, "backup_not_found", "Backup not found.")
			return
		}
		httperr.Internal(c, "restore_failed", "Restore failed.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:     actor.ID,
		Username:   actor.Username,
		ActionType: audit.ActionRestore,
		Details:    fmt.Sprintf("Restored backup %s", name),
	})

	httpresp.Message(c, "Database restored. Restart the application to pick up the restored data.")
}
