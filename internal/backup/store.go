package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a named snapshot does not exist.
var ErrNotFound = errors.New("snapshot not found")

// Info describes one snapshot of the database file.
type Info struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

// Store is a snapshot store over named byte blobs. Restore overwrites the
// live database file; callers must ensure no concurrent writers (this is a
// documented hazard, not something the store enforces).
type Store interface {
	Snapshot(ctx context.Context) (Info, error)
	List(ctx context.Context) ([]Info, error) // newest first
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Restore(ctx context.Context, name string) error
}

const (
	namePrefix = "backup_"
	nameSuffix = ".db"
)

// newSnapshotName returns backup_<timestamp>_<uuid8>.db. The uuid fragment
// keeps names unique when two snapshots land in the same second.
func newSnapshotName(now time.Time) string {
	return fmt.Sprintf("%s%s_%s%s",
		namePrefix,
		now.Format("20060102_150405"),
		uuid.New().String()[:8],
		nameSuffix,
	)
}

// validName rejects anything that is not a plain snapshot filename, in
// particular path traversal attempts in user-supplied names.
func validName(name string) bool {
	if !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, nameSuffix) {
		return false
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return true
}
