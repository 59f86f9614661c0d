package backup

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// LocalStore keeps snapshots as plain copies of the sqlite file in a
// directory next to the live database.
type LocalStore struct {
	dbPath string
	dir    string
	now    func() time.Time
}

func NewLocalStore(dbPath, dir string) *LocalStore {
	return &LocalStore{
		dbPath: dbPath,
		dir:    dir,
		now:    time.Now,
	}
}

func (s *LocalStore) Snapshot(_ context.Context) (Info, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Info{}, err
	}

	name := newSnapshotName(s.now())
	dst := filepath.Join(s.dir, name)

	if err := copyFile(s.dbPath, dst); err != nil {
		return Info{}, err
	}

	stat, err := os.Stat(dst)
	if err != nil {
		return Info{}, err
	}

	return Info{
		Name:      name,
		CreatedAt: stat.ModTime(),
		Size:      stat.Size(),
	}, nil
}

func (s *LocalStore) List(_ context.Context) ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, err
	}

	var infos []Info
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, namePrefix) || !strings.HasSuffix(name, nameSuffix) {
			continue
		}

		stat, err := entry.Info()
		if err != nil {
			return nil, err
		}

		infos = append(infos, Info{
			Name:      name,
			CreatedAt: stat.ModTime(),
			Size:      stat.Size(),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})

	return infos, nil
}

func (s *LocalStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}

	f, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (s *LocalStore) Restore(_ context.Context, name string) error {
	if !validName(name) {
		return ErrNotFound
	}

	src := filepath.Join(s.dir, name)
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return ErrNotFound
	} else if err != nil {
		return err
	}

	// Copy into a sibling temp file first so the live path flips over in
	// a single rename.
	tmp := s.dbPath + ".restore"
	if err := copyFile(src, tmp); err != nil {
		return err
	}
	return os.Rename(tmp, s.dbPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

var _ Store = (*LocalStore)(nil)
