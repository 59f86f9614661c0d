package backup

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockObjectStore implements ObjectAPI over an in-memory map.
type mockObjectStore struct {
	objects  map[string][]byte
	modified map[string]time.Time
}

func newMockObjectStore() *mockObjectStore {
	return &mockObjectStore{
		objects:  make(map[string][]byte),
		modified: make(map[string]time.Time),
	}
}

func (m *mockObjectStore) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(params.Key)
	m.objects[key] = data
	m.modified[key] = time.Now()
	return &s3.PutObjectOutput{}, nil
}

func (m *mockObjectStore) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := m.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
	}, nil
}

func (m *mockObjectStore) ListObjectsV2(_ context.Context, params *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	prefix := aws.ToString(params.Prefix)

	var keys []string
	for key := range m.objects {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, key := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(key),
			Size:         aws.Int64(int64(len(m.objects[key]))),
			LastModified: aws.Time(m.modified[key]),
		})
	}
	return out, nil
}

func newS3TestStore(t *testing.T, content string) (*S3Store, *mockObjectStore) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "clinic_records.db")
	require.NoError(t, os.WriteFile(dbPath, []byte(content), 0o644))

	mock := newMockObjectStore()
	return NewS3Store(mock, "clinic-bucket", "clinic-backups/", dbPath), mock
}

func TestS3SnapshotAndList(t *testing.T) {
	ctx := context.Background()
	store, mock := newS3TestStore(t, "live database bytes")

	info, err := store.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, validName(info.Name))
	assert.Equal(t, int64(len("live database bytes")), info.Size)

	// Stored under the configured prefix.
	_, ok := mock.objects["clinic-backups/"+info.Name]
	assert.True(t, ok)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, info.Name, infos[0].Name)
}

func TestS3ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	store, mock := newS3TestStore(t, "data")

	older, err := store.Snapshot(ctx)
	require.NoError(t, err)
	newer, err := store.Snapshot(ctx)
	require.NoError(t, err)

	now := time.Now()
	mock.modified["clinic-backups/"+older.Name] = now.Add(-time.Hour)
	mock.modified["clinic-backups/"+newer.Name] = now

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, newer.Name, infos[0].Name)
}

func TestS3OpenAndRestore(t *testing.T) {
	ctx := context.Background()
	store, _ := newS3TestStore(t, "original state")

	info, err := store.Snapshot(ctx)
	require.NoError(t, err)

	rc, err := store.Open(ctx, info.Name)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "original state", string(data))

	require.NoError(t, os.WriteFile(store.dbPath, []byte("corrupted state"), 0o644))
	require.NoError(t, store.Restore(ctx, info.Name))

	restored, err := os.ReadFile(store.dbPath)
	require.NoError(t, err)
	assert.Equal(t, "original state", string(restored))
}

func TestS3NotFound(t *testing.T) {
	ctx := context.Background()
	store, _ := newS3TestStore(t, "data")

	_, err := store.Open(ctx, "backup_20990101_000000_deadbeef.db")
	assert.ErrorIs(t, err, ErrNotFound)

	err = store.Restore(ctx, "backup_20990101_000000_deadbeef.db")
	assert.ErrorIs(t, err, ErrNotFound)
}
