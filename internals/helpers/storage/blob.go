// file: internals/helpers/storage/blob.go
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore is the binary persistence collaborator. The core never reads
// stored content back; it only keeps the returned location on the owning
// row.
type BlobStore interface {
	Save(ctx context.Context, dir, filename string, r io.Reader) (location string, err error)
	Remove(ctx context.Context, location string) error
}

/* ===============================
   Local disk implementation
=================================*/

// DiskStore keeps blobs under a base directory. Deployments front this
// with object storage; the interface is what the core depends on.
type DiskStore struct {
	BaseDir string
}

func NewDiskStore(baseDir string) *DiskStore { return &DiskStore{BaseDir: baseDir} }

func (s *DiskStore) Save(ctx context.Context, dir, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := uuid.New().String() + "_" + sanitize(filename)
	full := filepath.Join(s.BaseDir, dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		return "", fmt.Errorf("blob dir: %w", err)
	}
	path := filepath.Join(full, key)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("blob create: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("blob write: %w", err)
	}
	return filepath.ToSlash(filepath.Join(dir, key)), nil
}

func (s *DiskStore) Remove(ctx context.Context, location string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.Remove(filepath.Join(s.BaseDir, filepath.FromSlash(location)))
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)
}
