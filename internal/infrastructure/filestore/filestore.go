package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

// FileStore is the storage collaborator that holds uploaded product images.
type FileStore interface {
	Read(ctx context.Context, location string) ([]byte, error)
	Write(ctx context.Context, suggestedName string, r io.Reader) (location string, err error)
}

type DiskStore struct {
	dir string
}

func CreateDiskStore(dir string) (*DiskStore, error) {
	dir = filepath.Clean(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Read(ctx context.Context, location string) ([]byte, error) {
	path := filepath.Clean(location)
	if !strings.HasPrefix(path, s.dir+string(filepath.Separator)) {
		return nil, errs.ErrNotFound
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Read").Msg("")
		if os.IsNotExist(err) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.ErrInternalServer
	}

	return data, nil
}

// Write stores the uploaded bytes under a ULID-prefixed name so repeated
// uploads of the same filename never clobber each other.
func (s *DiskStore) Write(ctx context.Context, suggestedName string, r io.Reader) (string, error) {
	name := ulid.Make().String() + "_" + filepath.Base(suggestedName)
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Write").Msg("")
		return "", errs.ErrInternalServer
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Write").Msg("")
		return "", errs.ErrInternalServer
	}

	return path, nil
}
