package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnasB0/Resto-Pro/internal/domain"
	"github.com/AnasB0/Resto-Pro/internal/storage"
	"github.com/rs/zerolog/log"
)

// ObjectStoreSource downloads the table files under a bucket prefix into a
// scratch directory and reads them like a DirSource.
type ObjectStoreSource struct {
	client  storage.ObjectStorage
	prefix  string
	tempDir string
}

func NewObjectStoreSource(client storage.ObjectStorage, prefix string) *ObjectStoreSource {
	return &ObjectStoreSource{client: client, prefix: strings.TrimSpace(prefix)}
}

func (s *ObjectStoreSource) Load(ctx context.Context) (domain.Tables, error) {
	objects, err := s.client.ListObjects(ctx, s.prefix)
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to list objects for prefix %s: %w", s.prefix, err)
	}

	dir, err := os.MkdirTemp(s.tempDir, "restopro-s3-")
	if err != nil {
		return domain.Tables{}, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	downloaded := 0
	for _, obj := range objects {
		rel := objectRelativePath(s.prefix, obj.Key)
		// only files directly under the prefix belong to this snapshot
		if strings.Contains(rel, "/") || !isTableFile(rel) {
			continue
		}
		if err := s.client.DownloadObject(ctx, obj.Key, filepath.Join(dir, rel)); err != nil {
			return domain.Tables{}, err
		}
		downloaded++
	}

	log.Debug().Str("prefix", s.prefix).Int("files", downloaded).Msg("downloaded table objects")
	return NewDirSource(dir).Load(ctx)
}

func objectRelativePath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	prefixTrimmed := strings.TrimSuffix(strings.TrimSpace(prefix), "/")
	rel := strings.TrimPrefix(key, prefixTrimmed+"/")
	if rel == "" {
		return filepath.Base(key)
	}
	return rel
}
