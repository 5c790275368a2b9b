package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"chalkup/internal/modules/catalog/domain"
	catalogout "chalkup/internal/modules/catalog/port/out"
)

const catalogSchemaVersion = 1

type catalogFile struct {
	Version        int `yaml:"version"`
	domain.Catalog `yaml:",inline"`
}

// YAMLCatalogStore keeps the training library in a single yaml file. A
// missing file reads as the built-in seed catalog.
type YAMLCatalogStore struct {
	path string
}

func NewYAMLCatalogStore(path string) catalogout.CatalogStore {
	return &YAMLCatalogStore{path: path}
}

func (s *YAMLCatalogStore) Path() string {
	return s.path
}

func (s *YAMLCatalogStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *YAMLCatalogStore) Load(_ context.Context) (domain.Catalog, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Seed(), nil
	}
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog: %w", err)
	}
	file := catalogFile{}
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog %s: %w", s.path, err)
	}
	if file.Version > catalogSchemaVersion {
		return domain.Catalog{}, fmt.Errorf("catalog %s: unsupported version %d", s.path, file.Version)
	}
	return file.Catalog, nil
}

func (s *YAMLCatalogStore) Save(_ context.Context, catalog domain.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	raw, err := yaml.Marshal(catalogFile{Version: catalogSchemaVersion, Catalog: catalog})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace catalog: %w", err)
	}
	return nil
}
