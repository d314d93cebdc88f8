package schema

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"

	"shutter-pricing-service/internal/domain"
)

// Parse decodes and validates one schema document.
func Parse(data []byte) (domain.ProductSchema, error) {
	var file File
	if err := toml.Unmarshal(data, &file); err != nil {
		return domain.ProductSchema{}, goerr.Wrap(err, "failed to parse TOML schema")
	}
	if err := file.Validate(); err != nil {
		return domain.ProductSchema{}, goerr.Wrap(err, "schema validation failed", goerr.V(productKey, file.ProductID))
	}
	return file.ToDomain(), nil
}

// Load reads a single schema file.
func Load(path string) (domain.ProductSchema, error) {
	// #nosec G304 - path comes from configuration
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ProductSchema{}, goerr.Wrap(ErrSchemaNotFound, "schema file does not exist", goerr.V(pathKey, path))
		}
		return domain.ProductSchema{}, goerr.Wrap(err, "failed to read schema file", goerr.V(pathKey, path))
	}
	s, err := Parse(data)
	if err != nil {
		return domain.ProductSchema{}, goerr.Wrap(err, "failed to load schema", goerr.V(pathKey, path))
	}
	return s, nil
}

// Set holds the schemas of every product, keyed by product id. It is read-only
// after LoadDir returns.
type Set struct {
	schemas map[string]domain.ProductSchema
}

// NewSet builds a Set from already loaded schemas.
func NewSet(schemas ...domain.ProductSchema) (*Set, error) {
	set := &Set{schemas: make(map[string]domain.ProductSchema, len(schemas))}
	for _, s := range schemas {
		if _, dup := set.schemas[s.ProductID]; dup {
			return nil, goerr.Wrap(ErrDuplicateProduct, "found duplicate", goerr.V(productKey, s.ProductID))
		}
		set.schemas[s.ProductID] = s
	}
	return set, nil
}

// LoadDir loads every *.toml file in dir.
func LoadDir(dir string) (*Set, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.toml"))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list schema files", goerr.V(pathKey, dir))
	}
	sort.Strings(paths)

	schemas := make([]domain.ProductSchema, 0, len(paths))
	for _, p := range paths {
		s, err := Load(p)
		if err != nil {
			return nil, err
		}
		schemas = append(schemas, s)
	}
	return NewSet(schemas...)
}

// ProductSchema returns the schema of productID.
func (s *Set) ProductSchema(_ context.Context, productID string) (domain.ProductSchema, error) {
	schema, ok := s.schemas[productID]
	if !ok {
		return domain.ProductSchema{}, goerr.Wrap(ErrSchemaNotFound, "unknown product", goerr.V(productKey, productID))
	}
	return schema, nil
}

// ProductIDs lists the loaded products, sorted.
func (s *Set) ProductIDs() []string {
	ids := make([]string, 0, len(s.schemas))
	for id := range s.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
