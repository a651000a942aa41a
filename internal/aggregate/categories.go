package aggregate

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PictureCategory is the category whose win flag is reported per movie.
const PictureCategory = "Picture"

// Catalog validation errors.
var (
	ErrNoCategories      = errors.New("categories: at least one category is required")
	ErrBlankCategory     = errors.New("categories: category names must not be blank")
	ErrDuplicateCategory = errors.New("categories: duplicate category")
)

//go:embed categories.yaml
var defaultCatalog []byte

// Categories is the ordered set of categories that become table columns.
type Categories []string

type catalogFile struct {
	Categories []string `yaml:"categories"`
}

// DefaultCategories returns the embedded category catalog.
func DefaultCategories() Categories {
	cats, err := ParseCategories(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded category catalog: %v", err))
	}
	return cats
}

// LoadCategories reads a category catalog from path. An empty path
// returns the embedded catalog.
func LoadCategories(path string) (Categories, error) {
	if path == "" {
		return DefaultCategories(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading categories file: %w", err)
	}

	cats, err := ParseCategories(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return cats, nil
}

// ParseCategories decodes and validates a YAML category catalog.
func ParseCategories(data []byte) (Categories, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing categories YAML: %w", err)
	}

	cats := make(Categories, 0, len(file.Categories))
	for _, c := range file.Categories {
		cats = append(cats, strings.TrimSpace(c))
	}
	if err := cats.Validate(); err != nil {
		return nil, err
	}
	return cats, nil
}

// Validate checks that the catalog is non-empty, has no blank names and
// lists each category once.
func (c Categories) Validate() error {
	if len(c) == 0 {
		return ErrNoCategories
	}

	seen := make(map[string]bool, len(c))
	for i, name := range c {
		if name == "" {
			return fmt.Errorf("%w (entry %d)", ErrBlankCategory, i)
		}
		if seen[name] {
			return fmt.Errorf("%w: %q", ErrDuplicateCategory, name)
		}
		seen[name] = true
	}
	return nil
}

// Contains reports whether name is a known category.
func (c Categories) Contains(name string) bool {
	for _, known := range c {
		if known == name {
			return true
		}
	}
	return false
}
