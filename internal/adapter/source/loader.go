package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"legalrag/internal/domain"
)

// Loader walks a directory for document files and decodes them into
// records. Files match against the include patterns relative to the
// walk root.
type Loader struct {
	includes []string
	excludes []string
}

func NewLoader(includes, excludes []string) *Loader {
	if len(includes) == 0 {
		includes = []string{"**/*.yaml", "**/*.yml"}
	}
	return &Loader{
		includes: includes,
		excludes: excludes,
	}
}

// Load reads every matching file under root. Each file holds either a
// single document record or a list of them. Files are visited in sorted
// path order so ingestion is reproducible.
func (l *Loader) Load(root string) ([]domain.DocumentRecord, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			if l.shouldExclude(relPath + "/") {
				return filepath.SkipDir
			}
			return nil
		}

		if l.shouldInclude(relPath) && !l.shouldExclude(relPath) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var records []domain.DocumentRecord
	for _, path := range paths {
		recs, err := loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		records = append(records, recs...)
	}
	return records, nil
}

func loadFile(path string) ([]domain.DocumentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []domain.DocumentRecord
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var single domain.DocumentRecord
	if err := yaml.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []domain.DocumentRecord{single}, nil
}

func (l *Loader) shouldInclude(path string) bool {
	for _, pattern := range l.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (l *Loader) shouldExclude(path string) bool {
	for _, pattern := range l.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}
