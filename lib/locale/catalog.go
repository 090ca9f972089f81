// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalogs/*.yaml
var builtinFiles embed.FS

// catalogFile is the on-disk form of one language's strings.
type catalogFile struct {
	Language string            `yaml:"language"`
	Name     string            `yaml:"name"`
	Strings  map[string]string `yaml:"strings"`
}

// Catalog holds the strings for a set of languages. A Catalog is
// immutable once built and safe for concurrent use.
type Catalog struct {
	tables map[string]map[string]string
	names  map[string]string
}

var (
	builtinOnce    sync.Once
	builtinCatalog *Catalog
)

// Builtin returns the embedded catalog. It panics if the embedded
// files are malformed, which a test catches before release.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		catalog, err := LoadFS(builtinFiles, "catalogs")
		if err != nil {
			panic("locale: embedded catalogs: " + err.Error())
		}
		builtinCatalog = catalog
	})
	return builtinCatalog
}

// LoadFS reads every .yaml file in dir of fsys as a catalog file.
func LoadFS(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("reading catalog directory %s: %w", dir, err)
	}
	catalog := &Catalog{
		tables: make(map[string]map[string]string),
		names:  make(map[string]string),
	}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		name := path.Join(dir, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", name, err)
		}
		if err := catalog.add(name, data); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// LoadDir reads every .yaml file in a directory on disk.
func LoadDir(directory string) (*Catalog, error) {
	return LoadFS(os.DirFS(filepath.Clean(directory)), ".")
}

func isYAML(name string) bool {
	extension := strings.ToLower(filepath.Ext(name))
	return extension == ".yaml" || extension == ".yml"
}

func (catalog *Catalog) add(name string, data []byte) error {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing catalog %s: %w", name, err)
	}
	if file.Language == "" {
		return fmt.Errorf("catalog %s: language is required", name)
	}
	if !Known(file.Language) {
		return fmt.Errorf("catalog %s: unsupported language %q", name, file.Language)
	}
	code := Parse(file.Language)
	table := catalog.tables[code]
	if table == nil {
		table = make(map[string]string, len(file.Strings))
		catalog.tables[code] = table
	}
	for key, text := range file.Strings {
		table[key] = text
	}
	if file.Name != "" {
		catalog.names[code] = file.Name
	}
	return nil
}

// Merge returns a new catalog with overlay's strings layered on top of
// catalog's. Neither input is modified.
func (catalog *Catalog) Merge(overlay *Catalog) *Catalog {
	merged := &Catalog{
		tables: make(map[string]map[string]string, len(catalog.tables)),
		names:  make(map[string]string, len(catalog.names)),
	}
	for _, source := range []*Catalog{catalog, overlay} {
		if source == nil {
			continue
		}
		for code, table := range source.tables {
			target := merged.tables[code]
			if target == nil {
				target = make(map[string]string, len(table))
				merged.tables[code] = target
			}
			for key, text := range table {
				target[key] = text
			}
		}
		for code, name := range source.names {
			merged.names[code] = name
		}
	}
	return merged
}

// Resolve returns the string for key in language, falling back to
// English and then to the empty string. language may be any alias
// accepted by Parse.
func (catalog *Catalog) Resolve(key, language string) string {
	if text, ok := catalog.tables[Parse(language)][key]; ok {
		return text
	}
	if text, ok := catalog.tables[Default][key]; ok {
		return text
	}
	return ""
}

// Format resolves key and substitutes arg for "%s".
func (catalog *Catalog) Format(key, language, arg string) string {
	return Format(catalog.Resolve(key, language), arg)
}

// Has reports whether key is defined for language itself, without
// fallback.
func (catalog *Catalog) Has(key, language string) bool {
	_, ok := catalog.tables[Parse(language)][key]
	return ok
}

// Name returns the display name of a language, in that language.
func (catalog *Catalog) Name(language string) string {
	code := Parse(language)
	if name, ok := catalog.names[code]; ok {
		return name
	}
	return code
}

// Languages returns the codes with at least one string, sorted.
func (catalog *Catalog) Languages() []string {
	codes := make([]string, 0, len(catalog.tables))
	for code := range catalog.tables {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Keys returns every key defined for language, sorted.
func (catalog *Catalog) Keys(language string) []string {
	table := catalog.tables[Parse(language)]
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Missing returns the keys among want that resolve to the empty string
// in language even after English fallback, sorted.
func (catalog *Catalog) Missing(language string, want []string) []string {
	var missing []string
	seen := make(map[string]bool, len(want))
	for _, key := range want {
		if seen[key] {
			continue
		}
		seen[key] = true
		if catalog.Resolve(key, language) == "" {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
