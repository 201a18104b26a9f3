package sources

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of feed source configurations
type Loader struct {
	sourcesDir string
}

func NewLoader(sourcesDir string) *Loader {
	return &Loader{sourcesDir: sourcesDir}
}

// LoadAll loads all YAML source files from the sources directory, ordered
// by priority. Missing directory yields an empty list, not an error.
func (l *Loader) LoadAll() ([]*Source, error) {
	if _, err := os.Stat(l.sourcesDir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}
	ymlFiles, err := filepath.Glob(filepath.Join(l.sourcesDir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)
	sort.Strings(files)

	var loaded []*Source
	for i, file := range files {
		source, err := l.loadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		l.setDefaults(source, i+1)

		if err := l.validate(source); err != nil {
			return nil, fmt.Errorf("invalid source %s: %w", file, err)
		}

		loaded = append(loaded, source)
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].Priority < loaded[j].Priority
	})

	return loaded, nil
}

func (l *Loader) loadFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Enabled defaults to true unless the file says otherwise.
	source := &Source{Enabled: true}
	if err := yaml.Unmarshal(data, source); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return source, nil
}

func (l *Loader) setDefaults(source *Source, position int) {
	if source.Name == "" {
		source.Name = domainName(source.URL)
	}
	if source.Priority == 0 {
		source.Priority = position
	}
}

func (l *Loader) validate(source *Source) error {
	if source.URL == "" {
		return fmt.Errorf("source URL is required")
	}
	if source.Priority < 0 {
		return fmt.Errorf("priority must be non-negative")
	}
	return nil
}
