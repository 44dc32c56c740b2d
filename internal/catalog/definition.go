package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed shows.toml
var defaultDefinition []byte

// Clip is a curated piece of audio: a favorite or an exclusive.
type Clip struct {
	Title string `toml:"title"`
	URL   string `toml:"url"`
	Intro string `toml:"intro"`
}

// ShowDefinition describes one show.
type ShowDefinition struct {
	ID        string   `toml:"id"`
	Title     string   `toml:"title"`
	Feed      string   `toml:"feed"`
	Serial    bool     `toml:"serial"`
	Aliases   []string `toml:"aliases"`
	Favorites []Clip   `toml:"favorites"`
}

// Definition is the parsed catalog file.
type Definition struct {
	MiscClips  []string         `toml:"misc_clips"`
	Shows      []ShowDefinition `toml:"shows"`
	Exclusives []Clip           `toml:"exclusives"`
}

// LoadDefinition reads the catalog from path, or the built-in catalog when
// path is empty.
func LoadDefinition(path string) (Definition, error) {
	data := defaultDefinition
	if path != "" {
		raw, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Definition{}, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}
	return ParseDefinition(data)
}

// ParseDefinition decodes and validates a TOML catalog.
func ParseDefinition(data []byte) (Definition, error) {
	var def Definition
	if err := toml.Unmarshal(data, &def); err != nil {
		return Definition{}, fmt.Errorf("parse catalog: %w", err)
	}
	if err := def.Validate(); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// Validate checks show ids are present and unique and every clip has a URL.
func (d Definition) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(d.Shows))
	for i, s := range d.Shows {
		switch {
		case s.ID == "":
			errs = append(errs, fmt.Errorf("show %d: id is required", i))
		case seen[s.ID]:
			errs = append(errs, fmt.Errorf("show %q: duplicate id", s.ID))
		}
		seen[s.ID] = true
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("show %q: title is required", s.ID))
		}
		for j, f := range s.Favorites {
			if f.URL == "" {
				errs = append(errs, fmt.Errorf("show %q favorite %d: url is required", s.ID, j))
			}
		}
	}
	for i, e := range d.Exclusives {
		if e.URL == "" {
			errs = append(errs, fmt.Errorf("exclusive %d: url is required", i))
		}
	}
	return errors.Join(errs...)
}
