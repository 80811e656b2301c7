package kconfig

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/quasar/internal/ksynth"
)

// PriorsOverride is an optional secondary file letting an operator
// override one or more hull-family priors without touching the
// in-binary ksynth.FamilyPriors table.
type PriorsOverride struct {
	Families map[string]ksynth.Prior `toml:"families"`
}

// LoadPriorsOverride reads a TOML priors-override file. A missing file
// is not an error: it returns an empty override, matching
// internal/nebula/state.go's LoadState "absent means empty" convention.
func LoadPriorsOverride(path string) (PriorsOverride, error) {
	if path == "" {
		return PriorsOverride{Families: map[string]ksynth.Prior{}}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PriorsOverride{Families: map[string]ksynth.Prior{}}, nil
		}
		return PriorsOverride{}, fmt.Errorf("reading priors override: %w", err)
	}
	var override PriorsOverride
	if err := toml.Unmarshal(data, &override); err != nil {
		return PriorsOverride{}, fmt.Errorf("parsing priors override: %w", err)
	}
	if override.Families == nil {
		override.Families = map[string]ksynth.Prior{}
	}
	return override, nil
}

// SavePriorsOverride writes the override file atomically (write temp,
// then rename), the same discipline internal/nebula/state.go's
// SaveState uses for its TOML state file.
func SavePriorsOverride(path string, override PriorsOverride) error {
	data, err := toml.Marshal(override)
	if err != nil {
		return fmt.Errorf("marshaling priors override: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating priors override directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing temp priors override: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming priors override file: %w", err)
	}
	return nil
}

// ApplyPriorsOverride returns FamilyPriors with override entries merged
// in, leaving ksynth.FamilyPriors itself untouched.
func ApplyPriorsOverride(override PriorsOverride) map[ksynth.Family]ksynth.Prior {
	merged := make(map[ksynth.Family]ksynth.Prior, len(ksynth.FamilyPriors))
	for k, v := range ksynth.FamilyPriors {
		merged[k] = v
	}
	for name, prior := range override.Families {
		merged[ksynth.Family(name)] = prior
	}
	return merged
}
