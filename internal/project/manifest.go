// Package project loads and validates the rustic.toml manifest.
package project

import (
	"fmt"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// ManifestName is the file looked up from the working directory upwards.
const ManifestName = "rustic.toml"

// Manifest mirrors rustic.toml.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Build   BuildSection   `toml:"build"`
}

type PackageSection struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Edition string `toml:"edition"`
}

type BuildSection struct {
	Target string `toml:"target"`
	OutDir string `toml:"out_dir"`
}

var knownEditions = map[string]bool{
	"2021": true,
	"2024": true,
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ManifestName, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields a build actually depends on. Version must be
// a valid semver string; edition defaults to the newest known one.
func (m *Manifest) Validate() error {
	if !IsValidPackageName(m.Package.Name) {
		return fmt.Errorf("invalid package name %q", m.Package.Name)
	}
	if m.Package.Version != "" {
		if _, err := semver.NewVersion(m.Package.Version); err != nil {
			return fmt.Errorf("invalid package version %q: %w", m.Package.Version, err)
		}
	}
	if m.Package.Edition == "" {
		m.Package.Edition = "2024"
	} else if !knownEditions[m.Package.Edition] {
		return fmt.Errorf("unknown edition %q", m.Package.Edition)
	}
	return nil
}

// IsValidPackageName accepts ASCII identifiers with '-' allowed after the
// first character, matching what the output file naming tolerates.
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
