package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Manifest lists the resource roots to load.
type Manifest struct {
	MaxFileSize    uint64    `yaml:"maxFileSize" default:"268435456"`
	SynthesizeDirs bool      `yaml:"synthesizeDirs"`
	BearerToken    string    `yaml:"bearerToken"`
	Packages       []Package `yaml:"packages"`
}

// Package is one resource root.
type Package struct {
	Name     string `yaml:"name" default:"app"`
	Location string `yaml:"location"`
	Strict   bool   `yaml:"strict"`
}

// LoadManifest decodes a manifest and fills unset fields from defaults.
func LoadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := defaults.Set(&m); err != nil {
		return m, fmt.Errorf("manifest defaults: %w", err)
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return m, fmt.Errorf("decode manifest: %w", err)
	}
	for i := range m.Packages {
		if err := defaults.Set(&m.Packages[i]); err != nil {
			return m, fmt.Errorf("manifest defaults: %w", err)
		}
		if m.Packages[i].Location == "" {
			return m, fmt.Errorf("package %q: location is required", m.Packages[i].Name)
		}
	}
	return m, nil
}

// LoadManifestFromPath reads the manifest at path; "-" reads stdin.
func LoadManifestFromPath(path string) (Manifest, error) {
	if path == "-" {
		return LoadManifest(os.Stdin)
	}
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return Manifest{}, err
	}
	defer f.Close()
	return LoadManifest(f)
}
