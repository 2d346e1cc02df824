// Package manifest decodes the TOML package manifests consumed by
// `depot catalog publish`.
package manifest

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/example/depot/internal/models"
)

// Manifest is the on-disk description of an agent package version.
//
//	name = "summarizer"
//	version = "1.4.2"
//	description = "Summarizes long threads"
//	tools = ["search", "read_file"]
//	permissions = ["net.outbound"]
//
//	[[triggers]]
//	type = "event"
//	event = "message.created"
//
//	[[dependencies]]
//	name = "translator"
//	versionRange = "^2.0.0"
//	required = true
type Manifest struct {
	Name         string       `toml:"name"`
	Version      string       `toml:"version"`
	Description  string       `toml:"description,omitempty"`
	Tools        []string     `toml:"tools,omitempty"`
	Permissions  []string     `toml:"permissions,omitempty"`
	Triggers     []Trigger    `toml:"triggers,omitempty"`
	Dependencies []Dependency `toml:"dependencies,omitempty"`
}

// Trigger mirrors models.Trigger in TOML form.
type Trigger struct {
	Type  string `toml:"type"`
	Event string `toml:"event,omitempty"`
}

// Dependency mirrors models.Dependency in TOML form.
type Dependency struct {
	Name         string `toml:"name"`
	VersionRange string `toml:"versionRange,omitempty"`
	Required     bool   `toml:"required"`
	Description  string `toml:"description,omitempty"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates manifest bytes.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the fields publishing cannot proceed without.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest missing required field: name")
	}
	if m.Version == "" {
		return fmt.Errorf("manifest missing required field: version")
	}
	for i, dep := range m.Dependencies {
		if dep.Name == "" {
			return fmt.Errorf("manifest dependency %d missing required field: name", i)
		}
	}
	return nil
}

// Definition converts the manifest into a catalog definition. ID, PackageID,
// and timestamps are assigned by the catalog service.
func (m *Manifest) Definition() *models.Definition {
	def := &models.Definition{
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Tools:       m.Tools,
		Permissions: m.Permissions,
	}
	for _, t := range m.Triggers {
		def.Triggers = append(def.Triggers, models.Trigger{Type: t.Type, Event: t.Event})
	}
	for _, d := range m.Dependencies {
		def.Dependencies = append(def.Dependencies, models.Dependency{
			Name:         d.Name,
			VersionRange: d.VersionRange,
			Required:     d.Required,
			Description:  d.Description,
		})
	}
	return def
}
