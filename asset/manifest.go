package asset

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Manifest lists search paths and assets to preload.
//
//	search_paths:
//	  - gfx/
//	  - sfx/
//	assets:
//	  - name: ui/frame.png
//	    locked: true
//	  - name: step.wav
//	    kind: sound
type Manifest struct {
	SearchPaths []string        `yaml:"search_paths"`
	Assets      []ManifestEntry `yaml:"assets"`
}

// ManifestEntry is a single asset to preload.
type ManifestEntry struct {
	Name   string `yaml:"name"`
	Kind   Kind   `yaml:"kind"`
	Locked bool   `yaml:"locked"`
}

// ParseManifest decodes a manifest from YAML. Unknown top level keys are
// ignored so a manifest may share a file with other configuration.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	for i, e := range m.Assets {
		if e.Name == "" {
			return nil, fmt.Errorf("manifest asset %d: missing name", i)
		}
	}
	return &m, nil
}

// LoadManifest reads and decodes the manifest stored at name in fsys.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Apply adds the manifest search paths to the cache and resolves every listed
// asset, locking those marked locked. It returns the names that could not be
// resolved.
func (c *Cache) Apply(m *Manifest) []string {
	if m == nil {
		return nil
	}
	for _, p := range m.SearchPaths {
		c.AddSearchPath(p)
	}

	var missing []string
	for _, e := range m.Assets {
		var data Data
		if e.Locked {
			data = c.ResolveLocked(e.Name, e.Kind)
		} else {
			data = c.Resolve(e.Name, e.Kind)
		}
		if data == nil {
			missing = append(missing, e.Name)
		}
	}
	c.log.Info().Int("assets", len(m.Assets)).Int("missing", len(missing)).Msg("applied manifest")
	return missing
}
