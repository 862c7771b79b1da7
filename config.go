package main

import (
	"fmt"
	"io/fs"

	"code.rocketnine.space/tslocum/tilesprite/asset"
	"gopkg.in/yaml.v3"
)

// viewerConfig is the viewer section of the manifest. Every name is resolved
// through the asset cache, so region specifiers may be used for tiles.
type viewerConfig struct {
	TileSize int      `yaml:"tile_size"`
	Floor    []string `yaml:"floor"`
	Wall     []string `yaml:"wall"`
	Chrome   string   `yaml:"chrome"`

	Creep animationConfig `yaml:"creep"`
	Spawn animationConfig `yaml:"spawn"`

	SpawnSound  string  `yaml:"spawn_sound"`
	SoundVolume float64 `yaml:"sound_volume"`
}

type animationConfig struct {
	Frames  []string `yaml:"frames"`
	Speed   int      `yaml:"speed"`
	Loop    bool     `yaml:"loop"`
	OffsetX float64  `yaml:"offset_x"`
	OffsetY float64  `yaml:"offset_y"`
}

func loadConfig(fsys fs.FS, name string) (*asset.Manifest, *viewerConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	manifest, err := asset.ParseManifest(data)
	if err != nil {
		return nil, nil, err
	}

	var file struct {
		Viewer viewerConfig `yaml:"viewer"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse viewer config: %w", err)
	}

	if len(manifest.SearchPaths) == 0 {
		manifest.SearchPaths = []string{""}
	}

	cfg := &file.Viewer
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	if cfg.SoundVolume <= 0 {
		cfg.SoundVolume = 0.5
	}
	if len(cfg.Floor) == 0 {
		return nil, nil, fmt.Errorf("manifest lists no floor tiles")
	}
	return manifest, cfg, nil
}
