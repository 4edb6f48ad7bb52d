package asset

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
)

// Manifest lists the assets of a game as name -> source, per kind.
//
//	images:
//	  hero: img/hero.png
//	sounds:
//	  jump: sfx/jump.wav
//	data:
//	  level1: levels/1.json
type Manifest struct {
	Images map[string]string `yaml:"images"`
	Sounds map[string]string `yaml:"sounds"`
	Data   map[string]string `yaml:"data"`
}

func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	for section, entries := range map[string]map[string]string{"images": m.Images, "sounds": m.Sounds, "data": m.Data} {
		for name, src := range entries {
			if strings.TrimSpace(src) == "" {
				return Manifest{}, fmt.Errorf("parsing manifest: %s.%s has no source", section, name)
			}
		}
	}
	return m, nil
}

// Len returns the number of entries in the manifest.
func (m Manifest) Len() int {
	return len(m.Images) + len(m.Sounds) + len(m.Data)
}

// Ops turns m into load operations: images, then sounds, then data, each
// section ordered by name. Data sources ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func (l *Loader) Ops(m Manifest) []Op {
	ops := make([]Op, 0, m.Len())
	for _, name := range sortedKeys(m.Images) {
		ops = append(ops, l.Image(name, m.Images[name]))
	}
	for _, name := range sortedKeys(m.Sounds) {
		ops = append(ops, l.Sound(name, m.Sounds[name]))
	}
	for _, name := range sortedKeys(m.Data) {
		src := m.Data[name]
		switch strings.ToLower(path.Ext(src)) {
		case ".yaml", ".yml":
			ops = append(ops, l.YAML(name, src))
		default:
			ops = append(ops, l.JSON(name, src))
		}
	}
	return ops
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
