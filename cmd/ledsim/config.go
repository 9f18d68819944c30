package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"ledcode-go/types"
)

// defaultYAML mirrors the embedded "pico" device config.
const defaultYAML = `
sim:
  cell_width: 2
  state_dir: .ledsim
strip:
  pixels: 60
  order: grbw
led:
  brightness: 200
  gradient_mode: linear_padding
  effect_active: true
console:
  echo: false
bridge:
  rgbw: true
heartbeat:
  interval: 10
`

type simOptions struct {
	CellWidth int    `yaml:"cell_width"`
	StateDir  string `yaml:"state_dir"` // empty keeps settings in memory
}

// simConfig is the typed view of the file the simulator needs itself.
// Every top-level key is also published as config/<key>.
type simConfig struct {
	Sim   simOptions        `yaml:"sim"`
	Strip types.StripConfig `yaml:"strip"`

	raw map[string]any
}

func parseConfig(b []byte) (*simConfig, error) {
	cfg := &simConfig{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(b, &cfg.raw); err != nil {
		return nil, err
	}
	delete(cfg.raw, "sim")
	if cfg.Strip.Pixels <= 0 {
		cfg.Strip.Pixels = 60
	}
	if cfg.Sim.CellWidth <= 0 {
		cfg.Sim.CellWidth = 1
	}
	return cfg, nil
}

func loadConfig(path string) (*simConfig, error) {
	if path == "" {
		return parseConfig([]byte(defaultYAML))
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseConfig(b)
}
