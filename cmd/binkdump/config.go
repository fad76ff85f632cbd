package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/binkcore/bink1/internal/container"
)

// config holds the decode subcommand's options, settable from either a
// --config YAML file or the matching per-command flag.
type config struct {
	Mode   string `yaml:"mode"`   // "minimal", "supported", or "pedantic"
	OutDir string `yaml:"outDir"` // directory raw planar/PCM output is written under
	Tracks []int  `yaml:"tracks"` // audio track indices to decode; empty means all
	Quiet  bool   `yaml:"quiet"`  // suppress the progress bar
}

func loadConfig(path string) (*config, error) {
	cfg := &config{Mode: "supported"}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *config) validationMode() (container.ValidationMode, error) {
	switch c.Mode {
	case "", "supported":
		return container.Supported, nil
	case "minimal":
		return container.Minimal, nil
	case "pedantic":
		return container.Pedantic, nil
	default:
		return 0, errUnknownMode(c.Mode)
	}
}

type errUnknownMode string

func (e errUnknownMode) Error() string { return "binkdump: unknown validation mode " + string(e) }
