package config

import (
	"fmt"

	toml "github.com/pelletier/go-toml"
	yaml "gopkg.in/yaml.v3"
)

// RenderSample marshals BuildSampleMap() into the requested format, backing
// the --sample-config flag (spec.md §6, SPEC_FULL.md §2.2).
func RenderSample(format string) ([]byte, error) {
	root := BuildSampleMap()
	switch format {
	case "", "toml":
		return toml.Marshal(root)
	case "yaml", "yml":
		return yaml.Marshal(root)
	default:
		return nil, fmt.Errorf("config: unsupported sample format %q", format)
	}
}
