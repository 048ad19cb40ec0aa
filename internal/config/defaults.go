package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

// DefaultBlockfallConfig returns the hardcoded configuration used when no
// YAML source can be read.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Board: BoardConfig{
			Rows: 20,
			Cols: 10,
		},
		Gravity: GravityConfig{
			Pace: 0.5,
		},
		Preview: PreviewConfig{
			Count: 3,
		},
	}
}

// DefaultYAML returns the embedded default YAML, e.g. for `blockfall config`
// style dumps or as a template for user files.
func DefaultYAML() []byte {
	return defaultBlockfallYAML
}
