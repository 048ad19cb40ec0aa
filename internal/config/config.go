// Package config provides YAML-based game configuration loading and
// difficulty presets.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// BlockfallConfig contains all configuration for the falling-block game.
type BlockfallConfig struct {
	Board   BoardConfig   `yaml:"board"`
	Gravity GravityConfig `yaml:"gravity"`
	Preview PreviewConfig `yaml:"preview"`
}

// BoardConfig defines the well dimensions in cells.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// GravityConfig defines automatic descent timing.
type GravityConfig struct {
	Pace float64 `yaml:"pace"` // Seconds between automatic one-row descents
}

// PreviewConfig defines the upcoming-pieces panel.
type PreviewConfig struct {
	Count int `yaml:"count"` // Number of upcoming pieces shown, 0 hides the panel
}

// Limits enforced by Validate. The smallest well must still fit the
// tallest piece; the widest must fit an 80-column terminal at two
// characters per cell next to the side panels.
const (
	MinRows         = 4
	MaxRows         = 40
	MinCols         = 4
	MaxCols         = 20
	MaxPreviewCount = 6
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks that the configuration describes a playable game.
func (c BlockfallConfig) Validate() error {
	var problems []string

	if c.Board.Rows < MinRows || c.Board.Rows > MaxRows {
		problems = append(problems, fmt.Sprintf("board.rows %d not in [%d, %d]", c.Board.Rows, MinRows, MaxRows))
	}
	if c.Board.Cols < MinCols || c.Board.Cols > MaxCols {
		problems = append(problems, fmt.Sprintf("board.cols %d not in [%d, %d]", c.Board.Cols, MinCols, MaxCols))
	}
	if p := c.Gravity.Pace; math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		problems = append(problems, fmt.Sprintf("gravity.pace %v must be positive and finite", p))
	}
	if c.Preview.Count < 0 || c.Preview.Count > MaxPreviewCount {
		problems = append(problems, fmt.Sprintf("preview.count %d not in [0, %d]", c.Preview.Count, MaxPreviewCount))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DifficultyPreset represents a named gravity setting.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Keep the configured pace
)

// Presets lists the accepted preset names in display order.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}
}

// ParsePreset converts a flag value into a preset. The empty string means
// DifficultyFixed.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyFixed, nil
	}
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets() {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// PaceForPreset returns the gravity pace for a preset, or ok=false for
// DifficultyFixed.
func PaceForPreset(preset DifficultyPreset) (pace float64, ok bool) {
	switch preset {
	case DifficultyEasy:
		return 0.8, true
	case DifficultyNormal:
		return 0.5, true
	case DifficultyHard:
		return 0.25, true
	default:
		return 0, false
	}
}
