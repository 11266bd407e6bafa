package layout

import (
	"math"

	"github.com/notationkit/stave/pkg/errors"
)

// Default configuration values, in logical units.
const (
	DefaultMaxSystemWidth = 800.0
	DefaultUnitsPerSpace  = 10.0
	DefaultSystemSpacing  = 150.0
	DefaultSystemHeight   = 200.0
)

// Config controls the overall geometry of a layout. The zero value is
// valid: zero fields take their documented defaults, so callers only
// set what they want to override.
type Config struct {
	// MaxSystemWidth is the width at which the line breaker wraps to a
	// new system.
	MaxSystemWidth float64 `json:"max_system_width" bson:"max_system_width" toml:"max_system_width"`

	// UnitsPerSpace is the number of logical units per staff space and
	// the single scale factor for all engraving dimensions.
	UnitsPerSpace float64 `json:"units_per_space" bson:"units_per_space" toml:"units_per_space"`

	// SystemSpacing is the vertical gap between consecutive systems.
	SystemSpacing float64 `json:"system_spacing" bson:"system_spacing" toml:"system_spacing"`

	// SystemHeight is the height of each system's bounding box.
	SystemHeight float64 `json:"system_height" bson:"system_height" toml:"system_height"`
}

// DefaultConfig returns a Config with every field set to its default.
func DefaultConfig() Config {
	return Config{
		MaxSystemWidth: DefaultMaxSystemWidth,
		UnitsPerSpace:  DefaultUnitsPerSpace,
		SystemSpacing:  DefaultSystemSpacing,
		SystemHeight:   DefaultSystemHeight,
	}
}

// Validated fills defaults for zero fields and rejects everything else
// that is not a positive finite number.
func (c Config) Validated() (Config, error) {
	fields := []struct {
		name  string
		value *float64
		def   float64
	}{
		{"max_system_width", &c.MaxSystemWidth, DefaultMaxSystemWidth},
		{"units_per_space", &c.UnitsPerSpace, DefaultUnitsPerSpace},
		{"system_spacing", &c.SystemSpacing, DefaultSystemSpacing},
		{"system_height", &c.SystemHeight, DefaultSystemHeight},
	}
	for _, f := range fields {
		v := *f.value
		if v == 0 {
			*f.value = f.def
			continue
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return Config{}, errors.New(errors.ErrCodeInvalidConfig,
				"%s must be a positive number, got %v", f.name, v)
		}
	}
	return c, nil
}
