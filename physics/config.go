package physics

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Config holds the physics parameters of a simulation
type Config struct {
	Width  float64 `json:"width" yaml:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" yaml:"height" toml:"height" validate:"gt=0"`

	LinkDistance        float64 `json:"link_distance" yaml:"link_distance" toml:"link_distance" validate:"gt=0"`
	ChargeStrength      float64 `json:"charge_strength" yaml:"charge_strength" toml:"charge_strength" validate:"lte=0"`
	ChargeDistanceMin   float64 `json:"charge_distance_min" yaml:"charge_distance_min" toml:"charge_distance_min" validate:"gt=0"`
	Theta               float64 `json:"theta" yaml:"theta" toml:"theta" validate:"gte=0,lte=2"`
	CenterStrength      float64 `json:"center_strength" yaml:"center_strength" toml:"center_strength" validate:"gte=0,lte=1"`
	GravityStrength     float64 `json:"gravity_strength" yaml:"gravity_strength" toml:"gravity_strength" validate:"gte=0,lte=1"`
	CollisionPadding    float64 `json:"collision_padding" yaml:"collision_padding" toml:"collision_padding" validate:"gte=0"`
	CollisionIterations int     `json:"collision_iterations" yaml:"collision_iterations" toml:"collision_iterations" validate:"gte=0,lte=32"`

	VelocityDecay   float64 `json:"velocity_decay" yaml:"velocity_decay" toml:"velocity_decay" validate:"gte=0,lt=1"`
	AlphaMin        float64 `json:"alpha_min" yaml:"alpha_min" toml:"alpha_min" validate:"gt=0,lt=1"`
	AlphaDecay      float64 `json:"alpha_decay" yaml:"alpha_decay" toml:"alpha_decay" validate:"gt=0,lt=1"`
	DragAlphaTarget float64 `json:"drag_alpha_target" yaml:"drag_alpha_target" toml:"drag_alpha_target" validate:"gt=0,lte=1"`

	InitialRadius float64 `json:"initial_radius" yaml:"initial_radius" toml:"initial_radius" validate:"gt=0"`
	Seed          int64   `json:"seed" yaml:"seed" toml:"seed"`
}

// DefaultConfig returns the stock parameters. The collision radius of a node
// is its visual radius plus CollisionPadding, one consistent ratio for every
// node type.
func DefaultConfig() Config {
	alphaMin := 0.001
	return Config{
		Width:               800,
		Height:              600,
		LinkDistance:        100,
		ChargeStrength:      -20000,
		ChargeDistanceMin:   10,
		Theta:               0.9,
		CenterStrength:      1,
		GravityStrength:     0.03,
		CollisionPadding:    6,
		CollisionIterations: 4,
		VelocityDecay:       0.4,
		AlphaMin:            alphaMin,
		AlphaDecay:          DecayFor(alphaMin, 300),
		DragAlphaTarget:     0.3,
		InitialRadius:       10,
		Seed:                1,
	}
}

// DecayFor returns the alpha decay rate that takes alpha from 1 to alphaMin
// in the given number of ticks
func DecayFor(alphaMin float64, ticks int) float64 {
	return 1 - math.Pow(alphaMin, 1/float64(ticks))
}

// Validate checks the parameter ranges
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid physics config: %w", err)
	}
	return nil
}

// Center is the canvas center the centering and gravity forces pull toward
func (c Config) Center() Vector {
	return Vector{X: c.Width / 2, Y: c.Height / 2}
}
