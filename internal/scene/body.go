package scene

import (
	"fmt"
	"strings"
)

// Kind identifies a celestial body's place in the hierarchy
type Kind int

const (
	KindSun Kind = iota
	KindPlanet
	KindMoon
)

// NoParent is the parent index of the sun
const NoParent = -1

func (k Kind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindPlanet:
		return "planet"
	case KindMoon:
		return "moon"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText lets Kind appear as a word in YAML/TOML output
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the names produced by MarshalText
func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sun":
		*k = KindSun
	case "planet":
		*k = KindPlanet
	case "moon":
		*k = KindMoon
	default:
		return fmt.Errorf("unknown body kind %q", text)
	}
	return nil
}

// Body is one sun, planet or moon
type Body struct {
	Kind      Kind   `yaml:"kind"`
	TextureID string `yaml:"texture"`

	Radius         float32 `yaml:"radius"`
	RotationPeriod float32 `yaml:"rotation_period"` // 0 = no self-spin, sign = direction
	Distance       float32 `yaml:"distance"`        // from parent
	OrbitalPeriod  float32 `yaml:"orbital_period"`  // 0 = no revolution
	Shininess      float32 `yaml:"shininess"`

	// Parent is the index of the owning body, NoParent for the sun
	Parent int `yaml:"parent"`

	// Line is the 1-based source line, 0 when built in code
	Line int `yaml:"line,omitempty"`
}

// IsLightSource reports whether the body emits the scene light
func (b Body) IsLightSource() bool {
	return b.Kind == KindSun
}

// Orbits reports whether the body revolves around its parent
func (b Body) Orbits() bool {
	return b.OrbitalPeriod != 0
}

// Spins reports whether the body rotates about its own axis
func (b Body) Spins() bool {
	return b.RotationPeriod != 0
}
