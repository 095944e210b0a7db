package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	ErrNoSun         = errors.New("scene has no sun")
	ErrDuplicateSun  = errors.New("scene already has a sun")
	ErrSunNotFirst   = errors.New("first body must be the sun")
	ErrNoPlanet      = errors.New("moon has no preceding planet")
	ErrInvalidValue  = errors.New("invalid body value")
	ErrIndexOutRange = errors.New("body index out of range")
)

// Fixed camera aim and light placement
var (
	FocusPoint    = mgl32.Vec3{0, 0, 0}
	UpVector      = mgl32.Vec3{0, 1, 0}
	LightPosition = mgl32.Vec3{0, 0, 0}
)

// Camera is a static eye aimed at FocusPoint
type Camera struct {
	Position mgl32.Vec3 `yaml:"position,flow"`
}

// Focus returns the point the camera looks at
func (c Camera) Focus() mgl32.Vec3 { return FocusPoint }

// Up returns the camera's up vector
func (c Camera) Up() mgl32.Vec3 { return UpVector }

// Light is a point light at the origin with Phong coefficients.
// Attenuation is 1 / (1 + LinearAttenuation*d).
type Light struct {
	Color             mgl32.Vec3 `yaml:"color,flow"`
	Ambient           float32    `yaml:"ambient"`
	Diffuse           float32    `yaml:"diffuse"`
	Specular          float32    `yaml:"specular"`
	LinearAttenuation float32    `yaml:"linear_attenuation"`
}

// Position returns the light position, always the origin
func (l Light) Position() mgl32.Vec3 { return LightPosition }

// DefaultCamera and DefaultLight are used until the file header overrides them
func DefaultCamera() Camera {
	return Camera{Position: mgl32.Vec3{0, 0, 15}}
}

func DefaultLight() Light {
	return Light{
		Color:    mgl32.Vec3{1, 1, 1},
		Ambient:  0.1,
		Diffuse:  0.8,
		Specular: 0.5,
	}
}

// Scene is the parsed, validated set of bodies plus camera and light.
// Bodies keep insertion order, which is also draw order.
type Scene struct {
	camera Camera
	light  Light
	bodies []Body

	lastPlanet int
}

// New creates an empty scene with default camera and light
func New() *Scene {
	return &Scene{
		camera:     DefaultCamera(),
		light:      DefaultLight(),
		lastPlanet: NoParent,
	}
}

func (s *Scene) SetCamera(c Camera) { s.camera = c }
func (s *Scene) SetLight(l Light)   { s.light = l }
func (s *Scene) Camera() Camera     { return s.camera }
func (s *Scene) Light() Light       { return s.light }

// Len returns the number of bodies
func (s *Scene) Len() int { return len(s.bodies) }

// Body returns the body at index i. It panics if i is out of range.
func (s *Scene) Body(i int) Body {
	if i < 0 || i >= len(s.bodies) {
		panic(fmt.Errorf("%w: %d of %d", ErrIndexOutRange, i, len(s.bodies)))
	}
	return s.bodies[i]
}

// Bodies returns a copy of all bodies in index order
func (s *Scene) Bodies() []Body {
	out := make([]Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

// Sun returns the root body
func (s *Scene) Sun() (Body, bool) {
	if len(s.bodies) == 0 {
		return Body{}, false
	}
	return s.bodies[0], true
}

// Parent returns the index of body i's parent, NoParent for the sun
func (s *Scene) Parent(i int) int {
	return s.Body(i).Parent
}

// Children returns the indices of bodies whose parent is i
func (s *Scene) Children(i int) []int {
	var out []int
	for j, b := range s.bodies {
		if b.Parent == i {
			out = append(out, j)
		}
	}
	return out
}

// AddSun appends the root body. Kind, Parent, Distance and OrbitalPeriod are overwritten.
func (s *Scene) AddSun(b Body) (int, error) {
	if len(s.bodies) > 0 {
		return 0, ErrDuplicateSun
	}
	b.Kind = KindSun
	b.Parent = NoParent
	b.Distance = 0
	b.OrbitalPeriod = 0
	return s.add(b)
}

// AddPlanet appends a body orbiting the sun
func (s *Scene) AddPlanet(b Body) (int, error) {
	if len(s.bodies) == 0 {
		return 0, ErrSunNotFirst
	}
	b.Kind = KindPlanet
	b.Parent = 0
	i, err := s.add(b)
	if err != nil {
		return 0, err
	}
	s.lastPlanet = i
	return i, nil
}

// AddMoon appends a body orbiting the most recently added planet
func (s *Scene) AddMoon(b Body) (int, error) {
	if len(s.bodies) == 0 {
		return 0, ErrSunNotFirst
	}
	if s.lastPlanet == NoParent {
		return 0, ErrNoPlanet
	}
	b.Kind = KindMoon
	b.Parent = s.lastPlanet
	return s.add(b)
}

func (s *Scene) add(b Body) (int, error) {
	if err := checkValues(b); err != nil {
		return 0, err
	}
	s.bodies = append(s.bodies, b)
	return len(s.bodies) - 1, nil
}

// ValueError reports a body field outside its allowed range.
// It matches ErrInvalidValue with errors.Is.
type ValueError struct {
	Field  string // radius, rotation period, distance, orbital period, shininess
	Value  float32
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%v: %s %s, got %g", ErrInvalidValue, e.Field, e.Reason, e.Value)
}

func (e *ValueError) Is(target error) bool { return target == ErrInvalidValue }

func checkValues(b Body) error {
	fields := []struct {
		name string
		v    float32
	}{
		{"radius", b.Radius},
		{"rotation period", b.RotationPeriod},
		{"distance", b.Distance},
		{"orbital period", b.OrbitalPeriod},
		{"shininess", b.Shininess},
	}
	for _, f := range fields {
		if math.IsNaN(float64(f.v)) || math.IsInf(float64(f.v), 0) {
			return &ValueError{Field: f.name, Value: f.v, Reason: "must be finite"}
		}
	}
	if b.Radius <= 0 {
		return &ValueError{Field: "radius", Value: b.Radius, Reason: "must be positive"}
	}
	if b.Distance < 0 {
		return &ValueError{Field: "distance", Value: b.Distance, Reason: "must not be negative"}
	}
	if b.Shininess < 0 {
		return &ValueError{Field: "shininess", Value: b.Shininess, Reason: "must not be negative"}
	}
	return nil
}

// Validate checks the whole-scene invariants that can only be judged once input ends
func (s *Scene) Validate() error {
	if len(s.bodies) == 0 {
		return ErrNoSun
	}
	suns := 0
	for i, b := range s.bodies {
		switch b.Kind {
		case KindSun:
			suns++
			if i != 0 {
				return ErrSunNotFirst
			}
		case KindPlanet:
			if b.Parent != 0 {
				return fmt.Errorf("planet %d: parent %d is not the sun", i, b.Parent)
			}
		case KindMoon:
			if b.Parent < 0 || b.Parent >= i || s.bodies[b.Parent].Kind != KindPlanet {
				return fmt.Errorf("moon %d: %w", i, ErrNoPlanet)
			}
		}
	}
	if suns != 1 {
		return ErrDuplicateSun
	}
	return nil
}
