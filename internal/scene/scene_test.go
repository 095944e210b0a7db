package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(texture string, radius float32) Body {
	return Body{TextureID: texture, Radius: radius, Distance: 5, OrbitalPeriod: 10}
}

func TestHierarchyLinkage(t *testing.T) {
	s := New()
	sun, err := s.AddSun(Body{TextureID: "sun.jpg", Radius: 2, Distance: 9, OrbitalPeriod: 3})
	require.NoError(t, err)
	earth, err := s.AddPlanet(body("earth.jpg", 1))
	require.NoError(t, err)
	moon, err := s.AddMoon(body("moon.jpg", 0.3))
	require.NoError(t, err)
	mars, err := s.AddPlanet(body("mars.jpg", 0.8))
	require.NoError(t, err)
	phobos, err := s.AddMoon(body("phobos.jpg", 0.1))
	require.NoError(t, err)
	deimos, err := s.AddMoon(body("deimos.jpg", 0.1))
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, []int{sun, earth, moon, mars, phobos, deimos})
	assert.Equal(t, NoParent, s.Parent(sun))
	assert.Equal(t, sun, s.Parent(earth))
	assert.Equal(t, earth, s.Parent(moon))
	assert.Equal(t, sun, s.Parent(mars))
	assert.Equal(t, mars, s.Parent(phobos))
	assert.Equal(t, mars, s.Parent(deimos), "second moon must not chain onto the first moon")
	assert.Equal(t, []int{phobos, deimos}, s.Children(mars))
	require.NoError(t, s.Validate())

	// the sun never orbits, whatever the caller passed
	b := s.Body(sun)
	assert.Equal(t, KindSun, b.Kind)
	assert.Zero(t, b.Distance)
	assert.Zero(t, b.OrbitalPeriod)
}

func TestStructuralErrors(t *testing.T) {
	s := New()
	_, err := s.AddPlanet(body("earth.jpg", 1))
	assert.ErrorIs(t, err, ErrSunNotFirst)

	_, err = s.AddSun(Body{TextureID: "sun.jpg", Radius: 1})
	require.NoError(t, err)
	_, err = s.AddMoon(body("moon.jpg", 1))
	assert.ErrorIs(t, err, ErrNoPlanet)

	_, err = s.AddSun(Body{TextureID: "sun2.jpg", Radius: 1})
	assert.ErrorIs(t, err, ErrDuplicateSun)

	assert.ErrorIs(t, New().Validate(), ErrNoSun)
}

func TestInvalidValues(t *testing.T) {
	cases := map[string]struct {
		body  Body
		field string
	}{
		"zero radius":        {Body{Radius: 0}, "radius"},
		"negative radius":    {Body{Radius: -1}, "radius"},
		"negative distance":  {Body{Radius: 1, Distance: -2}, "distance"},
		"negative shininess": {Body{Radius: 1, Shininess: -1}, "shininess"},
		"nan rotation":       {Body{Radius: 1, RotationPeriod: float32(math.NaN())}, "rotation period"},
		"inf orbit":          {Body{Radius: 1, OrbitalPeriod: float32(math.Inf(1))}, "orbital period"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			s := New()
			_, err := s.AddSun(Body{Radius: 1})
			require.NoError(t, err)
			_, err = s.AddPlanet(c.body)
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("got %v, want ErrInvalidValue", err)
			}
			var ve *ValueError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, c.field, ve.Field)
			if s.Len() != 1 {
				t.Fatalf("rejected body was stored: len %d", s.Len())
			}
		})
	}
}

func TestBodiesReturnsCopy(t *testing.T) {
	s := New()
	_, err := s.AddSun(Body{TextureID: "sun.jpg", Radius: 1})
	require.NoError(t, err)
	bs := s.Bodies()
	bs[0].Radius = 42
	assert.Equal(t, float32(1), s.Body(0).Radius)
}

func TestBodyIndexPanics(t *testing.T) {
	assert.Panics(t, func() { New().Body(0) })
}

func TestKindText(t *testing.T) {
	for _, k := range []Kind{KindSun, KindPlanet, KindMoon} {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var got Kind
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, k, got)
	}
	var k Kind
	assert.Error(t, k.UnmarshalText([]byte("comet")))
}

func TestDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, float32(15), s.Camera().Position.Z())
	assert.Equal(t, float32(0.1), s.Light().Ambient)
	assert.Equal(t, LightPosition, s.Light().Position())
	assert.Equal(t, UpVector, s.Camera().Up())
}
