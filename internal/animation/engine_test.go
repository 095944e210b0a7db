package animation

import (
	"math"
	"testing"

	"solar-system/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const eps = 1e-4

func buildScene(t testing.TB, camera mgl32.Vec3, planets ...[]scene.Body) *scene.Scene {
	t.Helper()
	sc := scene.New()
	sc.SetCamera(scene.Camera{Position: camera})
	if _, err := sc.AddSun(scene.Body{TextureID: "sun", Radius: 2, RotationPeriod: 25}); err != nil {
		t.Fatalf("add sun: %v", err)
	}
	for _, group := range planets {
		if _, err := sc.AddPlanet(group[0]); err != nil {
			t.Fatalf("add planet: %v", err)
		}
		for _, moon := range group[1:] {
			if _, err := sc.AddMoon(moon); err != nil {
				t.Fatalf("add moon: %v", err)
			}
		}
	}
	return sc
}

// assertVec compares with an absolute tolerance
func assertVec(t *testing.T, what string, got, want mgl32.Vec3) {
	t.Helper()
	if got.Sub(want).Len() > eps {
		t.Fatalf("%s: got %v, want %v", what, got, want)
	}
}

func matClose(a, b mgl32.Mat4) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > eps {
			return false
		}
	}
	return true
}

func TestSunStaysAtOrigin(t *testing.T) {
	sc := buildScene(t, mgl32.Vec3{0, 0, 15})
	e := NewEngine(sc, 1)
	for _, tm := range []float64{0, 0.5, 3, 1234.5} {
		if got := e.OrbitTransform(0, tm); got != mgl32.Ident4() {
			t.Fatalf("t=%v: sun orbit transform %v, want identity", tm, got)
		}
		assertVec(t, "sun position", e.WorldPosition(0, tm), mgl32.Vec3{})
	}
}

func TestZeroOrbitalPeriodIsIdentityTranslation(t *testing.T) {
	still := scene.Body{TextureID: "p", Radius: 1, Distance: 7, RotationPeriod: 3}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{still}), 1)
	for _, tm := range []float64{0, 1, 2.5, 99} {
		assertVec(t, "non-orbiting planet", e.WorldPosition(1, tm), mgl32.Vec3{})
	}
}

func TestFullPeriodWrapsAround(t *testing.T) {
	a0 := float64(Angle(10, 0))
	a10 := float64(Angle(10, 10))
	if math.Abs(math.Sin(a0)-math.Sin(a10)) > eps || math.Abs(math.Cos(a0)-math.Cos(a10)) > eps {
		t.Fatalf("angle at 10 (%v) differs from angle at 0 (%v) modulo 2π", a10, a0)
	}

	planet := scene.Body{TextureID: "p", Radius: 1, Distance: 5, OrbitalPeriod: 10}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{planet}), 1)
	assertVec(t, "t=0", e.WorldPosition(1, 0), mgl32.Vec3{5, 0, 0})
	assertVec(t, "t=10", e.WorldPosition(1, 10), mgl32.Vec3{5, 0, 0})
	assertVec(t, "t=1000", e.WorldPosition(1, 1000), mgl32.Vec3{5, 0, 0})
	// a quarter turn about +Y carries +X to -Z
	assertVec(t, "t=2.5", e.WorldPosition(1, 2.5), mgl32.Vec3{0, 0, -5})
}

func TestAngle(t *testing.T) {
	tests := []struct {
		period float32
		t      float64
		want   float64
	}{
		{0, 5, 0},
		{4, 1, math.Pi / 2},
		{4, 5, math.Pi / 2},
		{-4, 1, -math.Pi / 2},
		{8, 2, math.Pi / 2},
	}
	for _, tt := range tests {
		got := float64(Angle(tt.period, tt.t))
		if math.Abs(got-tt.want) > eps {
			t.Errorf("Angle(%v, %v): got %v, want %v", tt.period, tt.t, got, tt.want)
		}
	}
}

func TestMoonOrbitsParentPlanet(t *testing.T) {
	planet := scene.Body{TextureID: "earth", Radius: 4, RotationPeriod: 3, Distance: 5, OrbitalPeriod: 10}
	moon := scene.Body{TextureID: "moon", Radius: 0.5, Distance: 2, OrbitalPeriod: 4}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{planet, moon}), 1)

	// planet offset (5,0,0) at t=0: the moon circles that point, not the origin
	assertVec(t, "moon at t=0", e.WorldPosition(2, 0), mgl32.Vec3{7, 0, 0})

	// planet spin and radius must not leak into the moon's orbit
	for _, tm := range []float64{0.3, 1, 2.7, 6} {
		p := e.WorldPosition(1, tm)
		m := e.WorldPosition(2, tm)
		theta := float64(Angle(10, tm)) + float64(Angle(4, tm))
		want := p.Add(mgl32.Vec3{
			float32(2 * math.Cos(theta)),
			0,
			float32(-2 * math.Sin(theta)),
		})
		assertVec(t, "moon position", m, want)
	}
}

func TestMoonUsesOwnPeriod(t *testing.T) {
	planet := scene.Body{TextureID: "earth", Radius: 1, Distance: 5, OrbitalPeriod: 10}
	moon := scene.Body{TextureID: "moon", Radius: 0.5, Distance: 2, OrbitalPeriod: 4}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{planet, moon}), 1)

	// after one moon period the moon is back on the planet's +X side in the
	// planet's orbital frame, even though the planet has only done 40% of its orbit
	rel := e.OrbitTransform(1, 4).Inv().Mul4(e.OrbitTransform(2, 4)).Col(3).Vec3()
	assertVec(t, "moon relative to planet", rel, mgl32.Vec3{2, 0, 0})
}

func TestSecondMoonSharesPlanet(t *testing.T) {
	planet := scene.Body{TextureID: "mars", Radius: 1, Distance: 10, OrbitalPeriod: 20}
	phobos := scene.Body{TextureID: "phobos", Radius: 0.1, Distance: 1, OrbitalPeriod: 2}
	deimos := scene.Body{TextureID: "deimos", Radius: 0.1, Distance: 3, OrbitalPeriod: 6}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{planet, phobos, deimos}), 1)

	for _, tm := range []float64{0, 1.3, 7} {
		p := e.WorldPosition(1, tm)
		d := e.WorldPosition(3, tm).Sub(p).Len()
		if math.Abs(float64(d)-3) > eps {
			t.Fatalf("t=%v: deimos is %v from mars, want 3", tm, d)
		}
	}
}

func TestSpinHappensInPlace(t *testing.T) {
	planet := scene.Body{TextureID: "p", Radius: 2, RotationPeriod: 3, Distance: 5, OrbitalPeriod: 10}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{planet}), 1)
	for _, tm := range []float64{0, 0.75, 4} {
		model := e.ModelTransform(1, tm)
		assertVec(t, "model origin", model.Col(3).Vec3(), e.WorldPosition(1, tm))
		// a point on the unit sphere ends up radius away from the centre
		surface := model.Mul4x1(mgl32.Vec4{0, 1, 0, 1}).Vec3()
		if d := surface.Sub(e.WorldPosition(1, tm)).Len(); math.Abs(float64(d)-2) > eps {
			t.Fatalf("t=%v: surface distance %v, want 2", tm, d)
		}
	}
}

func TestSpinDirectionFollowsSign(t *testing.T) {
	pro := scene.Body{TextureID: "a", Radius: 1, RotationPeriod: 4}
	retro := scene.Body{TextureID: "b", Radius: 1, RotationPeriod: -4}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}, []scene.Body{pro}, []scene.Body{retro}), 1)
	x := mgl32.Vec4{1, 0, 0, 1}
	assertVec(t, "prograde", e.ModelTransform(1, 1).Mul4x1(x).Vec3(), mgl32.Vec3{0, 0, -1})
	assertVec(t, "retrograde", e.ModelTransform(2, 1).Mul4x1(x).Vec3(), mgl32.Vec3{0, 0, 1})
}

func TestTransformsAreDeterministic(t *testing.T) {
	planet := scene.Body{TextureID: "earth", Radius: 1, RotationPeriod: 1, Distance: 8, OrbitalPeriod: 36.5}
	moon := scene.Body{TextureID: "moon", Radius: 0.3, RotationPeriod: 27, Distance: 2, OrbitalPeriod: 2.7}
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 12, 30}, []scene.Body{planet, moon}), 1)

	a := e.Transforms(17.25)
	b := e.Transforms(17.25)
	if len(a) != 3 {
		t.Fatalf("got %d transforms, want 3", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("body %d: repeated call differs", i)
		}
		want := e.View().Mul4(e.ModelTransform(i, 17.25))
		if !matClose(a[i], want) {
			t.Fatalf("body %d: Transforms disagrees with ModelTransform", i)
		}
	}
}

func TestViewLooksAtOrigin(t *testing.T) {
	e := NewEngine(buildScene(t, mgl32.Vec3{0, 0, 15}), 1)
	focus := e.View().Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	assertVec(t, "focus in view space", focus, mgl32.Vec3{0, 0, -15})
}

func TestFrameCommands(t *testing.T) {
	planet := scene.Body{TextureID: "earth", Radius: 1, Distance: 8, OrbitalPeriod: 10, Shininess: 32}
	moon := scene.Body{TextureID: "moon", Radius: 0.3, Distance: 2, OrbitalPeriod: 3, Shininess: 8}
	sc := buildScene(t, mgl32.Vec3{0, 5, 20}, []scene.Body{planet, moon})
	e := NewEngine(sc, 7)

	f := e.Frame(3.5)
	if f.Time != 3.5 {
		t.Fatalf("frame time: got %v, want 3.5", f.Time)
	}
	if len(f.Commands) != sc.Len() {
		t.Fatalf("got %d commands, want %d", len(f.Commands), sc.Len())
	}
	for i, c := range f.Commands {
		if c.Body != i || c.Mesh != 7 {
			t.Fatalf("command %d: body %d mesh %d", i, c.Body, c.Mesh)
		}
		if c.IsLightSource != (i == 0) {
			t.Fatalf("command %d: light source %v", i, c.IsLightSource)
		}
		if c.Material.TextureID != sc.Body(i).TextureID || c.Material.Shininess != sc.Body(i).Shininess {
			t.Fatalf("command %d: material %+v", i, c.Material)
		}
		if !matClose(c.ModelView, f.View.Mul4(c.Model)) {
			t.Fatalf("command %d: model-view is not view · model", i)
		}
	}
	if f.Light != sc.Light() || f.Camera != sc.Camera() {
		t.Fatalf("frame light/camera do not match the scene")
	}
}

func BenchmarkFrame(b *testing.B) {
	groups := make([][]scene.Body, 0, 8)
	for i := 0; i < 8; i++ {
		groups = append(groups, []scene.Body{
			{TextureID: "p", Radius: 1, RotationPeriod: 1, Distance: float32(5 + i*3), OrbitalPeriod: float32(10 + i)},
			{TextureID: "m", Radius: 0.2, RotationPeriod: 2, Distance: 1, OrbitalPeriod: 2},
		})
	}
	e := NewEngine(buildScene(b, mgl32.Vec3{0, 10, 40}, groups...), 1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Frame(float64(i) * 0.016)
	}
}
