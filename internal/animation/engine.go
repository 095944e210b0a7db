// Package animation turns elapsed time into per-body transforms.
//
// For body i at time t:
//
//	orbit(i) = orbit(parent planet, moons only) · R_y(θ) · T(distance, 0, 0)
//	model(i) = orbit(i) · R_y(φ) · S(radius)
//	final(i) = view · model(i)
//
// where θ = 2π·t/orbitalPeriod and φ = 2π·t/rotationPeriod. Zero periods drop
// the matching terms. Children compose onto their parent's orbit transform
// only, so a planet's spin and size never leak into its moons.
package animation

import (
	"math"

	"solar-system/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

// MeshHandle identifies the shared mesh the renderer uploaded
type MeshHandle uint32

// Material is what the renderer needs to shade one body
type Material struct {
	TextureID string
	Shininess float32
}

// DrawCommand is one body's draw request for a frame
type DrawCommand struct {
	Body          int
	Mesh          MeshHandle
	Model         mgl32.Mat4 // world space
	ModelView     mgl32.Mat4 // view · model
	Material      Material
	IsLightSource bool
}

// Frame is everything a renderer needs for one frame
type Frame struct {
	Time     float64
	View     mgl32.Mat4
	Camera   scene.Camera
	Light    scene.Light
	Commands []DrawCommand
}

// Engine computes transforms for a fixed scene. It holds no per-frame state.
type Engine struct {
	scene *scene.Scene
	mesh  MeshHandle
	view  mgl32.Mat4
}

// NewEngine prepares an engine for sc, drawing every body with mesh
func NewEngine(sc *scene.Scene, mesh MeshHandle) *Engine {
	return &Engine{
		scene: sc,
		mesh:  mesh,
		view:  ViewMatrix(sc.Camera()),
	}
}

// ViewMatrix looks from the camera at its focus point
func ViewMatrix(c scene.Camera) mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Focus(), c.Up())
}

// View returns the static view matrix
func (e *Engine) View() mgl32.Mat4 { return e.view }

// Angle returns the revolution or spin angle 2π·t/period reduced to
// (-2π, 2π). A zero period yields 0.
func Angle(period float32, t float64) float32 {
	if period == 0 {
		return 0
	}
	return float32(math.Mod(2*math.Pi*t/float64(period), 2*math.Pi))
}

// OrbitTransform is body i's revolution without self-spin or scale.
// Moons start from their parent planet's orbit transform.
func (e *Engine) OrbitTransform(i int, t float64) mgl32.Mat4 {
	b := e.scene.Body(i)
	base := mgl32.Ident4()
	if b.Kind == scene.KindMoon {
		base = e.OrbitTransform(b.Parent, t)
	}
	return revolve(base, b, t)
}

func revolve(base mgl32.Mat4, b scene.Body, t float64) mgl32.Mat4 {
	if !b.Orbits() {
		return base
	}
	m := base.Mul4(mgl32.HomogRotate3DY(Angle(b.OrbitalPeriod, t)))
	return m.Mul4(mgl32.Translate3D(b.Distance, 0, 0))
}

// ModelTransform is body i's full world transform: orbit, spin in place, then scale
func (e *Engine) ModelTransform(i int, t float64) mgl32.Mat4 {
	return e.modelFromOrbit(i, e.OrbitTransform(i, t), t)
}

func (e *Engine) modelFromOrbit(i int, orbit mgl32.Mat4, t float64) mgl32.Mat4 {
	b := e.scene.Body(i)
	m := orbit
	if b.Spins() {
		m = m.Mul4(mgl32.HomogRotate3DY(Angle(b.RotationPeriod, t)))
	}
	return m.Mul4(mgl32.Scale3D(b.Radius, b.Radius, b.Radius))
}

// WorldPosition returns the centre of body i at time t
func (e *Engine) WorldPosition(i int, t float64) mgl32.Vec3 {
	return e.OrbitTransform(i, t).Col(3).Vec3()
}

// Transforms returns view · model for every body in index order
func (e *Engine) Transforms(t float64) []mgl32.Mat4 {
	models := e.models(t)
	out := make([]mgl32.Mat4, len(models))
	for i, m := range models {
		out[i] = e.view.Mul4(m)
	}
	return out
}

// Frame builds the draw commands for time t
func (e *Engine) Frame(t float64) Frame {
	models := e.models(t)
	cmds := make([]DrawCommand, len(models))
	for i, m := range models {
		b := e.scene.Body(i)
		cmds[i] = DrawCommand{
			Body:          i,
			Mesh:          e.mesh,
			Model:         m,
			ModelView:     e.view.Mul4(m),
			Material:      Material{TextureID: b.TextureID, Shininess: b.Shininess},
			IsLightSource: b.IsLightSource(),
		}
	}
	return Frame{
		Time:     t,
		View:     e.view,
		Camera:   e.scene.Camera(),
		Light:    e.scene.Light(),
		Commands: cmds,
	}
}

// models computes each orbit transform once; parents always precede their
// children so a moon can reuse its planet's result from this same pass.
func (e *Engine) models(t float64) []mgl32.Mat4 {
	n := e.scene.Len()
	orbits := make([]mgl32.Mat4, n)
	models := make([]mgl32.Mat4, n)
	for i := 0; i < n; i++ {
		b := e.scene.Body(i)
		base := mgl32.Ident4()
		if b.Kind == scene.KindMoon {
			base = orbits[b.Parent]
		}
		orbits[i] = revolve(base, b, t)
		models[i] = e.modelFromOrbit(i, orbits[i], t)
	}
	return models
}
