package graphics

import (
	"github.com/go-gl/mathgl/mgl32"

	"solar-system/internal/config"
)

// Camera holds the projection parameters. The view matrix comes from the scene.
type Camera struct {
	AspectRatio float32
	FOV         float32
	NearPlane   float32
	FarPlane    float32
}

// NewCamera builds a camera for a width x height framebuffer
func NewCamera(width, height int, s config.Settings) *Camera {
	c := &Camera{
		FOV:       s.FOV,
		NearPlane: s.NearPlane,
		FarPlane:  s.FarPlane,
	}
	c.SetViewport(width, height)
	return c
}

// SetViewport updates the aspect ratio; a zero height (minimised window) is ignored
func (c *Camera) SetViewport(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
}

// ProjectionMatrix returns the perspective projection
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.AspectRatio, c.NearPlane, c.FarPlane)
}

// NormalMatrix is the inverse transpose of the upper 3x3 of modelView
func NormalMatrix(modelView mgl32.Mat4) mgl32.Mat3 {
	return modelView.Mat3().Inv().Transpose()
}
