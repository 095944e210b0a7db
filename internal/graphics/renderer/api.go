package renderer

import "solar-system/internal/animation"

// Renderer draws one animation frame per call. All methods run on the GL thread.
type Renderer interface {
	Init() error
	Render(frame animation.Frame)
	SetViewport(width, height int)
	Dispose()
}

// TextureSource resolves a body's texture ID to a GL texture name
type TextureSource interface {
	Texture(id string) (uint32, bool)
}
