package graphics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"

	"solar-system/internal/assets"
)

// TextureManager owns the GL textures of a scene, keyed by texture ID
type TextureManager struct {
	mu       sync.RWMutex
	textures map[string]uint32
	resolver assets.Resolver
}

// NewTextureManager creates an empty manager resolving IDs through r
func NewTextureManager(r assets.Resolver) *TextureManager {
	return &TextureManager{textures: make(map[string]uint32), resolver: r}
}

// Preload decodes ids in parallel and uploads them on the calling (GL) thread
func (m *TextureManager) Preload(ctx context.Context, ids []string) error {
	decoded, err := assets.DecodeAll(ctx, m.resolver, ids)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tex := range decoded {
		if _, ok := m.textures[tex.ID]; ok {
			continue
		}
		m.textures[tex.ID] = UploadTexture(tex.Pixels)
		slog.Debug("texture uploaded", "id", tex.ID, "path", tex.Path, "width", tex.Width(), "height", tex.Height())
	}
	return nil
}

// Texture returns the GL name for id, loading it on first use
func (m *TextureManager) Texture(id string) (uint32, bool) {
	m.mu.RLock()
	if tex, ok := m.textures[id]; ok {
		m.mu.RUnlock()
		return tex, true
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Double check locking
	if tex, ok := m.textures[id]; ok {
		return tex, true
	}

	px, err := assets.Decode(m.resolver.Path(id))
	if err != nil {
		slog.Error("texture load failed", "id", id, "err", err)
		return 0, false
	}
	tex := UploadTexture(px)
	m.textures[id] = tex
	return tex, true
}

// Dispose deletes every texture
func (m *TextureManager) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, tex := range m.textures {
		gl.DeleteTextures(1, &tex)
		delete(m.textures, id)
	}
}
