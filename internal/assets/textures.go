// Package assets resolves and decodes the textures a scene refers to.
// Decoding runs off the render thread; GL upload is left to the caller.
package assets

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"solar-system/internal/scene"
)

// Texture is a decoded image ready for upload, rows bottom-up
type Texture struct {
	ID     string
	Path   string
	Pixels *image.RGBA
}

// Width of the decoded image in pixels
func (t *Texture) Width() int { return t.Pixels.Rect.Dx() }

// Height of the decoded image in pixels
func (t *Texture) Height() int { return t.Pixels.Rect.Dy() }

// Resolver maps texture IDs from a scene file to paths on disk
type Resolver struct {
	// Dir is searched for textures; relative IDs are joined to it
	Dir string
}

// NewResolver prefers textureDir and falls back to the scene file's directory
func NewResolver(textureDir, scenePath string) Resolver {
	if textureDir != "" {
		return Resolver{Dir: textureDir}
	}
	return Resolver{Dir: filepath.Dir(scenePath)}
}

// Path returns the file for id. Absolute IDs are used as-is.
func (r Resolver) Path(id string) string {
	if filepath.IsAbs(id) {
		return id
	}
	return filepath.Join(r.Dir, filepath.FromSlash(id))
}

// IDs lists each distinct texture ID of sc in body order
func IDs(sc *scene.Scene) []string {
	seen := make(map[string]bool, sc.Len())
	var ids []string
	for _, b := range sc.Bodies() {
		if seen[b.TextureID] {
			continue
		}
		seen[b.TextureID] = true
		ids = append(ids, b.TextureID)
	}
	return ids
}

// Decode reads an image file and converts it to RGBA flipped for GL
func Decode(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	FlipVertical(rgba)
	return rgba, nil
}

// FlipVertical reverses the row order of img in place
func FlipVertical(img *image.RGBA) {
	h := img.Rect.Dy()
	rowLen := img.Rect.Dx() * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		bottom := img.Pix[(h-1-y)*img.Stride : (h-1-y)*img.Stride+rowLen]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}

// DecodeAll decodes every id in parallel, bounded by the CPU count.
// The first failure cancels the rest.
func DecodeAll(ctx context.Context, r Resolver, ids []string) ([]*Texture, error) {
	out := make([]*Texture, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, id := range ids {
		i, id := i, id // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := r.Path(id)
			px, err := Decode(path)
			if err != nil {
				return fmt.Errorf("texture %q: %w", id, err)
			}
			out[i] = &Texture{ID: id, Path: path, Pixels: px}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
