package meshing

import (
	"errors"
	"fmt"
	"sync"

	"github.com/chewxy/math32"
)

// MinPrecision is the coarsest sphere that still closes
const MinPrecision = 3

// DefaultPrecision matches the latitude/longitude subdivisions used for every body
const DefaultPrecision = 48

var ErrPrecision = errors.New("sphere precision too low")

const (
	// Position(3) + UV(2) + Normal(3)
	VertexSize = 8
	FloatSize  = 4
)

// Sphere is a unit UV sphere. Normals equal positions.
// Vertex (i, j) sits at latitude ring i (0 = south pole) and longitude column j;
// column prec duplicates column 0 so the texture seam has its own UVs.
type Sphere struct {
	Precision int
	Positions []float32 // x, y, z per vertex
	TexCoords []float32 // u, v per vertex
	Normals   []float32 // x, y, z per vertex
	Indices   []uint32  // triangles, counter-clockwise seen from outside
}

// NewSphere tessellates a unit sphere with precision rings and columns
func NewSphere(precision int) (*Sphere, error) {
	if precision < MinPrecision {
		return nil, fmt.Errorf("%w: %d < %d", ErrPrecision, precision, MinPrecision)
	}

	n := (precision + 1) * (precision + 1)
	s := &Sphere{
		Precision: precision,
		Positions: make([]float32, 0, n*3),
		TexCoords: make([]float32, 0, n*2),
		Normals:   make([]float32, 0, n*3),
		Indices:   make([]uint32, 0, precision*precision*6),
	}

	p := float32(precision)
	for i := 0; i <= precision; i++ {
		polar := float32(i) * math32.Pi / p
		y := -math32.Cos(polar)
		ring := math32.Abs(math32.Sin(polar))
		for j := 0; j <= precision; j++ {
			azimuth := float32(j) * 2 * math32.Pi / p
			x := -math32.Cos(azimuth) * ring
			z := math32.Sin(azimuth) * ring

			s.Positions = append(s.Positions, x, y, z)
			s.Normals = append(s.Normals, x, y, z)
			s.TexCoords = append(s.TexCoords, float32(j)/p, float32(i)/p)
		}
	}

	stride := uint32(precision + 1)
	for i := uint32(0); i < uint32(precision); i++ {
		for j := uint32(0); j < uint32(precision); j++ {
			a := i*stride + j
			b := a + 1
			c := (i+1)*stride + j
			d := c + 1
			s.Indices = append(s.Indices, a, b, c, b, d, c)
		}
	}
	return s, nil
}

// VertexCount returns the number of vertices
func (s *Sphere) VertexCount() int { return len(s.Positions) / 3 }

// IndexCount returns the number of triangle indices
func (s *Sphere) IndexCount() int { return len(s.Indices) }

// Interleaved packs position, uv and normal per vertex for a single VBO
func (s *Sphere) Interleaved() []float32 {
	n := s.VertexCount()
	out := make([]float32, 0, n*VertexSize)
	for v := 0; v < n; v++ {
		out = append(out, s.Positions[v*3:v*3+3]...)
		out = append(out, s.TexCoords[v*2:v*2+2]...)
		out = append(out, s.Normals[v*3:v*3+3]...)
	}
	return out
}

var (
	sphereCache = make(map[int]*Sphere)
	cacheMutex  sync.Mutex
)

// Shared returns the sphere for precision, generating it on first use.
// Every caller gets the same instance and must treat it as read-only.
func Shared(precision int) (*Sphere, error) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if s, ok := sphereCache[precision]; ok {
		return s, nil
	}
	s, err := NewSphere(precision)
	if err != nil {
		return nil, err
	}
	sphereCache[precision] = s
	return s, nil
}
