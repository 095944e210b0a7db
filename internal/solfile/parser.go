// Package solfile reads the .sol scene description format.
//
//	line 1: camX camY camZ
//	line 2: r g b ambient diffuse specular linearAttenuation
//	then one body per line, depth given by leading tabs:
//	  (0 tabs)  texture radius rotationPeriod
//	  (1 tab)   _ texture radius rotationPeriod distance orbitalPeriod shininess
//	  (2+ tabs) _ texture radius rotationPeriod distance orbitalPeriod shininess
package solfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"solar-system/internal/scene"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	cameraFields = 3
	lightFields  = 7
	sunFields    = 3
	orbitFields  = 7
)

var lightFieldNames = [lightFields]string{"red", "green", "blue", "ambient", "diffuse", "specular", "linear attenuation"}

// Load parses the scene file at path
func Load(path string) (*scene.Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()

	sc, err := Parse(f)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			ioErr.Path = path
		}
		return nil, err
	}
	return sc, nil
}

// ParseString parses a scene held in memory
func ParseString(s string) (*scene.Scene, error) {
	return Parse(strings.NewReader(s))
}

// MaxLineBytes bounds a single scene file line
const MaxLineBytes = 1 << 20

// Parse reads a complete scene. Any error aborts the parse; there are no partial scenes.
func Parse(r io.Reader) (*scene.Scene, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), MaxLineBytes)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{
				Line:     len(lines) + 1,
				Expected: fmt.Sprintf("line of at most %d bytes", MaxLineBytes),
				Err:      err,
			}
		}
		return nil, &IOError{Path: "<input>", Err: err}
	}

	if len(lines) < 2 {
		return nil, &FormatError{
			Line:     len(lines) + 1,
			Expected: "camera line and light line",
			Err:      io.ErrUnexpectedEOF,
		}
	}

	sc := scene.New()

	cam, err := parseCamera(lines[0])
	if err != nil {
		return nil, err
	}
	sc.SetCamera(cam)

	light, err := parseLight(lines[1])
	if err != nil {
		return nil, err
	}
	sc.SetLight(light)

	for i := 2; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			continue
		}
		if err := parseBody(sc, lines[i], i+1); err != nil {
			return nil, err
		}
	}

	if err := sc.Validate(); err != nil {
		return nil, &StructuralError{Err: err}
	}
	return sc, nil
}

func parseCamera(line string) (scene.Camera, error) {
	tokens := strings.Fields(line)
	if len(tokens) != cameraFields {
		return scene.Camera{}, countError(1, "camera", cameraFields, len(tokens), "<camX> <camY> <camZ>")
	}
	var pos mgl32.Vec3
	for i, axis := range []string{"camera x", "camera y", "camera z"} {
		v, err := parseFloat(1, axis, tokens[i])
		if err != nil {
			return scene.Camera{}, err
		}
		pos[i] = v
	}
	return scene.Camera{Position: pos}, nil
}

func parseLight(line string) (scene.Light, error) {
	tokens := strings.Fields(line)
	if len(tokens) != lightFields {
		return scene.Light{}, countError(2, "light", lightFields, len(tokens),
			"<r> <g> <b> <ambient> <diffuse> <specular> <linearAttenuation>")
	}
	var vals [lightFields]float32
	for i, name := range lightFieldNames {
		v, err := parseFloat(2, "light "+name, tokens[i])
		if err != nil {
			return scene.Light{}, err
		}
		vals[i] = v
	}
	return scene.Light{
		Color:             mgl32.Vec3{vals[0], vals[1], vals[2]},
		Ambient:           vals[3],
		Diffuse:           vals[4],
		Specular:          vals[5],
		LinearAttenuation: vals[6],
	}, nil
}

func parseBody(sc *scene.Scene, line string, lineNo int) error {
	depth := len(line) - len(strings.TrimLeft(line, "\t"))
	tokens := strings.Fields(line)

	var (
		b    scene.Body
		err  error
		kind string
		add  func(scene.Body) (int, error)
	)
	switch {
	case depth == 0:
		kind = "sun"
		b, err = parseSun(tokens, lineNo)
		add = sc.AddSun
	case depth == 1:
		kind = "planet"
		b, err = parseOrbiter(tokens, lineNo, kind)
		add = sc.AddPlanet
	default:
		kind = "moon"
		b, err = parseOrbiter(tokens, lineNo, kind)
		add = sc.AddMoon
	}
	if err != nil {
		return err
	}
	b.Line = lineNo

	if _, err := add(b); err != nil {
		var ve *scene.ValueError
		if errors.As(err, &ve) {
			return &FormatError{Line: lineNo, Field: kind + " " + ve.Field, Err: err}
		}
		return &StructuralError{Line: lineNo, Err: err}
	}
	return nil
}

func parseSun(tokens []string, lineNo int) (scene.Body, error) {
	if len(tokens) != sunFields {
		return scene.Body{}, countError(lineNo, "sun", sunFields, len(tokens), "<texture> <radius> <rotationPeriod>")
	}
	radius, err := parseFloat(lineNo, "sun radius", tokens[1])
	if err != nil {
		return scene.Body{}, err
	}
	rotation, err := parseFloat(lineNo, "sun rotation period", tokens[2])
	if err != nil {
		return scene.Body{}, err
	}
	return scene.Body{TextureID: tokens[0], Radius: radius, RotationPeriod: rotation}, nil
}

// parseOrbiter reads the 7-token planet/moon shape; token 0 is a placeholder
func parseOrbiter(tokens []string, lineNo int, kind string) (scene.Body, error) {
	if len(tokens) != orbitFields {
		return scene.Body{}, countError(lineNo, kind, orbitFields, len(tokens),
			"<_> <texture> <radius> <rotationPeriod> <distance> <orbitalPeriod> <shininess>")
	}
	b := scene.Body{TextureID: tokens[1]}
	targets := []struct {
		name string
		dst  *float32
	}{
		{"radius", &b.Radius},
		{"rotation period", &b.RotationPeriod},
		{"distance", &b.Distance},
		{"orbital period", &b.OrbitalPeriod},
		{"shininess", &b.Shininess},
	}
	for i, t := range targets {
		v, err := parseFloat(lineNo, kind+" "+t.name, tokens[i+2])
		if err != nil {
			return scene.Body{}, err
		}
		*t.dst = v
	}
	return b, nil
}

func parseFloat(lineNo int, field, token string) (float32, error) {
	v, err := strconv.ParseFloat(token, 32)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			err = numErr.Err
		}
		return 0, &FormatError{Line: lineNo, Field: field, Expected: "decimal number, got " + strconv.Quote(token), Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &FormatError{Line: lineNo, Field: field, Expected: "finite number, got " + strconv.Quote(token)}
	}
	return float32(v), nil
}

func countError(lineNo int, what string, want, got int, shape string) error {
	return &FormatError{
		Line:     lineNo,
		Field:    what,
		Expected: fmt.Sprintf("%d fields %s, got %d", want, shape, got),
	}
}
