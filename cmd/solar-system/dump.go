package main

import (
	"fmt"
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"solar-system/internal/animation"
	"solar-system/internal/scene"
)

type dumpBody struct {
	Index int `yaml:"index"`

	scene.Body `yaml:",inline"`

	Children   []int      `yaml:"children,flow,omitempty"`
	Position   mgl32.Vec3 `yaml:"position,flow"`
	OrbitAngle float32    `yaml:"orbit_angle"`
	SpinAngle  float32    `yaml:"spin_angle"`
}

type dump struct {
	Scene  string       `yaml:"scene"`
	Time   float64      `yaml:"time"`
	Camera scene.Camera `yaml:"camera"`
	Light  scene.Light  `yaml:"light"`
	Bodies []dumpBody   `yaml:"bodies"`
}

func buildDump(path string, sc *scene.Scene, t float64) dump {
	e := animation.NewEngine(sc, 0)
	d := dump{
		Scene:  path,
		Time:   t,
		Camera: sc.Camera(),
		Light:  sc.Light(),
	}
	for i, b := range sc.Bodies() {
		d.Bodies = append(d.Bodies, dumpBody{
			Index:      i,
			Body:       b,
			Children:   sc.Children(i),
			Position:   e.WorldPosition(i, t),
			OrbitAngle: animation.Angle(b.OrbitalPeriod, t),
			SpinAngle:  animation.Angle(b.RotationPeriod, t),
		})
	}
	return d
}

func writeDump(w io.Writer, path string, sc *scene.Scene, t float64) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildDump(path, sc, t)); err != nil {
		return fmt.Errorf("encode dump: %w", err)
	}
	return enc.Close()
}
