package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"solar-system/internal/animation"
	"solar-system/internal/app"
	"solar-system/internal/assets"
	"solar-system/internal/config"
	"solar-system/internal/graphics"
	"solar-system/internal/graphics/renderer"
	"solar-system/internal/meshing"
	"solar-system/internal/scene"
	"solar-system/internal/solfile"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	configPath string
	dump       bool
	at         float64
	precision  int
	logLevel   string
	scenePath  string
}

var errUsage = errors.New("usage")

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("solar-system", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "settings file (.yaml, .yml or .toml)")
	fs.BoolVar(&o.dump, "dump", false, "print the parsed scene and body positions as YAML and exit")
	fs.Float64Var(&o.at, "at", 0, "simulation time in seconds for -dump, or the start time of the window")
	fs.IntVar(&o.precision, "precision", 0, "sphere precision (overrides the config file)")
	fs.StringVar(&o.logLevel, "log-level", "", "debug, info, warn or error (overrides the config file)")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: solar-system [flags] <scene.sol>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return o, errUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errUsage
	}
	o.scenePath = fs.Arg(0)
	return o, nil
}

func loadSettings(o options) (config.Settings, error) {
	s := config.Default()
	if o.configPath != "" {
		var err error
		if s, err = config.Load(o.configPath); err != nil {
			return s, err
		}
	}
	if o.precision != 0 {
		s.SpherePrecision = o.precision
	}
	if o.logLevel != "" {
		if _, err := config.ParseLogLevel(o.logLevel); err != nil {
			return s, err
		}
		s.LogLevel = o.logLevel
	}
	return s.Validate(), nil
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	s, err := loadSettings(o)
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: s.Level()})))
	if err != nil {
		slog.Error("invalid settings", "err", err)
		return 1
	}
	config.Apply(s)

	sc, err := solfile.Load(o.scenePath)
	if err != nil {
		slog.Error("could not load scene", "path", o.scenePath, "err", err)
		return 1
	}
	slog.Info("scene loaded", "path", o.scenePath, "bodies", sc.Len())

	if o.dump {
		if err := writeDump(stdout, o.scenePath, sc, o.at); err != nil {
			slog.Error("dump failed", "err", err)
			return 1
		}
		return 0
	}

	if err := runWindow(s, o, sc); err != nil {
		slog.Error("renderer failed", "err", err)
		return 1
	}
	return 0
}

func runWindow(s config.Settings, o options, sc *scene.Scene) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := app.SetupWindow(s.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	sphere, err := meshing.Shared(s.SpherePrecision)
	if err != nil {
		return err
	}

	textures := graphics.NewTextureManager(assets.NewResolver(s.TextureDir, o.scenePath))
	defer textures.Dispose()
	if err := textures.Preload(context.Background(), assets.IDs(sc)); err != nil {
		return err
	}

	width, height := window.GetFramebufferSize()
	r := renderer.NewGLRenderer(s, sphere, textures, width, height)
	if err := r.Init(); err != nil {
		return err
	}
	defer r.Dispose()

	a := app.New(window, animation.NewEngine(sc, r.Mesh()), r)
	a.Clock().SetElapsed(o.at)
	a.Run()
	return nil
}
