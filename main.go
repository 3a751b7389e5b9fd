// Command fovcone is a small Ebiten game that walks an actor through a
// generated wall grid and darkens everything outside its field of view.
package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"
	"math"
	"os"
	"runtime"

	"github.com/hajimehoshi/ebiten/v2"

	"fovcone/internal/config"
	"fovcone/internal/fov"
	"fovcone/internal/level"
	"fovcone/internal/raycast"
)

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	if *verboseFlag {
		fov.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(*configPathFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	applyFlagOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	grid := level.NewGrid(cfg.World)
	level.Generate(grid, level.ParamsFrom(cfg.World), level.NewRand(cfg.World.Seed), fov.Vec2{})
	caster, closeCaster := newCaster(cfg.Raycast.Backend, grid)
	defer closeCaster()

	g, err := newGame(cfg, grid, caster)
	if err != nil {
		log.Fatalf("FOV initialization failed: %v", err)
	}

	if *recordDefaultPGO {
		stop, err := startDefaultPGORecording("default.pgo", pgoRecordDuration)
		if err != nil {
			log.Fatalf("PGO recording failed: %v", err)
		}
		defer stop()
		g.enableAutoWalk(pgoRecordDuration)
		log.Printf("Recording default.pgo for %s", pgoRecordDuration)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	if cfg.Window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetTPS(int(defaultTPS))
	err = ebiten.RunGame(g)
	g.shutdown(err)
	if err != nil && !errors.Is(err, ebiten.Termination) {
		os.Exit(1)
	}
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cfg *config.Config) {
	if *fovDegreesFlag > 0 {
		cfg.FOV.HalfAngle = *fovDegreesFlag * math.Pi / 360
	}
	if *samplesFlag > 0 {
		cfg.FOV.SampleCount = *samplesFlag
	}
	if *raycastFlag != "" {
		cfg.Raycast.Backend = *raycastFlag
	}
	if *seedFlag != 0 {
		cfg.World.Seed = *seedFlag
	}
}

// newCaster returns the configured ray caster and its cleanup. An OpenCL
// caster that cannot start falls back to the CPU grid.
func newCaster(backend string, grid *raycast.Grid) (fov.Raycaster, func()) {
	if backend != config.BackendOpenCL {
		return grid, func() {}
	}
	cl, err := raycast.NewCLGrid(grid)
	if err != nil {
		log.Printf("OpenCL raycaster unavailable, using CPU grid: %v", err)
		return grid, func() {}
	}
	log.Printf("OpenCL raycaster enabled (device: %s)", cl.DeviceName())
	return cl, cl.Close
}
