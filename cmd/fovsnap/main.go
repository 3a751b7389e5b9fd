// Command fovsnap renders one composited FOV frame on the CPU and writes it
// as PNG or WebP.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"

	"fovcone/internal/config"
	"fovcone/internal/fov"
	"fovcone/internal/level"
	"fovcone/internal/raycast"
	"fovcone/internal/render"
	"fovcone/internal/render/soft"
)

var (
	wallColor  = color.RGBA{R: 30, G: 40, B: 80, A: 255}
	actorColor = color.RGBA{R: 230, G: 60, B: 40, A: 255}
	gizmoColor = color.RGBA{G: 200, A: 255}
)

// options are the per-snapshot settings not covered by the config file.
type options struct {
	Position fov.Vec2
	Rotation float64
	Gizmo    bool
	NoFOV    bool
}

type actor struct{ pose fov.Pose }

func (a actor) ActorPose() (fov.Pose, bool) { return a.pose, true }

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	out := flag.String("out", "fov.png", "output file; .webp selects WebP, anything else PNG")
	x := flag.Float64("x", 0, "actor x in world units")
	y := flag.Float64("y", 0, "actor y in world units")
	rotDeg := flag.Float64("rot", 0, "actor rotation in degrees, counter-clockwise from +X")
	seed := flag.Int64("seed", 1, "wall layout seed")
	width := flag.Int("width", 0, "image width (0 keeps the config value)")
	height := flag.Int("height", 0, "image height (0 keeps the config value)")
	gizmo := flag.Bool("gizmo", false, "draw the vision cone rays")
	noFOV := flag.Bool("no-fov", false, "skip compositing")
	verbose := flag.Bool("v", false, "log FOV and renderer events")
	flag.Parse()

	if *verbose {
		fov.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.World.Seed = *seed
	if *width > 0 {
		cfg.Window.Width = *width
	}
	if *height > 0 {
		cfg.Window.Height = *height
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	img, err := snapshot(cfg, options{
		Position: fov.Vec2{X: *x, Y: *y},
		Rotation: *rotDeg * math.Pi / 180,
		Gizmo:    *gizmo,
		NoFOV:    *noFOV,
	})
	if err != nil {
		log.Fatalf("render: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("create output: %v", err)
	}
	if err := encode(f, img, formatFor(*out)); err != nil {
		f.Close()
		log.Fatalf("encode %s: %v", *out, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("close %s: %v", *out, err)
	}
	log.Printf("wrote %s (%dx%d)", *out, img.Bounds().Dx(), img.Bounds().Dy())
}

// snapshot builds the level for cfg and renders a single frame centred on
// the actor.
func snapshot(cfg config.Config, opts options) (*image.RGBA, error) {
	grid := level.NewGrid(cfg.World)
	level.Generate(grid, level.ParamsFrom(cfg.World), level.NewRand(cfg.World.Seed), opts.Position)

	var caster fov.Raycaster = grid
	if cfg.Raycast.Backend == config.BackendOpenCL {
		if cl, err := raycast.NewCLGrid(grid); err == nil {
			defer cl.Close()
			caster = cl
		} else {
			log.Printf("OpenCL raycaster unavailable, using CPU grid: %v", err)
		}
	}

	size := render.Extent{Width: cfg.Window.Width, Height: cfg.Window.Height}
	d := soft.NewDevice()
	r, err := render.NewRenderer(d, render.WindowSizerFunc(func() render.Extent { return size }), render.Options{
		Viewport:       size,
		ClearIntensity: cfg.FOV.ClearIntensity,
		Background:     render.Gray(cfg.Window.Background),
		Format:         render.FormatRGBA8UnormSrgb,
	})
	if err != nil {
		return nil, err
	}
	defer r.Release()
	r.SetFOVEnabled(!opts.NoFOV)

	pose := fov.Pose{Entity: 1, Position: opts.Position, Rotation: opts.Rotation}
	u, err := fov.NewUpdater(cfg.FOV, caster, actor{pose}, r.Scene())
	if err != nil {
		return nil, err
	}
	if !u.Setup() {
		return nil, fmt.Errorf("actor missing")
	}
	defer u.Teardown()

	walls := level.WallRects(grid)
	drawer := render.MainPassDrawerFunc(func(pass render.RenderPass, view render.View) {
		for _, w := range walls {
			pass.FillPolygon(w[:], wallColor)
		}
		if opts.Gizmo {
			for _, end := range fov.ConeRays(pose, cfg.FOV.HalfAngle, cfg.FOV.MaxDistance) {
				render.StrokeSegment(pass, pose.Position, end, 1/view.Scale, gizmoColor)
			}
		}
		const sides = 12
		body := make([]fov.Vec2, sides)
		for i := range body {
			body[i] = pose.Position.Add(fov.FromAngle(2 * math.Pi * float64(i) / sides).Scale(6))
		}
		pass.FillPolygon(body, actorColor)
	})

	view := render.View{Center: pose.Position, Scale: cfg.Window.Scale}
	tex, err := r.RenderFrame(view, drawer)
	if err != nil {
		return nil, err
	}
	st, ok := tex.(*soft.Texture)
	if !ok {
		return nil, fmt.Errorf("unexpected texture %T", tex)
	}
	out := image.NewRGBA(st.Image().Bounds())
	copy(out.Pix, st.Image().Pix)
	return out, nil
}

type format int

const (
	formatPNG format = iota
	formatWebP
)

func formatFor(path string) format {
	if strings.EqualFold(filepath.Ext(path), ".webp") {
		return formatWebP
	}
	return formatPNG
}

func encode(w io.Writer, img image.Image, f format) error {
	if f == formatWebP {
		return nativewebp.Encode(w, img, nil)
	}
	return png.Encode(w, img)
}
