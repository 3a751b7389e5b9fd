package soft

import (
	"image"
	"image/color"
	"runtime"

	"golang.org/x/sync/errgroup"

	"fovcone/internal/shader"
)

// rowBand is a half-open range of destination rows shaded by one goroutine.
type rowBand struct{ start, end int }

func splitRows(height, workers int) []rowBand {
	if workers < 1 {
		workers = 1
	}
	if workers > height {
		workers = height
	}
	bands := make([]rowBand, 0, workers)
	per := height / workers
	extra := height % workers
	y := 0
	for i := 0; i < workers; i++ {
		n := per
		if i < extra {
			n++
		}
		bands = append(bands, rowBand{start: y, end: y + n})
		y += n
	}
	return bands
}

// shade runs fragment for every pixel of dst. Sources are sampled nearest,
// scaled to the destination size.
func shade(dst *image.RGBA, sources []*image.RGBA, fragment shader.FragmentFunc, workers int) error {
	b := dst.Bounds()
	if b.Empty() {
		return nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	var g errgroup.Group
	for _, band := range splitRows(b.Dy(), workers) {
		band := band
		g.Go(func() error {
			samples := make([]color.RGBA, len(sources))
			for y := band.start; y < band.end; y++ {
				for x := 0; x < b.Dx(); x++ {
					for i, src := range sources {
						samples[i] = sampleNearest(src, x, y, b.Dx(), b.Dy())
					}
					dst.SetRGBA(b.Min.X+x, b.Min.Y+y, fragment(samples))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

func sampleNearest(src *image.RGBA, x, y, w, h int) color.RGBA {
	sb := src.Bounds()
	sx, sy := x, y
	if sb.Dx() != w {
		sx = (2*x + 1) * sb.Dx() / (2 * w)
	}
	if sb.Dy() != h {
		sy = (2*y + 1) * sb.Dy() / (2 * h)
	}
	return src.RGBAAt(sb.Min.X+sx, sb.Min.Y+sy)
}
