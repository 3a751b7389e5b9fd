package soft

type point struct{ x, y float32 }

type clipEdge uint8

const (
	clipLeft clipEdge = iota
	clipRight
	clipTop
	clipBottom
)

// clipRect clips a polygon to [0,w]x[0,h] with Sutherland-Hodgman so the
// rasterizer only sees in-bounds coordinates.
func clipRect(poly []point, w, h float32) []point {
	in := poly
	for e := clipLeft; e <= clipBottom; e++ {
		if len(in) == 0 {
			return nil
		}
		out := make([]point, 0, len(in)+2)
		prev := in[len(in)-1]
		for _, cur := range in {
			curIn, prevIn := inside(e, cur, w, h), inside(e, prev, w, h)
			if curIn != prevIn {
				out = append(out, intersect(e, prev, cur, w, h))
			}
			if curIn {
				out = append(out, cur)
			}
			prev = cur
		}
		in = out
	}
	return in
}

func inside(e clipEdge, p point, w, h float32) bool {
	switch e {
	case clipLeft:
		return p.x >= 0
	case clipRight:
		return p.x <= w
	case clipTop:
		return p.y >= 0
	default:
		return p.y <= h
	}
}

func intersect(e clipEdge, a, b point, w, h float32) point {
	switch e {
	case clipLeft:
		return atX(a, b, 0)
	case clipRight:
		return atX(a, b, w)
	case clipTop:
		return atY(a, b, 0)
	default:
		return atY(a, b, h)
	}
}

func atX(a, b point, x float32) point {
	t := (x - a.x) / (b.x - a.x)
	return point{x, a.y + t*(b.y-a.y)}
}

func atY(a, b point, y float32) point {
	t := (y - a.y) / (b.y - a.y)
	return point{a.x + t*(b.x-a.x), y}
}
