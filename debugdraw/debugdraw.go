// Package debugdraw carries debug geometry out of the traversal core. Probes
// and predictors take a Sink explicitly; nothing in the core holds a global
// overlay.
package debugdraw

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/image/colornames"
)

// Palette used by the core.
var (
	ColorSweep      color.Color = colornames.Skyblue
	ColorHit        color.Color = colornames.Orangered
	ColorTop        color.Color = colornames.Yellow
	ColorLedge      color.Color = colornames.Lime
	ColorReject     color.Color = colornames.Gray
	ColorTrajectory color.Color = colornames.Gold
	ColorSurface    color.Color = colornames.Slategray
)

// Sink receives debug primitives in world space.
type Sink interface {
	Line(a, b mgl64.Vec3, c color.Color)
	Point(p mgl64.Vec3, c color.Color)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Line(mgl64.Vec3, mgl64.Vec3, color.Color) {}
func (Nop) Point(mgl64.Vec3, color.Color)            {}

// OrNop returns s, or Nop when s is nil.
func OrNop(s Sink) Sink {
	if s == nil {
		return Nop{}
	}
	return s
}

type Line struct {
	A, B  mgl64.Vec3
	Color color.Color
}

type Point struct {
	P     mgl64.Vec3
	Color color.Color
}

// Recorder keeps primitives until Reset. Max bounds memory when the host
// forgets to reset; 0 means unbounded.
type Recorder struct {
	Lines  []Line
	Points []Point
	Max    int
}

func (r *Recorder) Line(a, b mgl64.Vec3, c color.Color) {
	if r.Max > 0 && len(r.Lines) >= r.Max {
		return
	}
	r.Lines = append(r.Lines, Line{A: a, B: b, Color: c})
}

func (r *Recorder) Point(p mgl64.Vec3, c color.Color) {
	if r.Max > 0 && len(r.Points) >= r.Max {
		return
	}
	r.Points = append(r.Points, Point{P: p, Color: c})
}

func (r *Recorder) Reset() {
	r.Lines = r.Lines[:0]
	r.Points = r.Points[:0]
}

// CountColor returns how many lines and points were drawn in c.
func (r *Recorder) CountColor(c color.Color) int {
	n := 0
	for _, l := range r.Lines {
		if sameColor(l.Color, c) {
			n++
		}
	}
	for _, p := range r.Points {
		if sameColor(p.Color, c) {
			n++
		}
	}
	return n
}

// Box draws the twelve edges of a box given its corners ordered by
// (x, y, z) sign bits as produced by boxworld.World.Corners.
func Box(s Sink, corners [8]mgl64.Vec3, c color.Color) {
	edges := [12][2]int{
		{0, 1}, {2, 3}, {4, 5}, {6, 7},
		{0, 2}, {1, 3}, {4, 6}, {5, 7},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		s.Line(corners[e[0]], corners[e[1]], c)
	}
}

// Cross draws a small three-axis marker.
func Cross(s Sink, p mgl64.Vec3, size float64, c color.Color) {
	h := size / 2
	s.Line(p.Sub(mgl64.Vec3{h, 0, 0}), p.Add(mgl64.Vec3{h, 0, 0}), c)
	s.Line(p.Sub(mgl64.Vec3{0, h, 0}), p.Add(mgl64.Vec3{0, h, 0}), c)
	s.Line(p.Sub(mgl64.Vec3{0, 0, h}), p.Add(mgl64.Vec3{0, 0, h}), c)
}

func sameColor(a, b color.Color) bool {
	if a == nil || b == nil {
		return a == b
	}
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
