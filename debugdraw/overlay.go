package debugdraw

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const debugDotSize = 4

// Plane selects which world axes map to the screen.
type Plane int

const (
	// PlaneSide shows X right and Y up.
	PlaneSide Plane = iota
	// PlaneTop shows X right and Z up.
	PlaneTop
)

// View maps world space to screen pixels.
type View struct {
	Plane  Plane
	Center mgl64.Vec3
	Zoom   float64
}

// ToScreen projects p for a screen of size w x h.
func (v View) ToScreen(p mgl64.Vec3, w, h int) (float32, float32) {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	d := p.Sub(v.Center)
	up := d.Y()
	if v.Plane == PlaneTop {
		up = d.Z()
	}
	x := float64(w)/2 + d.X()*zoom
	y := float64(h)/2 - up*zoom
	return float32(x), float32(y)
}

// Overlay records primitives during a frame and draws them with ebiten.
type Overlay struct {
	Recorder
	View View
}

// Draw renders the recorded primitives onto screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if o == nil || screen == nil {
		return
	}
	b := screen.Bounds()
	w, h := b.Dx(), b.Dy()
	for _, l := range o.Lines {
		x0, y0 := o.View.ToScreen(l.A, w, h)
		x1, y1 := o.View.ToScreen(l.B, w, h)
		vector.StrokeLine(screen, x0, y0, x1, y1, 1, orWhite(l.Color), true)
	}
	for _, p := range o.Points {
		x, y := o.View.ToScreen(p.P, w, h)
		vector.DrawFilledRect(screen, x-debugDotSize/2, y-debugDotSize/2, debugDotSize, debugDotSize, orWhite(p.Color), false)
	}
}

func orWhite(c color.Color) color.Color {
	if c == nil {
		return color.White
	}
	return c
}
