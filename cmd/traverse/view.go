package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/config"
	"github.com/milk9111/traverse/debugdraw"
	"golang.org/x/image/colornames"
)

type viewer struct {
	sim        *sim
	overlay    *debugdraw.Overlay
	watcher    *config.Watcher
	configPath string
	paused     bool
}

func keyboard() actor.Input {
	var in actor.Input
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		in.MoveX--
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		in.MoveX++
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.MoveZ++
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.MoveZ--
	}
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Drop = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Climb = ebiten.IsKeyPressed(ebiten.KeyE)
	return in
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		v.paused = !v.paused
	}
	if v.watcher != nil {
		drainWatcher(v.watcher, v.sim, v.configPath)
	}
	if v.paused {
		return nil
	}
	v.overlay.Reset()
	v.sim.step(1.0/float64(ebiten.TPS()), keyboard())
	v.overlay.View.Center = v.sim.body.Position()
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	var frame debugdraw.Recorder
	for _, s := range v.sim.surfaces {
		if corners, ok := v.corners(s); ok {
			debugdraw.Box(&frame, corners, debugdraw.ColorSurface)
		}
		for _, gp := range s.GrabPoints {
			debugdraw.Cross(&frame, gp.Position, 0.3, debugdraw.ColorLedge)
		}
	}
	b := v.sim.body
	feet := b.Position()
	head := feet.Add(common.Up.Mul(b.CapsuleHeight()))
	frame.Line(feet, head, colornames.White)
	frame.Line(head, head.Add(common.FacingOf(b.Rotation()).Mul(0.5)), colornames.White)

	(&debugdraw.Overlay{Recorder: frame, View: v.overlay.View}).Draw(screen)
	v.overlay.Draw(screen)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%.2f %s\nrunning %v\ntags %s\nanim %s",
		v.sim.t, fmtVec(feet), v.sim.sched.Running(), v.sim.sched.ActiveTags(), v.sim.anim.Current()))
}

func (v *viewer) corners(s *collision.Surface) ([8]mgl64.Vec3, bool) {
	if v.sim.boxes != nil {
		return v.sim.boxes.Corners(s)
	}
	for _, b := range v.sim.level.Boxes {
		if b.Name != s.Name {
			continue
		}
		c, h := b.Center.Vec(), b.Size.Vec().Mul(0.5)
		var out [8]mgl64.Vec3
		i := 0
		for _, x := range []float64{-1, 1} {
			for _, y := range []float64{-1, 1} {
				for _, z := range []float64{-1, 1} {
					out[i] = mgl64.Vec3{c.X() + x*h.X(), c.Y() + y*h.Y(), c.Z() + z*h.Z()}
					i++
				}
			}
		}
		return out, true
	}
	return [8]mgl64.Vec3{}, false
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
