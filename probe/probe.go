// Package probe answers the geometric questions climbing abilities ask: is
// there a ledge in front of me, around me, along my jump, around a corner or
// a little to the side, and where do my hands and feet go if I grab it.
//
// Every query returns a found flag with a zero value on failure. Not finding
// geometry is the common case.
package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
	"github.com/milk9111/traverse/debugdraw"
	"github.com/milk9111/traverse/tag"
)

// Clock supplies the time used to expire blocked surfaces. The ability
// scheduler satisfies it.
type Clock interface {
	Now() float64
}

type ClockFunc func() float64

func (f ClockFunc) Now() float64 { return f() }

// Offset places the feet relative to a ledge edge: Back along the wall
// normal, Down below the edge.
type Offset struct {
	Back float64
	Down float64
}

type Params struct {
	CapsuleHeight float64
	CapsuleRadius float64
	// CastRadius is the radius of ledge sweeps, thinner than the body.
	CastRadius      float64
	ForwardDistance float64

	// Grabbable tops lie between MinGrabHeight and ReachHeight above the feet.
	ReachHeight    float64
	MinGrabHeight  float64
	TopSampleCount int
	TopSampleStep  float64
	MaxTopAngle    float64

	Hang               Offset
	Brace              Offset
	BraceFootDepth     float64
	BraceCheckDistance float64

	RadialSamples    int
	BroadPhaseRadius float64

	JumpFanHalfCount   int
	JumpFanSpacing     float64
	JumpSearchDistance float64
	JumpAcceptAngle    float64

	ShimmyStep     float64
	ShimmyMaxAngle float64

	CornerDistance   float64
	CornerSideOffset float64
	CornerForward    float64

	ClimbableTags tag.Set
	LadderTags    tag.Set
	ClimbMask     collision.Layer
	LadderMask    collision.Layer
	BlockingMask  collision.Layer
}

func DefaultParams() Params {
	return Params{
		CapsuleHeight:      1.8,
		CapsuleRadius:      0.3,
		CastRadius:         0.15,
		ForwardDistance:    1.0,
		ReachHeight:        2.4,
		MinGrabHeight:      1.0,
		TopSampleCount:     4,
		TopSampleStep:      0.1,
		MaxTopAngle:        30,
		Hang:               Offset{Back: 0.35, Down: 2.0},
		Brace:              Offset{Back: 0.4, Down: 1.6},
		BraceFootDepth:     1.2,
		BraceCheckDistance: 0.6,
		RadialSamples:      16,
		BroadPhaseRadius:   2.0,
		JumpFanHalfCount:   2,
		JumpFanSpacing:     0.5,
		JumpSearchDistance: 6,
		JumpAcceptAngle:    60,
		ShimmyStep:         0.1,
		ShimmyMaxAngle:     20,
		CornerDistance:     0.8,
		CornerSideOffset:   0.6,
		CornerForward:      0.8,
		ClimbableTags:      tag.NewSet("Climbable"),
		LadderTags:         tag.NewSet("Climbable.Ladder"),
		ClimbMask:          collision.LayerClimbable,
		LadderMask:         collision.LayerLadder,
		BlockingMask:       collision.LayerBlocking | collision.LayerDefault,
	}
}

// Ledge is a grabbable edge. The zero value holds no ledge.
type Ledge struct {
	Forward   collision.Hit
	Top       collision.Hit
	Surface   *collision.Surface
	GrabPoint *collision.GrabPoint
}

func (l Ledge) HasLedge() bool { return l.Surface != nil }

// Normal is the horizontal wall normal, pointing away from the wall.
func (l Ledge) Normal() mgl64.Vec3 {
	return common.HorizontalDir(l.Forward.Normal)
}

// Facing is the direction the character looks while holding the ledge.
func (l Ledge) Facing() mgl64.Vec3 {
	return l.Normal().Mul(-1)
}

// Edge is the wall contact lifted to the height of the top surface.
func (l Ledge) Edge() mgl64.Vec3 {
	return mgl64.Vec3{l.Forward.Point.X(), l.Top.Point.Y(), l.Forward.Point.Z()}
}

// Query describes where the character is. Origin is at the feet.
type Query struct {
	Origin  mgl64.Vec3
	Forward mgl64.Vec3
	// Current is the surface being held, skipped by forward sweeps.
	Current        *collision.Surface
	CheckClearance bool
}

func (q Query) facing() mgl64.Vec3 {
	f := common.HorizontalDir(q.Forward)
	if f.Len() == 0 {
		return common.Forward
	}
	return f
}

type Probe struct {
	world   collision.World
	params  Params
	clock   Clock
	sink    debugdraw.Sink
	blocked map[collision.SurfaceID]float64
}

func New(world collision.World, params Params, clock Clock, sink debugdraw.Sink) *Probe {
	if clock == nil {
		clock = ClockFunc(func() float64 { return 0 })
	}
	return &Probe{
		world:   world,
		params:  params,
		clock:   clock,
		sink:    debugdraw.OrNop(sink),
		blocked: make(map[collision.SurfaceID]float64),
	}
}

func (p *Probe) Params() Params { return p.params }

func (p *Probe) SetParams(params Params) { p.params = params }

func (p *Probe) World() collision.World { return p.world }

// Block hides s from forward sweeps for duration seconds.
func (p *Probe) Block(s *collision.Surface, duration float64) {
	if s == nil || duration <= 0 {
		return
	}
	p.blocked[s.ID] = p.clock.Now() + duration
}

func (p *Probe) IsBlocked(s *collision.Surface) bool {
	if s == nil {
		return false
	}
	until, ok := p.blocked[s.ID]
	if !ok {
		return false
	}
	if p.clock.Now() >= until {
		delete(p.blocked, s.ID)
		return false
	}
	return true
}

// ClearBlocks forgets every blocked surface.
func (p *Probe) ClearBlocks() {
	clear(p.blocked)
}
