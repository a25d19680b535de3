package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
)

// skin keeps the body hovering just off surfaces it rests against so resting
// contact does not stop sideways motion.
const skin = 0.01

type BodyConfig struct {
	Position mgl64.Vec3
	Height   float64
	Radius   float64
	Gravity  float64
	Mask     collision.Layer
}

// Body is a kinematic capsule integrated against a collision.World.
type Body struct {
	world   collision.World
	mask    collision.Layer
	pos     mgl64.Vec3
	rot     mgl64.Quat
	vel     mgl64.Vec3
	height  float64
	radius  float64
	gravity float64

	gravityEnabled bool
	grounded       bool
}

func NewBody(world collision.World, cfg BodyConfig) *Body {
	mask := cfg.Mask
	if mask == 0 {
		mask = collision.LayerDefault | collision.LayerBlocking | collision.LayerClimbable | collision.LayerDestination
	}
	return &Body{
		world:          world,
		mask:           mask,
		pos:            cfg.Position,
		rot:            mgl64.QuatIdent(),
		height:         cfg.Height,
		radius:         cfg.Radius,
		gravity:        cfg.Gravity,
		gravityEnabled: true,
	}
}

func (b *Body) Position() mgl64.Vec3           { return b.pos }
func (b *Body) SetPosition(p mgl64.Vec3)       { b.pos = p }
func (b *Body) Rotation() mgl64.Quat           { return b.rot }
func (b *Body) SetRotation(q mgl64.Quat)       { b.rot = q }
func (b *Body) Velocity() mgl64.Vec3           { return b.vel }
func (b *Body) SetVelocity(v mgl64.Vec3)       { b.vel = v }
func (b *Body) CapsuleHeight() float64         { return b.height }
func (b *Body) CapsuleRadius() float64         { return b.radius }
func (b *Body) IsGrounded() bool               { return b.grounded }
func (b *Body) Gravity() float64               { return b.gravity }
func (b *Body) SetGravityEnabled(enabled bool) { b.gravityEnabled = enabled }
func (b *Body) GravityEnabled() bool           { return b.gravityEnabled }

// IsFalling is true while airborne and moving along gravity.
func (b *Body) IsFalling() bool {
	if b.grounded || b.gravity == 0 {
		return false
	}
	return b.vel.Y()*b.gravity > 0
}

func (b *Body) capsule() collision.Capsule {
	return collision.CapsuleAt(b.pos, b.height, b.radius)
}

// Step integrates gravity, moves horizontally then vertically, and refreshes
// the grounded flag. With gravity disabled the body still collides.
func (b *Body) Step(dt float64) {
	if dt <= 0 {
		return
	}
	if b.gravityEnabled {
		b.vel[1] += b.gravity * dt
	}
	move := b.vel.Mul(dt)

	if h := common.Horizontal(move); h.Len() > 0 {
		b.moveHorizontal(h)
	}
	b.grounded = false
	if v := move.Y(); v != 0 {
		b.moveVertical(v)
	}
	if !b.grounded && b.gravityEnabled && b.vel.Y()*b.gravity >= 0 {
		b.grounded = b.groundBelow()
	}
	if b.grounded && b.vel.Y()*b.gravity > 0 {
		b.vel[1] = 0
	}
}

func (b *Body) moveHorizontal(h mgl64.Vec3) {
	dist := h.Len()
	dir := h.Mul(1 / dist)
	hits := b.world.SweepCapsule(b.capsule(), dir, dist, b.mask)
	if len(hits) == 0 {
		b.pos = b.pos.Add(h)
		return
	}
	hit := hits[0]
	b.pos = b.pos.Add(dir.Mul(math.Max(hit.Distance-skin, 0)))

	n := common.HorizontalDir(hit.Normal)
	if into := b.vel.Dot(n); into < 0 {
		b.vel = b.vel.Sub(n.Mul(into))
	}
	// slide the rest along the wall
	rest := h.Sub(dir.Mul(hit.Distance))
	rest = rest.Sub(n.Mul(rest.Dot(n)))
	if rest.Len() < 1e-6 {
		return
	}
	restDist := rest.Len()
	restDir := rest.Mul(1 / restDist)
	if more := b.world.SweepCapsule(b.capsule(), restDir, restDist, b.mask); len(more) > 0 {
		restDist = math.Max(more[0].Distance-skin, 0)
	}
	b.pos = b.pos.Add(restDir.Mul(restDist))
}

func (b *Body) moveVertical(v float64) {
	dir := mgl64.Vec3{0, math.Copysign(1, v), 0}
	hits := b.world.SweepCapsule(b.capsule(), dir, math.Abs(v), b.mask)
	if len(hits) == 0 {
		b.pos[1] += v
		return
	}
	b.pos = b.pos.Add(dir.Mul(math.Max(hits[0].Distance-skin, 0)))
	if v*b.gravity > 0 {
		b.grounded = true
	}
	b.vel[1] = 0
}

func (b *Body) groundBelow() bool {
	down := mgl64.Vec3{0, math.Copysign(1, b.gravity), 0}
	hits := b.world.SweepCapsule(b.capsule(), down, 2*skin, b.mask)
	return len(hits) > 0
}
