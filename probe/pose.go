package probe

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/common"
)

// Pose is where the body goes while holding a ledge.
type Pose struct {
	// Position is the feet.
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Edge     mgl64.Vec3
	// Braced is set when the feet rest against the wall.
	Braced bool
}

// GrabPose offsets the ledge edge back along the wall normal and down. The
// brace offset is used when there is wall under the feet, the hang offset
// otherwise. The body faces the wall.
func (p *Probe) GrabPose(l Ledge) Pose {
	n := l.Normal()
	edge := l.Edge()
	braced := p.hasFootWall(edge, n)
	off := p.params.Hang
	if braced {
		off = p.params.Brace
	}
	return Pose{
		Position: edge.Add(n.Mul(off.Back)).Sub(common.Up.Mul(off.Down)),
		Rotation: common.LookRotation(n.Mul(-1), common.Up),
		Edge:     edge,
		Braced:   braced,
	}
}

// HangOrigin is the feet position while holding l. Hanging queries such as
// FindCorner and CanShimmy start from it.
func (p *Probe) HangOrigin(l Ledge) mgl64.Vec3 {
	return p.GrabPose(l).Position
}

func (p *Probe) hasFootWall(edge, n mgl64.Vec3) bool {
	if n.Len() == 0 {
		return false
	}
	from := edge.Add(n.Mul(p.params.BraceCheckDistance)).Sub(common.Up.Mul(p.params.BraceFootDepth))
	hits := p.world.Raycast(from, n.Mul(-1), 2*p.params.BraceCheckDistance, collision.LayerAll)
	return len(hits) > 0
}
