package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/actor"
	"github.com/milk9111/traverse/collision"
	"github.com/milk9111/traverse/collision/boxworld"
	"github.com/milk9111/traverse/collision/cpworld"
	"github.com/milk9111/traverse/common"
	"gopkg.in/yaml.v3"
)

type GrabPointSpec struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Yaw      float64 `yaml:"yaw"`
}

type BoxSpec struct {
	Name       string          `yaml:"name"`
	Tags       []string        `yaml:"tags"`
	Layer      string          `yaml:"layer"`
	Center     Vec3            `yaml:"center"`
	Size       Vec3            `yaml:"size"`
	Yaw        float64         `yaml:"yaw"`
	Anchor     *Vec3           `yaml:"anchor"`
	GrabPoints []GrabPointSpec `yaml:"grab_points"`
}

// InputStep holds an input from At for Duration seconds.
type InputStep struct {
	At       float64    `yaml:"at"`
	Duration float64    `yaml:"duration"`
	Move     [2]float64 `yaml:"move"`
	Jump     bool       `yaml:"jump"`
	Drop     bool       `yaml:"drop"`
	Climb    bool       `yaml:"climb"`
}

// LevelSpec is a box level with a spawn point and a scripted input track.
type LevelSpec struct {
	Name     string      `yaml:"name"`
	Spawn    Vec3        `yaml:"spawn"`
	Facing   float64     `yaml:"facing"`
	Step     float64     `yaml:"step"`
	Duration float64     `yaml:"duration"`
	Boxes    []BoxSpec   `yaml:"boxes"`
	Inputs   []InputStep `yaml:"inputs"`
}

// LoadLevel reads a level from disk, or the built-in level when path is
// empty.
func LoadLevel(path string) (LevelSpec, error) {
	if path == "" {
		return LoadSpec[LevelSpec]("level.yaml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return LevelSpec{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	var l LevelSpec
	if err := yaml.Unmarshal(data, &l); err != nil {
		return LevelSpec{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	return l, nil
}

// Build adds the level's boxes to w.
func (l LevelSpec) Build(w *boxworld.World) ([]*collision.Surface, error) {
	out := make([]*collision.Surface, 0, len(l.Boxes))
	for _, b := range l.Boxes {
		layer, err := ParseLayer(b.Layer)
		if err != nil {
			return nil, fmt.Errorf("config: box %s: %w", b.Name, err)
		}
		spec := boxworld.BoxSpec{
			Name:   b.Name,
			Tags:   tags(b.Tags),
			Layer:  layer,
			Center: b.Center.Vec(),
			Size:   b.Size.Vec(),
			Yaw:    b.Yaw,
		}
		if b.Anchor != nil {
			a := b.Anchor.Vec()
			spec.Anchor = &a
		}
		for _, gp := range b.GrabPoints {
			spec.GrabPoints = append(spec.GrabPoints, collision.GrabPoint{
				Name:     gp.Name,
				Position: gp.Position.Vec(),
				Rotation: mgl64.QuatRotate(mgl64.DegToRad(gp.Yaw), common.Up),
			})
		}
		out = append(out, w.AddBox(spec))
	}
	return out, nil
}

// BuildSide adds the level's boxes to a side-view world. Z and yaw are
// dropped; each box becomes its XY rectangle.
func (l LevelSpec) BuildSide(w *cpworld.World) ([]*collision.Surface, error) {
	out := make([]*collision.Surface, 0, len(l.Boxes))
	for _, b := range l.Boxes {
		layer, err := ParseLayer(b.Layer)
		if err != nil {
			return nil, fmt.Errorf("config: box %s: %w", b.Name, err)
		}
		c, half := b.Center.Vec(), b.Size.Vec().Mul(0.5)
		spec := cpworld.BoxSpec{
			Name:  b.Name,
			Tags:  tags(b.Tags),
			Layer: layer,
			Min:   mgl64.Vec2{c.X() - half.X(), c.Y() - half.Y()},
			Max:   mgl64.Vec2{c.X() + half.X(), c.Y() + half.Y()},
		}
		if b.Anchor != nil {
			a := b.Anchor.Vec()
			spec.Anchor = &a
		}
		for _, gp := range b.GrabPoints {
			spec.GrabPoints = append(spec.GrabPoints, collision.GrabPoint{
				Name:     gp.Name,
				Position: gp.Position.Vec(),
				Rotation: mgl64.QuatRotate(mgl64.DegToRad(gp.Yaw), common.Up),
			})
		}
		out = append(out, w.AddBox(spec))
	}
	return out, nil
}

// SpawnRotation is the character's starting orientation.
func (l LevelSpec) SpawnRotation() mgl64.Quat {
	return mgl64.QuatRotate(mgl64.DegToRad(l.Facing), common.Up)
}

// InputAt returns the scripted input at time t. JumpPressed is set only on
// the first frame of a jump step, which the caller detects with prev.
func (l LevelSpec) InputAt(t float64, prev actor.Input) actor.Input {
	var in actor.Input
	for _, s := range l.Inputs {
		if t < s.At || t >= s.At+s.Duration {
			continue
		}
		in.MoveX += s.Move[0]
		in.MoveZ += s.Move[1]
		in.Jump = in.Jump || s.Jump
		in.Drop = in.Drop || s.Drop
		in.Climb = in.Climb || s.Climb
	}
	in.JumpPressed = in.Jump && !prev.Jump
	return in
}
