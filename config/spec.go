package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Vec3 is written as a three element YAML sequence.
type Vec3 [3]float64

func (v Vec3) Vec() mgl64.Vec3 { return mgl64.Vec3(v) }

type CapsuleSpec struct {
	Height float64 `yaml:"height"`
	Radius float64 `yaml:"radius"`
}

type OffsetSpec struct {
	Back float64 `yaml:"back"`
	Down float64 `yaml:"down"`
}

type ProbeSpec struct {
	CastRadius         float64    `yaml:"cast_radius"`
	ForwardDistance    float64    `yaml:"forward_distance"`
	ReachHeight        float64    `yaml:"reach_height"`
	MinGrabHeight      float64    `yaml:"min_grab_height"`
	TopSampleCount     int        `yaml:"top_sample_count"`
	TopSampleStep      float64    `yaml:"top_sample_step"`
	MaxTopAngle        float64    `yaml:"max_top_angle"`
	Hang               OffsetSpec `yaml:"hang"`
	Brace              OffsetSpec `yaml:"brace"`
	BraceFootDepth     float64    `yaml:"brace_foot_depth"`
	BraceCheckDistance float64    `yaml:"brace_check_distance"`
	RadialSamples      int        `yaml:"radial_samples"`
	BroadPhaseRadius   float64    `yaml:"broad_phase_radius"`
	JumpFanHalfCount   int        `yaml:"jump_fan_half_count"`
	JumpFanSpacing     float64    `yaml:"jump_fan_spacing"`
	JumpSearchDistance float64    `yaml:"jump_search_distance"`
	JumpAcceptAngle    float64    `yaml:"jump_accept_angle"`
	ShimmyStep         float64    `yaml:"shimmy_step"`
	ShimmyMaxAngle     float64    `yaml:"shimmy_max_angle"`
	CornerDistance     float64    `yaml:"corner_distance"`
	CornerSideOffset   float64    `yaml:"corner_side_offset"`
	CornerForward      float64    `yaml:"corner_forward"`
	ClimbableTags      []string   `yaml:"climbable_tags"`
	LadderTags         []string   `yaml:"ladder_tags"`
	ClimbLayers        []string   `yaml:"climb_layers"`
	LadderLayers       []string   `yaml:"ladder_layers"`
	BlockingLayers     []string   `yaml:"blocking_layers"`
}

type TrajectorySpec struct {
	MaxHeight          float64 `yaml:"max_height"`
	MinHeight          float64 `yaml:"min_height"`
	MaxHorizontalSpeed float64 `yaml:"max_horizontal_speed"`
}

type JumpSpec struct {
	Trajectory          TrajectorySpec `yaml:"trajectory"`
	Mode                string         `yaml:"mode"`
	SearchRadius        float64        `yaml:"search_radius"`
	AcceptAngle         float64        `yaml:"accept_angle"`
	MinDistance         float64        `yaml:"min_distance"`
	MaxDrop             float64        `yaml:"max_drop"`
	ElevationWeight     float64        `yaml:"elevation_weight"`
	RedundantAngle      float64        `yaml:"redundant_angle"`
	NormalJumpTolerance float64        `yaml:"normal_jump_tolerance"`
	ArcSamples          int            `yaml:"arc_samples"`
	DestinationTags     []string       `yaml:"destination_tags"`
	DestinationLayers   []string       `yaml:"destination_layers"`
}

type MovementSpec struct {
	WalkSpeed      float64 `yaml:"walk_speed"`
	JumpSpeed      float64 `yaml:"jump_speed"`
	JumpHeight     float64 `yaml:"jump_height"`
	MinAirTime     float64 `yaml:"min_air_time"`
	AssistGrace    float64 `yaml:"assist_grace"`
	ShimmySpeed    float64 `yaml:"shimmy_speed"`
	CornerCooldown float64 `yaml:"corner_cooldown"`
	ClimbUpForward float64 `yaml:"climb_up_forward"`
	RegrabBlock    float64 `yaml:"regrab_block"`
	CatchDistance  float64 `yaml:"catch_distance"`
	LadderSpeed    float64 `yaml:"ladder_speed"`
	LadderGap      float64 `yaml:"ladder_gap"`
	LadderSideways bool    `yaml:"ladder_sideways"`
	LadderJumpOff  float64 `yaml:"ladder_jump_off_speed"`
}

type StaminaSpec struct {
	Max         float64 `yaml:"max"`
	DrainRate   float64 `yaml:"drain_rate"`
	RegenRate   float64 `yaml:"regen_rate"`
	RecoverTime float64 `yaml:"recover_time"`
}

type TagsSpec struct {
	Activation []string `yaml:"activation"`
	Required   []string `yaml:"required"`
	Blocking   []string `yaml:"blocking"`
	CancelWith []string `yaml:"cancel_with"`
}

// AbilitySpec is one roster entry. Kind names a built-in ability or
// "script"; missing tags and auto_start fall back to the built-in defaults.
type AbilitySpec struct {
	Name      string    `yaml:"name"`
	Kind      string    `yaml:"kind"`
	Script    string    `yaml:"script"`
	AutoStart *bool     `yaml:"auto_start"`
	Tags      *TagsSpec `yaml:"tags"`
}

type ClipSpec struct {
	Name   string  `yaml:"name"`
	Frames int     `yaml:"frames"`
	FPS    float64 `yaml:"fps"`
	Loop   bool    `yaml:"loop"`
	Blend  float64 `yaml:"blend"`
}

type CueSpec struct {
	Name   string  `yaml:"name"`
	Path   string  `yaml:"path"`
	Volume float64 `yaml:"volume"`
}

// CharacterSpec is the full tuning of one traversing character.
type CharacterSpec struct {
	Name       string        `yaml:"name"`
	Capsule    CapsuleSpec   `yaml:"capsule"`
	Gravity    float64       `yaml:"gravity"`
	Probe      ProbeSpec     `yaml:"probe"`
	Jump       JumpSpec      `yaml:"jump"`
	Movement   MovementSpec  `yaml:"movement"`
	Stamina    StaminaSpec   `yaml:"stamina"`
	Abilities  []AbilitySpec `yaml:"abilities"`
	Animations []ClipSpec    `yaml:"animations"`
	Cues       []CueSpec     `yaml:"cues"`
}

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("config: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const defaultCharacter = "character.yaml"

// DefaultCharacter returns the built-in character tuning.
func DefaultCharacter() (CharacterSpec, error) {
	data, err := DefaultsFS.ReadFile("defaults/" + defaultCharacter)
	if err != nil {
		return CharacterSpec{}, fmt.Errorf("config: load %s: %w", defaultCharacter, err)
	}
	var spec CharacterSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return CharacterSpec{}, fmt.Errorf("config: unmarshal %s: %w", defaultCharacter, err)
	}
	return spec, nil
}

// ParseCharacter validates data and decodes it over the built-in defaults, so
// a file only needs the fields it changes. Environment overrides are applied
// last.
func ParseCharacter(name string, data []byte) (CharacterSpec, error) {
	if err := Validate(data); err != nil {
		return CharacterSpec{}, fmt.Errorf("config: validate %s: %w", name, err)
	}
	spec, err := DefaultCharacter()
	if err != nil {
		return CharacterSpec{}, err
	}
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return CharacterSpec{}, fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	if err := ApplyEnv(&spec); err != nil {
		return CharacterSpec{}, err
	}
	return spec, nil
}

// LoadCharacter reads path from disk, or the built-in character when path is
// empty.
func LoadCharacter(path string) (CharacterSpec, error) {
	if path == "" {
		data, err := Load(defaultCharacter)
		if err != nil {
			return CharacterSpec{}, fmt.Errorf("config: load %s: %w", defaultCharacter, err)
		}
		return ParseCharacter(defaultCharacter, data)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CharacterSpec{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	return ParseCharacter(path, data)
}
