package abilities

type LocomotionParams struct {
	Speed float64
}

type JumpParams struct {
	// Speed and Height shape the unassisted jump.
	Speed  float64
	Height float64
	// MinAirTime keeps the jump from ending on the frame it leaves the floor.
	MinAirTime float64
	// AssistGrace is how long past the predicted flight time the climb
	// ability keeps waiting for the predicted ledge.
	AssistGrace float64
}

type ClimbParams struct {
	ShimmySpeed float64
	// CornerCooldown stops a held direction from chaining corner turns.
	CornerCooldown float64
	// ClimbUpForward is how far past the edge the feet land after climbing up.
	ClimbUpForward float64
	// RegrabBlock hides a dropped surface from the probe for this long.
	RegrabBlock float64
	// CatchDistance is how close the body must come to a predicted grab pose.
	CatchDistance float64
}

type LadderParams struct {
	Speed         float64
	Gap           float64
	AllowSideways bool
	// JumpOffSpeed pushes the body away from the ladder on a jump.
	JumpOffSpeed float64
}

type StaminaParams struct {
	Max       float64
	DrainRate float64
	RegenRate float64
}

type ExhaustedParams struct {
	RecoverTime float64
}

// Params collects the tuning of every built-in ability.
type Params struct {
	Locomotion LocomotionParams
	Jump       JumpParams
	Climb      ClimbParams
	Ladder     LadderParams
	Stamina    StaminaParams
	Exhausted  ExhaustedParams
}

func DefaultParams() Params {
	return Params{
		Locomotion: LocomotionParams{Speed: 4},
		Jump: JumpParams{
			Speed:       4,
			Height:      1,
			MinAirTime:  0.1,
			AssistGrace: 0.5,
		},
		Climb: ClimbParams{
			ShimmySpeed:    1.5,
			CornerCooldown: 0.3,
			ClimbUpForward: 0.5,
			RegrabBlock:    0.5,
			CatchDistance:  0.6,
		},
		Ladder: LadderParams{
			Speed:         2,
			Gap:           0.05,
			AllowSideways: true,
			JumpOffSpeed:  3,
		},
		Stamina:   StaminaParams{Max: 10, DrainRate: 1, RegenRate: 2},
		Exhausted: ExhaustedParams{RecoverTime: 2},
	}
}
