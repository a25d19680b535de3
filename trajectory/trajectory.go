// Package trajectory solves ballistic launch velocities in closed form.
package trajectory

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/traverse/common"
)

// Mode picks between the two candidate arcs.
type Mode int

const (
	// ChooseBest takes the lower, faster arc when it fits the horizontal
	// speed budget and falls back to the maximum-height arc otherwise.
	ChooseBest Mode = iota
	// Faster always takes the arc whose apex is clamped to the rise.
	Faster
	// Highest always takes the maximum-height arc.
	Highest
)

func (m Mode) String() string {
	switch m {
	case ChooseBest:
		return "choose_best"
	case Faster:
		return "faster"
	case Highest:
		return "highest"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "choose_best", "best":
		return ChooseBest, nil
	case "faster", "fast":
		return Faster, nil
	case "highest", "high":
		return Highest, nil
	}
	return ChooseBest, fmt.Errorf("trajectory: unknown mode %q", s)
}

// Params bounds a jump.
type Params struct {
	MaxHeight          float64
	MinHeight          float64
	MaxHorizontalSpeed float64
	// Gravity is the signed acceleration along world Y. Either sign works;
	// "up" is always the direction opposite to it.
	Gravity float64
}

// Solution is a launch velocity reaching Target after Time seconds.
type Solution struct {
	Velocity        mgl64.Vec3
	Target          mgl64.Vec3
	Time            float64
	Apex            float64
	HorizontalSpeed float64
	Found           bool
}

type arc struct {
	apex     float64
	time     float64
	speed    float64
	feasible bool
}

// Solve computes the launch velocity from start to target.
func Solve(start, target mgl64.Vec3, p Params, mode Mode) Solution {
	out := Solution{Target: target}
	if p.Gravity == 0 {
		return out
	}
	upSign := -math.Copysign(1, p.Gravity)
	disp := target.Sub(start)
	rise := disp.Y() * upSign
	horizontal := common.Horizontal(disp)
	dist := horizontal.Len()

	if rise > p.MaxHeight {
		return out
	}

	high := solveArc(p.MaxHeight, rise, dist, p)
	low := solveArc(common.Clamp(rise, p.MinHeight, p.MaxHeight), rise, dist, p)

	var chosen arc
	switch mode {
	case Faster:
		chosen = low
	case Highest:
		chosen = high
	default:
		switch {
		case low.feasible && low.time < high.time:
			chosen = low
		case high.feasible:
			chosen = high
		default:
			return out
		}
	}
	if math.IsInf(chosen.speed, 1) {
		// zero flight time toward a horizontally distant target
		return out
	}

	vy := upSign * math.Sqrt(2*math.Abs(p.Gravity)*chosen.apex)
	dir := common.SafeNormalize(horizontal)
	out.Velocity = dir.Mul(chosen.speed).Add(mgl64.Vec3{0, vy, 0})
	out.Time = chosen.time
	out.Apex = chosen.apex
	out.HorizontalSpeed = chosen.speed
	out.Found = true
	return out
}

func solveArc(apex, rise, dist float64, p Params) arc {
	g := math.Abs(p.Gravity)
	up := math.Sqrt(2 * apex / g)
	fall := apex - rise
	if fall < 0 {
		fall = 0
	}
	down := math.Sqrt(2 * fall / g)
	t := up + down

	a := arc{apex: apex, time: t}
	switch {
	case t > 0:
		a.speed = dist / t
	case dist > 0:
		a.speed = math.Inf(1)
	}
	a.feasible = a.speed <= p.MaxHorizontalSpeed
	return a
}

// PositionAt evaluates the arc t seconds after launch from start.
func PositionAt(start mgl64.Vec3, sol Solution, gravity, t float64) mgl64.Vec3 {
	return start.Add(sol.Velocity.Mul(t)).Add(mgl64.Vec3{0, 0.5 * gravity * t * t, 0})
}

// Sample returns n+1 evenly spaced points from launch to landing.
func Sample(start mgl64.Vec3, sol Solution, gravity float64, n int) []mgl64.Vec3 {
	if n < 1 {
		n = 1
	}
	out := make([]mgl64.Vec3, 0, n+1)
	for i := 0; i <= n; i++ {
		t := sol.Time * float64(i) / float64(n)
		out = append(out, PositionAt(start, sol, gravity, t))
	}
	return out
}
