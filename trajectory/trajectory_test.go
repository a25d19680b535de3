package trajectory

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var testParams = Params{
	MaxHeight:          2,
	MinHeight:          0.5,
	MaxHorizontalSpeed: 10,
	Gravity:            -10,
}

func TestSolveFeasibilityBoundary(t *testing.T) {
	cases := []struct {
		name  string
		rise  float64
		found bool
	}{
		{"below_max", 1.5, true},
		{"exactly_max", 2, true},
		{"above_max", 2.0001, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sol := Solve(mgl64.Vec3{}, mgl64.Vec3{1, c.rise, 0}, testParams, ChooseBest)
			if sol.Found != c.found {
				t.Fatalf("expected found=%v for rise %v, got %v", c.found, c.rise, sol.Found)
			}
		})
	}
}

func TestSolveModeSelection(t *testing.T) {
	target := mgl64.Vec3{4, 1, 0}

	best := Solve(mgl64.Vec3{}, target, testParams, ChooseBest)
	fast := Solve(mgl64.Vec3{}, target, testParams, Faster)
	high := Solve(mgl64.Vec3{}, target, testParams, Highest)

	if !best.Found || !fast.Found || !high.Found {
		t.Fatalf("expected every mode to find a solution")
	}
	if fast.Apex != 1 || high.Apex != 2 {
		t.Fatalf("expected apexes 1 and 2, got %v and %v", fast.Apex, high.Apex)
	}
	if fast.Time >= high.Time {
		t.Fatalf("expected the clamped arc to be faster: %v vs %v", fast.Time, high.Time)
	}
	if best.Apex != fast.Apex {
		t.Fatalf("expected ChooseBest to take the faster arc, got apex %v", best.Apex)
	}

	slow := testParams
	slow.MaxHorizontalSpeed = 5
	best = Solve(mgl64.Vec3{}, target, slow, ChooseBest)
	if !best.Found || best.Apex != 2 {
		t.Fatalf("expected ChooseBest to fall back to the high arc, got %+v", best)
	}
	forced := Solve(mgl64.Vec3{}, target, slow, Faster)
	if !forced.Found || forced.Apex != 1 || forced.HorizontalSpeed <= slow.MaxHorizontalSpeed {
		t.Fatalf("expected Faster to force the over-budget clamped arc, got %+v", forced)
	}

	slow.MaxHorizontalSpeed = 1
	if sol := Solve(mgl64.Vec3{}, target, slow, ChooseBest); sol.Found {
		t.Fatalf("expected no solution when both arcs exceed the budget")
	}
}

func TestSolveLandsOnTarget(t *testing.T) {
	cases := []struct {
		name    string
		start   mgl64.Vec3
		target  mgl64.Vec3
		params  Params
		mode    Mode
		upwards bool
	}{
		{"rise", mgl64.Vec3{1, 0, 1}, mgl64.Vec3{3, 1.5, 4}, testParams, ChooseBest, true},
		{"drop", mgl64.Vec3{}, mgl64.Vec3{2, -3, 0}, testParams, Highest, true},
		{"drop_min_height_zero", mgl64.Vec3{}, mgl64.Vec3{2, -3, 0}, Params{MaxHeight: 2, MaxHorizontalSpeed: 10, Gravity: -10}, Faster, false},
		{"y_down_gravity", mgl64.Vec3{}, mgl64.Vec3{4, -1, 0}, Params{MaxHeight: 2, MinHeight: 0.5, MaxHorizontalSpeed: 10, Gravity: 10}, ChooseBest, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			sol := Solve(c.start, c.target, c.params, c.mode)
			if !sol.Found {
				t.Fatalf("expected a solution")
			}
			end := PositionAt(c.start, sol, c.params.Gravity, sol.Time)
			if end.Sub(c.target).Len() > 1e-6 {
				t.Fatalf("expected to land on %v, got %v", c.target, end)
			}
			if c.upwards && sol.Velocity.Y() <= 0 {
				t.Fatalf("expected upward launch, got %v", sol.Velocity)
			}
			if c.params.Gravity > 0 && sol.Velocity.Y() >= 0 {
				t.Fatalf("expected launch against positive gravity to have negative Y, got %v", sol.Velocity)
			}
		})
	}
}

func TestSolveDegenerateInputs(t *testing.T) {
	if sol := Solve(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, Params{MaxHeight: 1, MaxHorizontalSpeed: 10}, ChooseBest); sol.Found {
		t.Fatalf("expected zero gravity to have no solution")
	}
	flat := Params{MaxHeight: 0, MaxHorizontalSpeed: 10, Gravity: -10}
	if sol := Solve(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, flat, Faster); sol.Found {
		t.Fatalf("expected zero flight time to distant target to fail")
	}
	if sol := Solve(mgl64.Vec3{}, mgl64.Vec3{}, flat, Faster); !sol.Found || sol.Velocity.Len() != 0 {
		t.Fatalf("expected in-place solution, got %+v", sol)
	}
}

func TestSampleEndpoints(t *testing.T) {
	sol := Solve(mgl64.Vec3{}, mgl64.Vec3{4, 1, 0}, testParams, Highest)
	pts := Sample(mgl64.Vec3{}, sol, testParams.Gravity, 8)
	if len(pts) != 9 {
		t.Fatalf("expected 9 points, got %d", len(pts))
	}
	if pts[0].Len() != 0 || pts[8].Sub(mgl64.Vec3{4, 1, 0}).Len() > 1e-6 {
		t.Fatalf("unexpected endpoints %v %v", pts[0], pts[8])
	}
	apex := 0.0
	for _, p := range pts {
		apex = math.Max(apex, p.Y())
	}
	if apex > 2+1e-9 {
		t.Fatalf("expected samples to stay under the apex, got %v", apex)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ChooseBest, Faster, Highest} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Fatalf("expected %v, got %v err=%v", m, got, err)
		}
	}
	if _, err := ParseMode("sideways"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
