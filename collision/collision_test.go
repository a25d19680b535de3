package collision

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestCapsuleAtSpansHeight(t *testing.T) {
	c := CapsuleAt(mgl64.Vec3{1, 2, 3}, 1.8, 0.3)
	if !c.A.ApproxEqual(mgl64.Vec3{1, 2.3, 3}) || !c.B.ApproxEqual(mgl64.Vec3{1, 3.5, 3}) {
		t.Fatalf("expected segment 2.3..3.5, got %v..%v", c.A, c.B)
	}

	squat := CapsuleAt(mgl64.Vec3{}, 0.4, 0.3)
	if !squat.A.ApproxEqual(squat.B) {
		t.Fatalf("expected degenerate capsule for height < 2r, got %v..%v", squat.A, squat.B)
	}
}

func TestNearestGrabPoint(t *testing.T) {
	s := &Surface{GrabPoints: []GrabPoint{
		{Name: "a", Position: mgl64.Vec3{0, 0, 0}},
		{Name: "b", Position: mgl64.Vec3{5, 0, 0}},
		{Name: "c", Position: mgl64.Vec3{10, 0, 0}},
	}}
	gp, ok := s.NearestGrabPoint(mgl64.Vec3{6, 1, 0})
	if !ok || gp.Name != "b" {
		t.Fatalf("expected b, got %q ok=%v", gp.Name, ok)
	}
	if _, ok := (&Surface{}).NearestGrabPoint(mgl64.Vec3{}); ok {
		t.Fatalf("expected no grab point on bare surface")
	}
}

func TestSortHitsAndFirstOn(t *testing.T) {
	a := &Surface{ID: 1}
	b := &Surface{ID: 2}
	hits := []Hit{{Distance: 3, Surface: a}, {Distance: 1, Surface: b}, {Distance: 2, Surface: a}}
	SortHits(hits)
	if hits[0].Surface != b || hits[1].Distance != 2 {
		t.Fatalf("unexpected order: %+v", hits)
	}
	h, ok := FirstOn(hits, a)
	if !ok || h.Distance != 2 {
		t.Fatalf("expected nearest hit on a at 2, got %+v ok=%v", h, ok)
	}
}

func TestLayerOverlaps(t *testing.T) {
	if !(LayerClimbable | LayerBlocking).Overlaps(LayerBlocking) {
		t.Fatalf("expected overlap")
	}
	if LayerLadder.Overlaps(LayerClimbable) {
		t.Fatalf("expected no overlap")
	}
}
