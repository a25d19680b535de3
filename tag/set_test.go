package tag

import "testing"

func TestTagAncestry(t *testing.T) {
	cases := []struct {
		name     string
		ancestor Tag
		tag      Tag
		want     bool
	}{
		{"equal", "A.B", "A.B", true},
		{"parent_of_child", "A.B", "A.B.C", true},
		{"root_of_grandchild", "A", "A.B.C", true},
		{"child_is_not_ancestor", "A.B.C", "A.B", false},
		{"segment_boundary", "A.B", "A.BC", false},
		{"empty_never_matches", "", "A", false},
		{"sibling", "A.B", "A.C", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.ancestor.IsAncestorOf(c.tag); got != c.want {
				t.Fatalf("expected %q.IsAncestorOf(%q)=%v, got %v", c.ancestor, c.tag, c.want, got)
			}
		})
	}
}

func TestSetHasMatchesAncestorQueries(t *testing.T) {
	child := NewSet("A.B.C")
	if !child.Has("A.B") {
		t.Fatalf("expected set holding A.B.C to have A.B")
	}
	if !child.HasAny(NewSet("A.B")) {
		t.Fatalf("expected HasAny to match ancestor query")
	}
	if child.Contains("A.B") {
		t.Fatalf("expected exact match to fail for ancestor")
	}

	parent := NewSet("A.B")
	if parent.Has("A.B.C") {
		t.Fatalf("expected set holding A.B not to have descendant A.B.C")
	}
}

func TestSetHasAnyHasAll(t *testing.T) {
	active := NewSet("Grounded", "Air.Jump", "Climb.Ledge.Hang")

	cases := []struct {
		name    string
		query   Set
		wantAny bool
		wantAll bool
	}{
		{"empty", NewSet(), false, true},
		{"single_hit", NewSet("Grounded"), true, true},
		{"ancestor_hit", NewSet("Climb.Ledge"), true, true},
		{"partial", NewSet("Air", "Swim"), true, false},
		{"miss", NewSet("Swim"), false, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := active.HasAny(c.query); got != c.wantAny {
				t.Fatalf("expected HasAny=%v, got %v", c.wantAny, got)
			}
			if got := active.HasAll(c.query); got != c.wantAll {
				t.Fatalf("expected HasAll=%v, got %v", c.wantAll, got)
			}
		})
	}
}

func TestSetRemovePreservesSharedTags(t *testing.T) {
	s := NewSet()
	s.Add(NewSet("Grounded", "Move"))
	s.Add(NewSet("Grounded", "Crouch"))

	s.Remove(NewSet("Grounded", "Move"))
	if !s.Contains("Grounded") {
		t.Fatalf("expected Grounded to survive while another contributor remains")
	}
	if s.Contains("Move") {
		t.Fatalf("expected Move to be removed")
	}

	s.Remove(NewSet("Grounded", "Crouch"))
	if !s.IsEmpty() {
		t.Fatalf("expected empty set, got %s", s)
	}
}

func TestSetRemoveIgnoresAncestors(t *testing.T) {
	s := NewSet("Air.Jump")
	s.Remove(NewSet("Air"))
	if !s.Contains("Air.Jump") {
		t.Fatalf("expected ancestor removal to leave Air.Jump in place")
	}
}

func TestParseSkipsBlanks(t *testing.T) {
	s := Parse([]string{"Air", " ", "", " Climb "})
	if s.Len() != 2 || !s.Contains("Climb") {
		t.Fatalf("expected {Air, Climb}, got %s", s)
	}
}

func TestTagParentAndSegments(t *testing.T) {
	if got := Tag("A.B.C").Parent(); got != "A.B" {
		t.Fatalf("expected A.B, got %q", got)
	}
	if got := Tag("A").Parent(); got != "" {
		t.Fatalf("expected empty parent, got %q", got)
	}
	if got := len(Tag("A.B.C").Segments()); got != 3 {
		t.Fatalf("expected 3 segments, got %d", got)
	}
}
