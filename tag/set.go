package tag

import "strings"

// Set is an unordered multiset of tags. Duplicates are legal: two owners may
// contribute the same tag and each removal only takes one occurrence away.
type Set struct {
	tags []Tag
}

func NewSet(tags ...Tag) Set {
	s := Set{}
	for _, t := range tags {
		s.AddTag(t)
	}
	return s
}

// Parse builds a set from raw strings, skipping blanks.
func Parse(raw []string) Set {
	s := Set{}
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		s.tags = append(s.tags, Tag(r))
	}
	return s
}

// Has reports whether t equals, or is an ancestor of, any contained tag.
// A set holding "A.B.C" has "A.B"; a set holding "A.B" does not have "A.B.C".
func (s Set) Has(t Tag) bool {
	for _, own := range s.tags {
		if t.IsAncestorOf(own) {
			return true
		}
	}
	return false
}

// Contains reports an exact-value match.
func (s Set) Contains(t Tag) bool {
	for _, own := range s.tags {
		if own == t {
			return true
		}
	}
	return false
}

// HasAny reports whether s has at least one tag of other. An empty other never
// matches.
func (s Set) HasAny(other Set) bool {
	for _, t := range other.tags {
		if s.Has(t) {
			return true
		}
	}
	return false
}

// HasAll reports whether s has every tag of other. An empty other always
// matches.
func (s Set) HasAll(other Set) bool {
	for _, t := range other.tags {
		if !s.Has(t) {
			return false
		}
	}
	return true
}

func (s *Set) AddTag(t Tag) {
	if t == "" {
		return
	}
	s.tags = append(s.tags, t)
}

func (s *Set) Add(other Set) {
	for _, t := range other.tags {
		s.AddTag(t)
	}
}

// RemoveTag deletes one exact occurrence of t. It reports whether anything was
// removed.
func (s *Set) RemoveTag(t Tag) bool {
	for i, own := range s.tags {
		if own == t {
			s.tags = append(s.tags[:i], s.tags[i+1:]...)
			return true
		}
	}
	return false
}

// Remove deletes one exact occurrence per tag of other. Ancestor matches are
// never removed.
func (s *Set) Remove(other Set) {
	for _, t := range other.tags {
		s.RemoveTag(t)
	}
}

func (s Set) Len() int {
	return len(s.tags)
}

func (s Set) IsEmpty() bool {
	return len(s.tags) == 0
}

// Tags returns a copy of the contained tags.
func (s Set) Tags() []Tag {
	out := make([]Tag, len(s.tags))
	copy(out, s.tags)
	return out
}

func (s Set) Clone() Set {
	return Set{tags: s.Tags()}
}

func (s Set) String() string {
	parts := make([]string, len(s.tags))
	for i, t := range s.tags {
		parts[i] = string(t)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
