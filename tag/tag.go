// Package tag implements dotted hierarchical labels and the multiset used to
// gate ability activation.
package tag

import "strings"

// Separator splits a tag into its hierarchy segments.
const Separator = "."

// Tag is an immutable dotted name such as "Air.Jump".
type Tag string

// Segments returns the dot separated parts of t.
func (t Tag) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the tag one level up, or "" for a root tag.
func (t Tag) Parent() Tag {
	i := strings.LastIndex(string(t), Separator)
	if i < 0 {
		return ""
	}
	return t[:i]
}

// IsAncestorOf reports whether t equals other or is a segment-wise prefix of
// it. "A.B" is an ancestor of "A.B.C" but not of "A.BC".
func (t Tag) IsAncestorOf(other Tag) bool {
	if t == "" {
		return false
	}
	if t == other {
		return true
	}
	return strings.HasPrefix(string(other), string(t)+Separator)
}

func (t Tag) String() string {
	return string(t)
}
