package lpedit

import (
	"sort"
	"strconv"
	"strings"
)

// NodePath addresses an element by the ordinal index of each step among its
// parent's element children, starting below a fixed root (the document body).
// A path is only meaningful for trees parsed from the same source text.
type NodePath []int

// String renders the path as slash-separated indices; the root is "".
func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// Equal reports whether two paths address the same position.
func (p NodePath) Equal(other NodePath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Section is a top-level logical segment of the entry document.
type Section struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	NodePath      NodePath `json:"nodePath"`
	SelectorHint  string   `json:"selectorHint"`
	FrozenReasons []string `json:"frozenReasons"`
	Blocks        []*Block `json:"blocks"`
}

// Frozen reports whether the section carries any frozen reason.
func (s *Section) Frozen() bool {
	return len(s.FrozenReasons) > 0
}

// AddFrozenReason records reason once, keeping the set sorted.
func (s *Section) AddFrozenReason(reason string) {
	i := sort.SearchStrings(s.FrozenReasons, reason)
	if i < len(s.FrozenReasons) && s.FrozenReasons[i] == reason {
		return
	}
	s.FrozenReasons = append(s.FrozenReasons, "")
	copy(s.FrozenReasons[i+1:], s.FrozenReasons[i:])
	s.FrozenReasons[i] = reason
}
