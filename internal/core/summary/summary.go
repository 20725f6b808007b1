// Package summary defines the hierarchical summary tree produced by the remote
// summarizer and its flattened, level-indexed form used for navigation.
package summary

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is returned when a tree or flattened tree breaks its structural
// invariants.
var ErrInvalidTree = errors.New("invalid summary tree")

// Span is a half-open [start, end) rune offset pair delimiting one sentence
// inside a section's text. It encodes to JSON as a two element array.
type Span [2]int

// Start returns the first rune offset of the sentence.
func (s Span) Start() int { return s[0] }

// End returns the rune offset one past the end of the sentence.
func (s Span) End() int { return s[1] }

// Slice returns the sentence text delimited by the span. Offsets are clamped to
// the text so a malformed span never panics.
func (s Span) Slice(text string) string {
	runes := []rune(text)
	start := min(max(s.Start(), 0), len(runes))
	end := min(max(s.End(), start), len(runes))
	return string(runes[start:end])
}

// Node is one node of the summary tree. The root holds the most abstract
// summary; children refine it.
type Node struct {
	Text            string `json:"text"`
	SentenceIndices []Span `json:"sentence_indices"`
	Children        []Node `json:"children"`
}

// Validate checks the sentence spans of every node in the tree.
func (n Node) Validate() error {
	return n.validate("root")
}

func (n Node) validate(path string) error {
	if err := validateSpans(n.Text, n.SentenceIndices); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for i, child := range n.Children {
		if err := child.validate(fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Section is one flattened node at a given level.
type Section struct {
	Text                string `json:"text"`
	SentenceIndices     []Span `json:"sentence_indices"`
	ChildrenInNextLevel []int  `json:"children_in_next_level"`
}

// Sentence returns the text of the i-th sentence. It reports false when i is out
// of range.
func (s Section) Sentence(i int) (string, bool) {
	if i < 0 || i >= len(s.SentenceIndices) {
		return "", false
	}
	return s.SentenceIndices[i].Slice(s.Text), true
}

// Sentences returns every sentence of the section in order.
func (s Section) Sentences() []string {
	out := make([]string, len(s.SentenceIndices))
	for i, span := range s.SentenceIndices {
		out[i] = span.Slice(s.Text)
	}
	return out
}

// HasChildren reports whether the section refines into the next level.
func (s Section) HasChildren() bool {
	return len(s.ChildrenInNextLevel) > 0
}

// Level is the ordered sequence of sections at one depth.
type Level []Section

// FlattenedTree maps a level index to its sections. Level 0 holds the root.
type FlattenedTree []Level

// Depth returns the number of levels.
func (t FlattenedTree) Depth() int {
	return len(t)
}

// IsDeepest reports whether level is the last level of the tree.
func (t FlattenedTree) IsDeepest(level int) bool {
	return level == len(t)-1
}

// Section returns the section at (level, index).
func (t FlattenedTree) Section(level, index int) (Section, bool) {
	if level < 0 || level >= len(t) {
		return Section{}, false
	}
	if index < 0 || index >= len(t[level]) {
		return Section{}, false
	}
	return t[level][index], true
}

// Children returns the next-level sections referenced by (level, index), in
// order. Missing references are skipped; Validate reports them.
func (t FlattenedTree) Children(level, index int) []Section {
	sec, ok := t.Section(level, index)
	if !ok || level+1 >= len(t) {
		return nil
	}
	out := make([]Section, 0, len(sec.ChildrenInNextLevel))
	for _, ci := range sec.ChildrenInNextLevel {
		if child, ok := t.Section(level+1, ci); ok {
			out = append(out, child)
		}
	}
	return out
}

// ValidateStructure checks that there are no empty levels, that every child
// reference points into the next level and that each section's children are
// contiguous and ascending. Sentence spans are not inspected; Span.Slice clamps
// them.
func (t FlattenedTree) ValidateStructure() error {
	if len(t) == 0 {
		return fmt.Errorf("%w: no levels", ErrInvalidTree)
	}
	for l, level := range t {
		if len(level) == 0 {
			return fmt.Errorf("%w: level %d is empty", ErrInvalidTree, l)
		}
		for i, sec := range level {
			for j, ci := range sec.ChildrenInNextLevel {
				if l+1 >= len(t) || ci < 0 || ci >= len(t[l+1]) {
					return fmt.Errorf("%w: level %d section %d child %d out of range", ErrInvalidTree, l, i, ci)
				}
				if j > 0 && ci != sec.ChildrenInNextLevel[j-1]+1 {
					return fmt.Errorf("%w: level %d section %d children not contiguous", ErrInvalidTree, l, i)
				}
			}
		}
	}
	return nil
}

// Validate runs ValidateStructure and additionally requires every sentence
// span to be ascending, non-overlapping and inside its section text.
func (t FlattenedTree) Validate() error {
	if err := t.ValidateStructure(); err != nil {
		return err
	}
	for l, level := range t {
		for i, sec := range level {
			if err := validateSpans(sec.Text, sec.SentenceIndices); err != nil {
				return fmt.Errorf("level %d section %d: %w", l, i, err)
			}
		}
	}
	return nil
}

func validateSpans(text string, spans []Span) error {
	n := len([]rune(text))
	prevEnd := 0
	for i, s := range spans {
		if s.Start() < prevEnd || s.End() < s.Start() || s.End() > n {
			return fmt.Errorf("%w: sentence span %d [%d,%d) invalid for text of length %d", ErrInvalidTree, i, s.Start(), s.End(), n)
		}
		prevEnd = s.End()
	}
	return nil
}
