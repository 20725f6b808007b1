// Package highlight coordinates similarity lookups triggered by hovers and
// clicks into a single highlighted location. Lookups may resolve out of order;
// only the most recently issued one is allowed to change the state.
package highlight

import (
	"errors"
	"fmt"
	"sync"

	"github.com/colonyops/clarity/internal/core/summary"
)

var (
	// ErrSectionRange is returned when a level or section index does not
	// exist in the tree.
	ErrSectionRange = errors.New("section out of range")
	// ErrSentenceRange is returned when a sentence index does not exist in
	// its section.
	ErrSentenceRange = errors.New("sentence out of range")
	// ErrNoChildren is returned when a lookup is requested for a section
	// that does not refine into the next level.
	ErrNoChildren = errors.New("section has no children")
	// ErrBadMatch is returned when a similarity match does not point at a
	// child sentence of the looked up section.
	ErrBadMatch = errors.New("similarity match out of range")
)

// Trigger is the user action that issued a lookup.
type Trigger int

const (
	TriggerHover Trigger = iota
	TriggerClick
)

func (t Trigger) String() string {
	switch t {
	case TriggerHover:
		return "hover"
	case TriggerClick:
		return "click"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

// State is the highlighted location. Card indexes a level and Section a
// section inside it. Sentence, when set, pins one sentence of the section.
// ScrollTo asks the view to bring the section into view.
type State struct {
	Card     int
	Section  int
	Sentence *int
	ScrollTo bool
}

// SentenceIndex returns the pinned sentence, if any.
func (s State) SentenceIndex() (int, bool) {
	if s.Sentence == nil {
		return 0, false
	}
	return *s.Sentence, true
}

// Is reports whether the state highlights (card, section).
func (s *State) Is(card, section int) bool {
	return s != nil && s.Card == card && s.Section == section
}

// Dims reports whether (card, section) is off the highlighted path. With
// nothing highlighted, nothing is dimmed. Cards left of the highlighted card
// stay bright.
func (s *State) Dims(card, section int) bool {
	if s == nil || s.Is(card, section) {
		return false
	}
	return card >= s.Card
}

func (s *State) clone() *State {
	if s == nil {
		return nil
	}
	c := *s
	if s.Sentence != nil {
		v := *s.Sentence
		c.Sentence = &v
	}
	return &c
}

// Lookup is a similarity request issued by the coordinator. Resolve or Fail
// must be called with the same value once the request completes.
type Lookup struct {
	Token    uint64
	Trigger  Trigger
	Level    int
	Section  int
	Sentence int
	Source   string   // text of the hovered sentence
	Targets  []string // texts of the section's children, in order
}

// Coordinator owns the highlight state of one document view.
type Coordinator struct {
	mu    sync.Mutex
	tree  summary.FlattenedTree
	state *State
	token uint64
}

// New creates an idle coordinator for tree.
func New(tree summary.FlattenedTree) *Coordinator {
	return &Coordinator{tree: tree}
}

// State returns a copy of the current state, or nil when idle.
func (c *Coordinator) State() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Outstanding returns the token of the most recently issued lookup.
func (c *Coordinator) Outstanding() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// Hover handles the pointer resting on a sentence. At the deepest level the
// section is highlighted directly and no lookup is returned; any lookup still
// in flight becomes stale. Otherwise the returned lookup must be performed by
// the caller.
func (c *Coordinator) Hover(level, section, sentence int) (*Lookup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSentence(level, section, sentence); err != nil {
		return nil, err
	}

	if c.tree.IsDeepest(level) {
		c.selectLocked(level, section)
		return nil, nil
	}

	return c.issue(TriggerHover, level, section, sentence)
}

// Select highlights a section in place without a lookup, the way a hover on
// the deepest level does. Callers use it for leaf sections above the deepest
// level, which have nothing to look up. Any lookup in flight becomes stale.
func (c *Coordinator) Select(level, section, sentence int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSentence(level, section, sentence); err != nil {
		return err
	}
	c.selectLocked(level, section)
	return nil
}

func (c *Coordinator) selectLocked(level, section int) {
	c.token++
	c.state = &State{Card: level, Section: section}
}

// Click handles a click on a sentence. Clicks at the deepest level have
// nowhere to navigate and return no lookup.
func (c *Coordinator) Click(level, section, sentence int) (*Lookup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkSentence(level, section, sentence); err != nil {
		return nil, err
	}

	if c.tree.IsDeepest(level) {
		return nil, nil
	}

	return c.issue(TriggerClick, level, section, sentence)
}

// Resolve applies the result of l. It returns false without error when l has
// been superseded by a newer lookup. A match that does not point at one of the
// section's children leaves the state unchanged and returns ErrBadMatch.
func (c *Coordinator) Resolve(l Lookup, targetIndex, sentenceIndex int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if l.Token != c.token {
		return false, nil
	}

	sec, _ := c.tree.Section(l.Level, l.Section)
	children := c.tree.Children(l.Level, l.Section)
	if targetIndex < 0 || targetIndex >= len(children) {
		return false, fmt.Errorf("%w: target %d of %d children", ErrBadMatch, targetIndex, len(children))
	}
	if sentenceIndex < 0 || sentenceIndex >= len(children[targetIndex].SentenceIndices) {
		return false, fmt.Errorf("%w: sentence %d of target %d", ErrBadMatch, sentenceIndex, targetIndex)
	}

	card := l.Level + 1
	global := sec.ChildrenInNextLevel[0] + targetIndex

	scrollTo := l.Trigger == TriggerClick || !c.state.Is(card, global)

	pinned := sentenceIndex
	c.state = &State{
		Card:     card,
		Section:  global,
		Sentence: &pinned,
		ScrollTo: scrollTo,
	}
	return true, nil
}

// Fail records that l failed. The state never changes; it reports whether l
// was still the outstanding lookup.
func (c *Coordinator) Fail(l Lookup) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return l.Token == c.token
}

func (c *Coordinator) issue(trigger Trigger, level, section, sentence int) (*Lookup, error) {
	sec, _ := c.tree.Section(level, section)
	if !sec.HasChildren() {
		return nil, fmt.Errorf("%w: level %d section %d", ErrNoChildren, level, section)
	}

	source, _ := sec.Sentence(sentence)
	children := c.tree.Children(level, section)
	targets := make([]string, len(children))
	for i, child := range children {
		targets[i] = child.Text
	}

	c.token++
	return &Lookup{
		Token:    c.token,
		Trigger:  trigger,
		Level:    level,
		Section:  section,
		Sentence: sentence,
		Source:   source,
		Targets:  targets,
	}, nil
}

func (c *Coordinator) checkSentence(level, section, sentence int) error {
	sec, ok := c.tree.Section(level, section)
	if !ok {
		return fmt.Errorf("%w: level %d section %d", ErrSectionRange, level, section)
	}
	if sentence < 0 || sentence >= len(sec.SentenceIndices) {
		return fmt.Errorf("%w: sentence %d of %d", ErrSentenceRange, sentence, len(sec.SentenceIndices))
	}
	return nil
}
