package tui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/cache"
	"github.com/colonyops/clarity/internal/core/config"
	"github.com/colonyops/clarity/internal/core/settle"
	"github.com/colonyops/clarity/internal/core/summary"
	"github.com/colonyops/clarity/internal/remote"
	"github.com/colonyops/clarity/pkg/executil"
	"github.com/colonyops/clarity/pkg/tuitest"
)

type fakeLoader struct {
	article article.Article
	err     error
}

func (f *fakeLoader) Load(_ context.Context, source string) (article.Article, error) {
	if f.err != nil {
		return article.Article{}, f.err
	}
	a := f.article
	a.Source = source
	return a, nil
}

type fakeSummarizer struct {
	mu      sync.Mutex
	tree    summary.FlattenedTree
	treeErr error
	match   remote.Match
	err     error
	sources []string
}

func (f *fakeSummarizer) FlattenedSummary(context.Context, string) (summary.FlattenedTree, error) {
	return f.tree, f.treeErr
}

func (f *fakeSummarizer) Similarity(_ context.Context, source string, _ []string) (remote.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	return f.match, f.err
}

func (f *fakeSummarizer) Stats() cache.Stats {
	return cache.Stats{Hits: 2, Misses: 1, RemoteCalls: 1}
}

type fakeHistory struct {
	recorded []string
}

func (f *fakeHistory) Record(_ context.Context, source, _ string) error {
	f.recorded = append(f.recorded, source)
	return nil
}

// testTree has a root with two children; the second child has two sentences.
func testTree() summary.FlattenedTree {
	return summary.Flatten(summary.NewNode(
		[]string{"Root one.", "Root two."},
		summary.NewNode([]string{"Child a."}),
		summary.NewNode([]string{"Child b1.", "Child b2."}),
	))
}

func newTestModel(t *testing.T, fs *fakeSummarizer) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	m := New(context.Background(), &cfg, Options{
		Source:     "notes.txt",
		Loader:     &fakeLoader{article: article.Article{Title: "Notes", Text: "Root one. Root two."}},
		Summarizer: fs,
	})
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// readyModel returns a model showing testTree on a 200x40 screen.
func readyModel(t *testing.T, fs *fakeSummarizer) Model {
	t.Helper()
	if fs.tree == nil {
		fs.tree = testTree()
	}
	m := newTestModel(t, fs)
	m, _ = update(t, m, tuitest.WindowSize(200, 40))
	m, _ = update(t, m, articleLoadedMsg{article: article.Article{Title: "Notes", Source: "notes.txt", Text: "Root one. Root two."}})
	m, _ = update(t, m, treeLoadedMsg{tree: fs.tree})
	require.Equal(t, stateReady, m.state)
	return m
}

// cell returns the screen position of the first rune of a sentence.
func cell(t *testing.T, m Model, card, sec, sentence int) (int, int) {
	t.Helper()
	c := m.cards[card]
	row, ok := c.layout.sentenceLine(sec, sentence)
	require.True(t, ok)
	for _, seg := range c.layout.lines[row].segs {
		if seg.sentence == sentence {
			x := m.first*m.overlap() + (card-m.first)*m.cardWidth() + cardChromeCols/2 + seg.colStart
			y := headerRows + 2 + row - c.vp.YOffset
			return x, y
		}
	}
	t.Fatalf("sentence %d not on line %d", sentence, row)
	return 0, 0
}

func runLookup(t *testing.T, cmd tea.Cmd) lookupDoneMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(lookupDoneMsg)
	require.True(t, ok)
	return msg
}

func TestModel_LoadFlow(t *testing.T) {
	fs := &fakeSummarizer{tree: testTree()}
	history := &fakeHistory{}
	cfg := config.DefaultConfig()
	m := New(context.Background(), &cfg, Options{
		Source:     "notes.txt",
		Loader:     &fakeLoader{article: article.Article{Title: "Notes", Text: "Root one. Root two."}},
		Summarizer: fs,
		History:    history,
	})
	assert.Equal(t, stateLoading, m.state)
	assert.Contains(t, m.View(), "Fetching article")
	m, _ = update(t, m, tuitest.WindowSize(200, 40))

	loaded := loadArticleCmd(m.ctx, m.opts.Loader, m.opts.Source)()
	m, cmd := update(t, m, loaded)
	require.NotNil(t, cmd)
	assert.Equal(t, "Summarizing", m.loadingMessage)

	tree := summarizeCmd(m.ctx, fs, m.article.Text)()
	m, _ = update(t, m, tree)
	assert.Equal(t, stateReady, m.state)
	require.Len(t, m.cards, 2)
	assert.Equal(t, target{card: 0, section: 0, sentence: 0}, m.cursor)

	recordHistoryCmd(m.ctx, history, m.article)()
	assert.Equal(t, []string{"notes.txt"}, history.recorded)

	view := tuitest.StripANSI(m.View())
	assert.Contains(t, view, "Notes")
	assert.Contains(t, view, "Level 1")
	assert.Contains(t, view, "Level 2")
	assert.Contains(t, view, "Child b2.")
}

func TestModel_LoadFailureAndRetry(t *testing.T) {
	fs := &fakeSummarizer{treeErr: errors.New("summarizer down")}
	m := newTestModel(t, fs)

	m, _ = update(t, m, loadFailedMsg{err: fs.treeErr})
	assert.Equal(t, stateFailed, m.state)
	assert.Contains(t, m.View(), "summarizer down")

	m, cmd := update(t, m, tuitest.KeyPress('r'))
	assert.Equal(t, stateLoading, m.state)
	assert.NoError(t, m.Err())
	assert.NotNil(t, cmd)
}

func TestModel_HoverSettlesIntoLookup(t *testing.T) {
	fs := &fakeSummarizer{match: remote.Match{TargetIndex: 1, SentenceIndex: 1}}
	m := readyModel(t, fs)

	x, y := cell(t, m, 0, 0, 1)
	m, cmd := update(t, m, tuitest.MouseMotion(x, y))
	require.NotNil(t, cmd, "hover arms the settle timer")
	assert.Equal(t, target{card: 0, section: 0, sentence: 1}, m.pointer)

	pending, ok := m.gate.Pending()
	require.True(t, ok)
	assert.Equal(t, m.pointer, pending)

	m, cmd = update(t, m, settleMsg{ticket: settle.Ticket(1)})
	done := runLookup(t, cmd)
	assert.Equal(t, []string{"Root two."}, fs.sources)

	m, _ = update(t, m, done)
	st := m.coord.State()
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Card)
	assert.Equal(t, 1, st.Section)
	pinned, ok := st.SentenceIndex()
	require.True(t, ok)
	assert.Equal(t, 1, pinned)
	assert.Empty(t, m.status)
}

func TestModel_HoverMovedAwayDoesNotFire(t *testing.T) {
	m := readyModel(t, &fakeSummarizer{})

	x, y := cell(t, m, 0, 0, 0)
	m, _ = update(t, m, tuitest.MouseMotion(x, y))
	m, _ = update(t, m, tuitest.MouseMotion(0, 0))
	assert.Equal(t, noTarget, m.pointer)

	m, cmd := update(t, m, settleMsg{ticket: settle.Ticket(1)})
	assert.Nil(t, cmd)
	assert.Nil(t, m.coord.State())
}

func TestModel_StaleLookupIgnored(t *testing.T) {
	fs := &fakeSummarizer{}
	m := readyModel(t, fs)

	x0, y0 := cell(t, m, 0, 0, 0)
	x1, y1 := cell(t, m, 0, 0, 1)

	fs.match = remote.Match{TargetIndex: 0, SentenceIndex: 0}
	m, cmd := update(t, m, tuitest.MouseClick(x0, y0))
	first := runLookup(t, cmd)

	fs.match = remote.Match{TargetIndex: 1, SentenceIndex: 0}
	m, cmd = update(t, m, tuitest.MouseClick(x1, y1))
	second := runLookup(t, cmd)

	m, _ = update(t, m, second)
	m, _ = update(t, m, first)

	st := m.coord.State()
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Section, "the older lookup must not overwrite the newer one")
	assert.Equal(t, target{card: 1, section: 1, sentence: 0}, m.cursor, "clicks move the cursor to the match")
}

func TestModel_LookupFailureKeepsState(t *testing.T) {
	fs := &fakeSummarizer{err: errors.New("timeout")}
	m := readyModel(t, fs)

	x, y := cell(t, m, 0, 0, 0)
	m, cmd := update(t, m, tuitest.MouseClick(x, y))
	m, _ = update(t, m, runLookup(t, cmd))

	assert.Nil(t, m.coord.State())
	assert.Equal(t, "similarity lookup failed", m.status)
	assert.Contains(t, m.View(), "similarity lookup failed")
}

func TestModel_BadMatchKeepsState(t *testing.T) {
	fs := &fakeSummarizer{match: remote.Match{TargetIndex: 5, SentenceIndex: 0}}
	m := readyModel(t, fs)

	x, y := cell(t, m, 0, 0, 0)
	m, cmd := update(t, m, tuitest.MouseClick(x, y))
	m, _ = update(t, m, runLookup(t, cmd))

	assert.Nil(t, m.coord.State())
	assert.NotEmpty(t, m.status)
}

func TestModel_DeepestLevelHover(t *testing.T) {
	fs := &fakeSummarizer{}
	m := readyModel(t, fs)

	x, y := cell(t, m, 1, 1, 1)
	m, _ = update(t, m, tuitest.MouseMotion(x, y))
	m, cmd := update(t, m, settleMsg{ticket: settle.Ticket(1)})
	assert.Nil(t, cmd, "the deepest level highlights without a lookup")

	st := m.coord.State()
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Card)
	assert.Equal(t, 1, st.Section)
	assert.Empty(t, fs.sources)

	m, cmd = update(t, m, tuitest.MouseClick(x, y))
	assert.Nil(t, cmd, "clicks on the deepest level go nowhere")
}

func TestModel_ShallowLeafHighlightsInPlace(t *testing.T) {
	// "Leaf." stops at level 2 while its sibling refines into level 3.
	fs := &fakeSummarizer{tree: summary.Flatten(summary.NewNode(
		[]string{"Root."},
		summary.NewNode([]string{"Leaf."}),
		summary.NewNode([]string{"Inner."}, summary.NewNode([]string{"Deep."})),
	))}
	m := readyModel(t, fs)
	require.Len(t, m.cards, 3)

	x, y := cell(t, m, 1, 0, 0)
	m, _ = update(t, m, tuitest.MouseMotion(x, y))
	m, cmd := update(t, m, settleMsg{ticket: settle.Ticket(1)})
	assert.Nil(t, cmd, "a leaf section has nothing to look up")

	st := m.coord.State()
	require.NotNil(t, st)
	assert.Equal(t, 1, st.Card)
	assert.Equal(t, 0, st.Section)
	_, pinned := st.SentenceIndex()
	assert.False(t, pinned)

	outstanding := m.coord.Outstanding()
	m, cmd = update(t, m, tuitest.MouseClick(x, y))
	assert.Nil(t, cmd)
	assert.Equal(t, outstanding, m.coord.Outstanding(), "clicks on a leaf issue nothing")
	assert.Empty(t, fs.sources)
}

func TestModel_KeyboardNavigation(t *testing.T) {
	m := readyModel(t, &fakeSummarizer{})

	m, cmd := update(t, m, tuitest.KeyDown())
	assert.Equal(t, target{card: 0, section: 0, sentence: 1}, m.cursor)
	assert.NotNil(t, cmd, "moving the cursor arms the settle timer")

	m, _ = update(t, m, tuitest.KeyDown())
	assert.Equal(t, target{card: 0, section: 0, sentence: 1}, m.cursor, "no sentence below")

	m, _ = update(t, m, tuitest.KeyRight())
	assert.Equal(t, target{card: 1, section: 0, sentence: 0}, m.cursor)

	m, _ = update(t, m, tuitest.KeyDown())
	assert.Equal(t, target{card: 1, section: 1, sentence: 0}, m.cursor, "down crosses into the next section")

	m, _ = update(t, m, tuitest.KeyLeft())
	assert.Equal(t, target{card: 0, section: 0, sentence: 0}, m.cursor, "left returns to the parent")

	m, cmd = update(t, m, tuitest.KeyEnter())
	done := runLookup(t, cmd)
	assert.Equal(t, "Root one.", done.lookup.Source)
}

func TestModel_RevealAnimatesScroll(t *testing.T) {
	children := make([]summary.Node, 30)
	for i := range children {
		children[i] = summary.NewNode([]string{fmt.Sprintf("Detail number %d.", i)})
	}
	fs := &fakeSummarizer{
		tree:  summary.Flatten(summary.NewNode([]string{"Root."}, children...)),
		match: remote.Match{TargetIndex: 25, SentenceIndex: 0},
	}
	m := readyModel(t, fs)
	m, _ = update(t, m, tuitest.WindowSize(200, 20))

	x, y := cell(t, m, 0, 0, 0)
	m, cmd := update(t, m, tuitest.MouseClick(x, y))
	m, cmd = update(t, m, runLookup(t, cmd))
	require.NotNil(t, cmd, "the matched section is off screen")

	c := m.cards[1]
	want := c.layout.bounds[25].Top
	msg := scrollFrameMsg{card: 1, gen: c.animGen}
	for range 20 {
		m, cmd = update(t, m, msg)
		if cmd == nil {
			break
		}
	}
	assert.Nil(t, cmd)
	assert.Equal(t, min(want, c.window().MaxOffset()), m.cards[1].vp.YOffset)

	m, cmd = update(t, m, msg)
	assert.Nil(t, cmd, "a finished animation ignores late frames")
}

func TestModel_OverlaysAndHelp(t *testing.T) {
	m := readyModel(t, &fakeSummarizer{})

	m, _ = update(t, m, tuitest.KeyPress('o'))
	assert.True(t, m.showSource)
	assert.Contains(t, m.View(), "esc close")

	m, _ = update(t, m, tuitest.KeyEsc())
	assert.False(t, m.showSource)

	m, _ = update(t, m, tuitest.KeyPress('?'))
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Mouse")

	m, _ = update(t, m, tuitest.KeyEsc())
	assert.False(t, m.showHelp)

	_, cmd := update(t, m, tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_StripClickRevealsCard(t *testing.T) {
	children := []summary.Node{summary.NewNode([]string{"Leaf."})}
	tree := summary.Flatten(summary.NewNode([]string{"Root."},
		summary.NewNode([]string{"Middle."}, children...)))

	m := readyModel(t, &fakeSummarizer{tree: tree})
	m, _ = update(t, m, tuitest.WindowSize(70, 30))

	m, _ = update(t, m, tuitest.KeyRight())
	m, _ = update(t, m, tuitest.KeyRight())
	assert.Equal(t, 2, m.first, "only one card fits")

	m, _ = update(t, m, tuitest.MouseClick(0, 5))
	assert.Equal(t, 0, m.first)
}

func TestModel_WheelScrollsCardUnderPointer(t *testing.T) {
	children := make([]summary.Node, 30)
	for i := range children {
		children[i] = summary.NewNode([]string{fmt.Sprintf("Detail number %d.", i)})
	}
	m := readyModel(t, &fakeSummarizer{tree: summary.Flatten(summary.NewNode([]string{"Root."}, children...))})
	m, _ = update(t, m, tuitest.WindowSize(200, 20))

	x := m.cardWidth() + cardChromeCols
	y := headerRows + 3
	m, _ = update(t, m, tuitest.MouseWheel(x, y, false))
	assert.Equal(t, wheelLines, m.cards[1].vp.YOffset)
	assert.Equal(t, 0, m.cards[0].vp.YOffset)

	m, _ = update(t, m, tuitest.MouseWheel(x, y, true))
	assert.Equal(t, 0, m.cards[1].vp.YOffset)
}

func TestModel_OpenSourceInBrowser(t *testing.T) {
	m := readyModel(t, &fakeSummarizer{})
	rec := &executil.RecordingExecutor{Errors: map[string]error{}}
	m.opts.Opener = rec

	_, cmd := update(t, m, tuitest.KeyPress('b'))
	require.NotNil(t, cmd)
	msg, ok := cmd().(sourceOpenedMsg)
	require.True(t, ok)
	require.NoError(t, msg.err)

	got := rec.Recorded()
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Args, "notes.txt")

	m, _ = update(t, m, sourceOpenedMsg{err: errors.New("no opener")})
	assert.Equal(t, "could not open the source", m.status)
}

func TestModel_OpenSourceDisabledForStdin(t *testing.T) {
	m := readyModel(t, &fakeSummarizer{})
	m.opts.Opener = &executil.RecordingExecutor{}
	m.article.Source = article.StdinSource

	_, cmd := update(t, m, tuitest.KeyPress('b'))
	assert.Nil(t, cmd)
}
