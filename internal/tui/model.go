// Package tui implements the layered reader: one card per summary level,
// with hover and click lookups that highlight the matching detail in the
// next level.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/cache"
	"github.com/colonyops/clarity/internal/core/config"
	"github.com/colonyops/clarity/internal/core/highlight"
	"github.com/colonyops/clarity/internal/core/logging"
	"github.com/colonyops/clarity/internal/core/settle"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/core/summary"
	"github.com/colonyops/clarity/internal/remote"
	"github.com/colonyops/clarity/pkg/executil"
)

// Loader extracts the article to read.
type Loader interface {
	Load(ctx context.Context, source string) (article.Article, error)
}

// Summarizer answers summary and similarity requests, normally through the
// response cache.
type Summarizer interface {
	FlattenedSummary(ctx context.Context, text string) (summary.FlattenedTree, error)
	Similarity(ctx context.Context, source string, targets []string) (remote.Match, error)
	Stats() cache.Stats
}

// History records opened articles.
type History interface {
	Record(ctx context.Context, source, title string) error
}

// Options configures the reader.
type Options struct {
	Source     string            // URL, path or "-"
	Loader     Loader            // required
	Summarizer Summarizer        // required
	History    History           // optional
	Opener     executil.Executor // optional; opens the source outside the reader
}

// UIState represents the current state of the reader.
type UIState int

const (
	stateLoading UIState = iota
	stateReady
	stateFailed
)

func logger() *zerolog.Logger {
	l := logging.Component("tui")
	return &l
}

// Model is the Bubble Tea model of one reader view.
type Model struct {
	ctx  context.Context
	cfg  *config.Config
	opts Options

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
	height  int

	state          UIState
	loadingMessage string
	err            error
	article        article.Article

	tree  summary.FlattenedTree
	coord *highlight.Coordinator
	gate  *settle.Gate[target]
	cards []*cardView
	first int // index of the first fully shown card

	pointer  target // sentence under the mouse or keyboard cursor
	cursor   target // keyboard cursor
	keyboard bool   // the cursor was moved with keys since the last mouse move

	showSource bool
	source     viewport.Model
	showHelp   bool

	status string // last lookup problem, cleared by the next success
}

// New creates a reader for opts.Source.
func New(ctx context.Context, cfg *config.Config, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return Model{
		ctx:            logging.WithViewID(ctx, logging.NewViewID()),
		cfg:            cfg,
		opts:           opts,
		keys:           newKeyMap(),
		help:           help.New(),
		spinner:        s,
		state:          stateLoading,
		loadingMessage: "Fetching article",
		gate:           settle.New[target](cfg.HoverSettle),
		pointer:        noTarget,
		cursor:         noTarget,
	}
}

// Init starts loading the article.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadArticleCmd(m.ctx, m.opts.Loader, m.opts.Source))
}

// Err returns the error that stopped the reader from loading, if any.
func (m Model) Err() error {
	return m.err
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.relayout()
		m.resizeSource()
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case articleLoadedMsg:
		return m.handleArticle(msg.article)

	case treeLoadedMsg:
		return m.handleTree(msg.tree)

	case loadFailedMsg:
		m.state = stateFailed
		m.err = msg.err
		logger().Error().Ctx(m.ctx).Err(msg.err).Str("source", m.opts.Source).Msg("failed to load")
		return m, nil

	case settleMsg:
		t, ok := m.gate.Fire(msg.ticket, m.pointer)
		if !ok {
			return m, nil
		}
		cmd = m.hover(t)
		m.refresh()
		return m, cmd

	case lookupDoneMsg:
		cmd = m.handleLookup(msg)
		m.refresh()
		return m, cmd

	case scrollFrameMsg:
		return m, m.handleScrollFrame(msg)

	case sourceOpenedMsg:
		if msg.err != nil {
			logger().Warn().Ctx(m.ctx).Err(msg.err).Str("source", m.article.Source).Msg("failed to open source")
			m.status = "could not open the source"
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleArticle(a article.Article) (tea.Model, tea.Cmd) {
	m.article = a
	m.ctx = logging.WithDocKey(m.ctx, cache.FlattenedSummaryKey(a.Text))
	m.loadingMessage = "Summarizing"
	m.resizeSource()

	logger().Info().Ctx(m.ctx).
		Str("source", a.Source).
		Str("title", a.Title).
		Int("chars", len(a.Text)).
		Msg("article loaded")

	cmds := []tea.Cmd{summarizeCmd(m.ctx, m.opts.Summarizer, a.Text)}
	if m.opts.History != nil {
		cmds = append(cmds, recordHistoryCmd(m.ctx, m.opts.History, a))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleTree(tree summary.FlattenedTree) (tea.Model, tea.Cmd) {
	m.tree = tree
	m.coord = highlight.New(tree)
	m.state = stateReady
	m.err = nil
	m.first = 0
	m.pointer = noTarget
	m.cursor = m.firstSentenceFrom(0, 0)
	if !m.cursor.valid() {
		m.cursor = target{}
	}
	m.cards = nil
	m.relayout()

	logger().Info().Ctx(m.ctx).Int("levels", tree.Depth()).Msg("summary ready")
	return m, nil
}

// hover runs a settled hover through the coordinator. Sections with no
// children are highlighted in place since there is nothing to look up.
func (m *Model) hover(t target) tea.Cmd {
	if !m.refines(t) {
		if err := m.coord.Select(t.card, t.section, t.sentence); err != nil {
			logger().Warn().Ctx(m.ctx).Err(err).Msg("hover rejected")
		}
		return nil
	}

	l, err := m.coord.Hover(t.card, t.section, t.sentence)
	if err != nil {
		logger().Warn().Ctx(m.ctx).Err(err).Msg("hover rejected")
		return nil
	}
	if l == nil {
		return nil
	}
	return lookupCmd(m.ctx, m.opts.Summarizer, *l)
}

// click runs a click through the coordinator. It bypasses the settle gate.
// Clicks on sections with no children have nowhere to navigate.
func (m *Model) click(t target) tea.Cmd {
	m.gate.Leave()

	if !m.refines(t) {
		logger().Debug().Ctx(m.ctx).
			Int("level", t.card).
			Int("section", t.section).
			Msg("click on leaf section ignored")
		return nil
	}

	l, err := m.coord.Click(t.card, t.section, t.sentence)
	if err != nil {
		logger().Warn().Ctx(m.ctx).Err(err).Msg("click rejected")
		return nil
	}
	if l == nil {
		return nil
	}
	return lookupCmd(m.ctx, m.opts.Summarizer, *l)
}

// refines reports whether t sits in a section that has children to look up.
func (m *Model) refines(t target) bool {
	sec, ok := m.tree.Section(t.card, t.section)
	return ok && sec.HasChildren()
}

func (m *Model) handleLookup(msg lookupDoneMsg) tea.Cmd {
	l := msg.lookup
	if m.coord == nil {
		return nil
	}

	if msg.err != nil {
		if m.coord.Fail(l) {
			m.status = "similarity lookup failed"
		}
		logger().Warn().Ctx(m.ctx).Err(msg.err).
			Stringer("trigger", l.Trigger).
			Int("level", l.Level).
			Int("section", l.Section).
			Msg("similarity lookup failed")
		return nil
	}

	applied, err := m.coord.Resolve(l, msg.match.TargetIndex, msg.match.SentenceIndex)
	if err != nil {
		m.status = "similarity returned an unknown sentence"
		logger().Warn().Ctx(m.ctx).Err(err).
			Int("target", msg.match.TargetIndex).
			Int("sentence", msg.match.SentenceIndex).
			Msg("similarity match rejected")
		return nil
	}
	if !applied {
		logger().Debug().Ctx(m.ctx).Uint64("token", l.Token).Msg("stale lookup dropped")
		return nil
	}

	m.status = ""
	st := m.coord.State()

	if l.Trigger == highlight.TriggerClick {
		if pinned, ok := st.SentenceIndex(); ok {
			m.cursor = target{card: st.Card, section: st.Section, sentence: pinned}
		}
	}

	if !st.ScrollTo {
		return nil
	}
	return m.reveal(st.Card, st.Section)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch {
	case m.showHelp:
		if key.Matches(msg, m.keys.Close, m.keys.Help, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil

	case m.showSource:
		if key.Matches(msg, m.keys.Close, m.keys.Source, m.keys.Quit) {
			m.showSource = false
			return m, nil
		}
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Retry) && m.state == stateFailed:
		return m.retry()
	case key.Matches(msg, m.keys.Source) && m.article.Text != "":
		m.showSource = true
		m.resizeSource()
		return m, nil
	case key.Matches(msg, m.keys.Browser) && m.canOpen():
		return m, openSourceCmd(m.ctx, m.opts.Opener, m.article.Source)
	}

	if m.state != stateReady {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown) && m.cursor.card < len(m.cards):
		c := m.cards[m.cursor.card]
		step := c.vp.Height / 2
		if key.Matches(msg, m.keys.PageUp) {
			step = -step
		}
		c.scrollBy(step)
	case key.Matches(msg, m.keys.Left):
		cmd = m.moveCursor(m.cursorLeft())
	case key.Matches(msg, m.keys.Right):
		cmd = m.moveCursor(m.cursorRight())
	case key.Matches(msg, m.keys.Up):
		cmd = m.moveCursor(m.cursorStep(-1))
	case key.Matches(msg, m.keys.Down):
		cmd = m.moveCursor(m.cursorStep(1))
	case key.Matches(msg, m.keys.Follow):
		m.keyboard = true
		cmd = m.click(m.cursor)
	}

	m.refresh()
	return m, cmd
}

// canOpen reports whether the source can be shown outside the reader; text
// read from stdin has nowhere to go.
func (m Model) canOpen() bool {
	return m.opts.Opener != nil && m.article.Source != "" && m.article.Source != article.StdinSource
}

func (m Model) retry() (tea.Model, tea.Cmd) {
	m.state = stateLoading
	m.err = nil

	var load tea.Cmd
	if m.article.Text != "" {
		m.loadingMessage = "Summarizing"
		load = summarizeCmd(m.ctx, m.opts.Summarizer, m.article.Text)
	} else {
		m.loadingMessage = "Fetching article"
		load = loadArticleCmd(m.ctx, m.opts.Loader, m.opts.Source)
	}

	logger().Info().Ctx(m.ctx).Str("source", m.opts.Source).Msg("retrying")
	return m, tea.Batch(m.spinner.Tick, load)
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showSource {
		var cmd tea.Cmd
		m.source, cmd = m.source.Update(msg)
		return m, cmd
	}
	if m.state != stateReady || m.showHelp {
		return m, nil
	}

	h := m.hitTest(msg.X, msg.Y)

	var cmd tea.Cmd
	switch {
	case msg.Button == tea.MouseButtonWheelUp && h.card >= 0:
		m.cards[h.card].scrollBy(-wheelLines)
	case msg.Button == tea.MouseButtonWheelDown && h.card >= 0:
		m.cards[h.card].scrollBy(wheelLines)
	case msg.Action == tea.MouseActionMotion:
		m.keyboard = false
		cmd = m.point(h.target)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		switch {
		case h.strip >= 0:
			m.first = h.strip
		case h.target.valid():
			m.keyboard = false
			m.cursor = h.target
			cmd = m.click(h.target)
		}
	}

	m.refresh()
	return m, cmd
}

// point records the sentence under the pointer and arms the settle gate when
// it changed.
func (m *Model) point(t target) tea.Cmd {
	if t == m.pointer {
		return nil
	}
	m.pointer = t

	if !t.valid() {
		m.gate.Leave()
		return nil
	}
	return settleCmd(m.gate.Delay, m.gate.Enter(t))
}

// moveCursor places the keyboard cursor and treats it as a hover.
func (m *Model) moveCursor(t target) tea.Cmd {
	if !t.valid() || t == m.cursor {
		return nil
	}
	m.keyboard = true
	m.cursor = t
	m.ensureVisible(t.card)
	if row, ok := m.cards[t.card].layout.sentenceLine(t.section, t.sentence); ok {
		m.showLine(t.card, row)
	}
	return m.point(t)
}

// cursorStep returns the sentence delta steps from the cursor within its card,
// skipping sections without sentences.
func (m Model) cursorStep(delta int) target {
	level := m.sectionsOf(m.cursor.card)
	section, sentence := m.cursor.section, m.cursor.sentence + delta

	for section >= 0 && section < len(level) {
		n := len(level[section].SentenceIndices)
		switch {
		case sentence < 0:
			section--
			if section >= 0 {
				sentence = len(level[section].SentenceIndices) - 1
			}
		case sentence >= n:
			section++
			sentence = 0
		default:
			return target{card: m.cursor.card, section: section, sentence: sentence}
		}
	}
	return noTarget
}

// cursorRight moves into the first child of the cursor's section, or the
// first sentence of the next level.
func (m Model) cursorRight() target {
	card := m.cursor.card + 1
	if card >= len(m.tree) {
		return noTarget
	}

	section := 0
	if sec, ok := m.tree.Section(m.cursor.card, m.cursor.section); ok && sec.HasChildren() {
		section = sec.ChildrenInNextLevel[0]
	}
	return m.firstSentenceFrom(card, section)
}

// cursorLeft moves to the parent of the cursor's section.
func (m Model) cursorLeft() target {
	card := m.cursor.card - 1
	if card < 0 {
		return noTarget
	}

	for i, sec := range m.tree[card] {
		for _, child := range sec.ChildrenInNextLevel {
			if child == m.cursor.section {
				return m.firstSentenceFrom(card, i)
			}
		}
	}
	return m.firstSentenceFrom(card, 0)
}

func (m Model) firstSentenceFrom(card, section int) target {
	level := m.sectionsOf(card)
	for ; section < len(level); section++ {
		if len(level[section].SentenceIndices) > 0 {
			return target{card: card, section: section, sentence: 0}
		}
	}
	return noTarget
}
