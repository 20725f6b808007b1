package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/clarity/internal/core/highlight"
	"github.com/colonyops/clarity/internal/core/scroll"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/core/summary"
)

// Screen rows taken by chrome around the cards.
const (
	headerRows = 1
	statusRows = 1
	// cardChromeRows is the top border, title line and bottom border.
	cardChromeRows = 3
	// cardChromeCols is the border and padding on both sides.
	cardChromeCols = 4
	wheelLines     = 3
)

// cardView is one level of the tree rendered as a scrollable card.
type cardView struct {
	level  int
	layout cardLayout
	vp     viewport.Model

	anim    *scroll.Animation
	animGen int
}

func (c *cardView) window() scroll.Window {
	return scroll.Window{Offset: c.vp.YOffset, Height: c.vp.Height, Content: len(c.layout.lines)}
}

// scrollBy moves the viewport and cancels any running animation.
func (c *cardView) scrollBy(lines int) {
	c.stopAnimation()
	c.vp.SetYOffset(c.vp.YOffset + lines)
}

func (c *cardView) stopAnimation() {
	c.anim = nil
	c.animGen++
}

// target is a sentence on screen. It is the settle gate's comparable key.
type target struct {
	card, section, sentence int
}

var noTarget = target{card: -1, section: -1, sentence: -1}

func (t target) valid() bool {
	return t.card >= 0
}

// hit is the result of mapping a screen cell onto the card layout.
type hit struct {
	strip  int // collapsed card index, or -1
	card   int // card under the cell, or -1
	target target
}

var noHit = hit{strip: -1, card: -1, target: noTarget}

func (m Model) cardWidth() int {
	return max(m.cfg.Cards.Width, cardChromeCols+10)
}

func (m Model) overlap() int {
	return max(m.cfg.Cards.Overlap, 1)
}

func (m Model) cardsHeight() int {
	return max(m.screenHeight()-headerRows-statusRows, cardChromeRows+1)
}

// visibleCount is how many full cards fit when the cards before first are
// collapsed into strips.
func (m Model) visibleCount(first int) int {
	return max((m.screenWidth()-first*m.overlap())/m.cardWidth(), 1)
}

// ensureVisible shifts the window of full cards so card is one of them.
func (m *Model) ensureVisible(card int) {
	if card < 0 {
		return
	}
	if card < m.first {
		m.first = card
	}
	for m.first < card && card >= m.first+m.visibleCount(m.first) {
		m.first++
	}
}

// relayout rebuilds every card for the current screen size, keeping scroll
// offsets.
func (m *Model) relayout() {
	if m.tree == nil {
		return
	}

	innerW := m.cardWidth() - cardChromeCols
	vpH := m.cardsHeight() - cardChromeRows

	prev := m.cards
	m.cards = make([]*cardView, len(m.tree))
	for i, level := range m.tree {
		m.cards[i] = &cardView{
			level:  i,
			layout: layoutCard(level, innerW),
			vp:     viewport.New(innerW, vpH),
		}
	}
	m.refreshAll()

	for i, c := range m.cards {
		if i < len(prev) {
			c.animGen = prev[i].animGen + 1
			c.vp.SetYOffset(prev[i].vp.YOffset)
		}
	}
	m.ensureVisible(m.cursor.card)
}

// refreshAll re-renders every card. Cards off screen still need their line
// count for offset clamping.
func (m *Model) refreshAll() {
	st := m.coord.State()
	for i, c := range m.cards {
		m.refreshCard(i, c, st)
	}
}

// refresh re-renders the cards on screen.
func (m *Model) refresh() {
	if m.coord == nil {
		return
	}
	st := m.coord.State()
	last := min(m.first+m.visibleCount(m.first), len(m.cards))
	for i := m.first; i < last; i++ {
		m.refreshCard(i, m.cards[i], st)
	}
}

func (m *Model) refreshCard(i int, c *cardView, st *highlight.State) {
	offset := c.vp.YOffset
	c.vp.SetContent(strings.Join(c.layout.render(m.styler(i, st)), "\n"))
	c.vp.SetYOffset(offset)
}

// styler decides how each run of card i is drawn. Sections off the
// highlighted path are dimmed; the pinned sentence gets a background and the
// hovered one an underline.
func (m Model) styler(card int, st *highlight.State) lineStyler {
	pinned, hasPinned := -1, false
	if st != nil {
		pinned, hasPinned = st.SentenceIndex()
	}

	return func(section, sentence int) lipgloss.Style {
		base := styles.SectionStyle
		switch {
		case st.Is(card, section):
			base = styles.SectionFocusStyle
		case st.Dims(card, section):
			base = styles.SectionDimStyle
		}

		if sentence == noSentence {
			return base
		}

		here := target{card: card, section: section, sentence: sentence}
		switch {
		case hasPinned && st.Is(card, section) && sentence == pinned:
			return styles.SentencePinnedStyle.Inherit(base)
		case here == m.cursor && m.keyboard:
			return styles.SentenceCursorStyle.Inherit(base)
		case here == m.pointer:
			return styles.SentenceHoverStyle.Inherit(base)
		}
		return base
	}
}

// hitTest maps a screen cell to a strip, a card and the sentence under it.
func (m Model) hitTest(x, y int) hit {
	if m.tree == nil || y < headerRows || y >= headerRows+m.cardsHeight() {
		return noHit
	}

	stripsW := m.first * m.overlap()
	if x < stripsW {
		return hit{strip: x / m.overlap(), card: -1, target: noTarget}
	}

	card := m.first + (x-stripsW)/m.cardWidth()
	if card >= len(m.cards) || card >= m.first+m.visibleCount(m.first) {
		return noHit
	}

	h := hit{strip: -1, card: card, target: noTarget}

	c := m.cards[card]
	col := x - stripsW - (card-m.first)*m.cardWidth() - cardChromeCols/2
	row := y - headerRows - 2
	if col < 0 || row < 0 || row >= c.vp.Height {
		return h
	}

	if section, sentence, ok := c.layout.at(row+c.vp.YOffset, col); ok {
		h.target = target{card: card, section: section, sentence: sentence}
	}
	return h
}

// reveal brings section of card into view, animating the card's viewport.
func (m *Model) reveal(card, section int) tea.Cmd {
	if card < 0 || card >= len(m.cards) {
		return nil
	}
	m.ensureVisible(card)

	c := m.cards[card]
	if section < 0 || section >= len(c.layout.bounds) {
		return nil
	}

	offset, move := scroll.Decide(c.layout.bounds[section], c.window())
	if !move {
		return nil
	}

	c.stopAnimation()
	c.anim = scroll.NewAnimation(c.vp.YOffset, offset, m.cfg.Scroll.Frames)
	return scrollFrameCmd(m.cfg.Scroll.FrameInterval, card, c.animGen)
}

func (m *Model) handleScrollFrame(msg scrollFrameMsg) tea.Cmd {
	if msg.card < 0 || msg.card >= len(m.cards) {
		return nil
	}
	c := m.cards[msg.card]
	if c.anim == nil || msg.gen != c.animGen {
		return nil
	}

	offset, done := c.anim.Next()
	c.vp.SetYOffset(offset)
	if done {
		c.anim = nil
		return nil
	}
	return scrollFrameCmd(m.cfg.Scroll.FrameInterval, msg.card, msg.gen)
}

// showLine scrolls card so row is visible without animating.
func (m *Model) showLine(card, row int) {
	c := m.cards[card]
	if offset, move := scroll.Decide(scroll.Bounds{Top: row, Height: 1}, c.window()); move {
		c.stopAnimation()
		c.vp.SetYOffset(offset)
	}
}

func (m Model) renderCards() string {
	height := m.cardsHeight()
	parts := make([]string, 0, len(m.cards))

	for i := 0; i < m.first && i < len(m.cards); i++ {
		label := lipgloss.PlaceHorizontal(m.overlap(), lipgloss.Center, levelLabel(i))
		parts = append(parts, styles.CardStripStyle.
			Width(m.overlap()).
			Height(height).
			Render(label))
	}

	last := min(m.first+m.visibleCount(m.first), len(m.cards))
	for i := m.first; i < last; i++ {
		parts = append(parts, m.renderCard(i))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m Model) renderCard(i int) string {
	c := m.cards[i]

	title := styles.CardTitleStyle.Render("Level "+levelLabel(i)) +
		styles.HelpStyle.Render(" · "+plural(len(m.tree[i]), "section"))

	style := styles.CardStyle
	if i == m.cursor.card {
		style = styles.CardActiveStyle
	}

	return style.
		Width(m.cardWidth() - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, c.vp.View()))
}

// sectionsOf returns the level a card displays.
func (m Model) sectionsOf(card int) summary.Level {
	if card < 0 || card >= len(m.tree) {
		return nil
	}
	return m.tree[card]
}
