package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/core/styles"
	"github.com/colonyops/clarity/internal/tui/components"
)

func (m Model) screenWidth() int {
	if m.width <= 0 {
		return 80 // before the first WindowSizeMsg
	}
	return m.width
}

func (m Model) screenHeight() int {
	if m.height <= 0 {
		return 24
	}
	return m.height
}

// View renders the reader.
func (m Model) View() string {
	w, h := m.screenWidth(), m.screenHeight()

	switch {
	case m.showHelp:
		return components.NewHelpDialog("Keys", m.keys.helpSections()).Overlay(w, h)
	case m.showSource:
		return m.renderSource()
	}

	switch m.state {
	case stateLoading:
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.loadingMessage+"…")
	case stateFailed:
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.renderError())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderCards(),
		m.renderStatus(),
	)
}

func (m Model) renderError() string {
	hint := "r retry · q quit"
	if m.article.Text != "" {
		hint = "r retry · o source · q quit"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.ErrorTitleStyle.Render(styles.IconWarning+" Could not load "+m.opts.Source),
		"",
		lipgloss.NewStyle().Width(min(m.screenWidth()-4, 80)).Render(fmt.Sprint(m.err)),
		"",
		styles.HelpStyle.Render(hint),
	)
}

func (m Model) renderHeader() string {
	icon := styles.IconFile
	if article.IsURL(m.article.Source) {
		icon = styles.IconLink
	}

	header := styles.CommandHeaderStyle.Render(icon + " " + m.article.Title)
	if m.article.Site != "" {
		header += styles.OverlayMetaStyle.Render("  " + m.article.Site)
	}

	return lipgloss.NewStyle().MaxWidth(m.screenWidth()).Render(header)
}

func (m Model) renderStatus() string {
	left := m.help.View(m.keys)

	stats := m.opts.Summarizer.Stats()
	right := styles.HelpStyle.Render(fmt.Sprintf("%s %d hit · %d miss · %d joined",
		styles.IconCache, stats.Hits, stats.Misses, stats.Joined()))
	if m.status != "" {
		right = styles.StatusErrorStyle.Render(styles.IconWarning+" "+m.status) + "  " + right
	}

	inner := m.screenWidth() - 2
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return styles.StatusBarStyle.MaxWidth(m.screenWidth()).Render(right)
	}
	return styles.StatusBarStyle.Render(left + components.Pad(gap) + right)
}

// resizeSource sizes the source overlay and renders the article into it.
func (m *Model) resizeSource() {
	if m.article.Text == "" {
		return
	}

	w := max(m.screenWidth()-8, 20)
	h := max(m.screenHeight()-6, 3)
	m.source = viewport.New(w, h)
	m.source.SetContent(renderMarkdown(m.article.Markdown(), w))
}

func (m Model) renderSource() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		m.source.View(),
		styles.HelpStyle.Render(fmt.Sprintf("esc close · ↑/↓ scroll · %3.f%%", m.source.ScrollPercent()*100)),
	)
	return styles.OverlayStyle.Render(body)
}

// renderMarkdown renders md with the theme's glamour style, falling back to
// the raw text.
func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(styles.GlamourStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}

	out, err := r.Render(md)
	if err != nil {
		logger().Debug().Err(err).Msg("markdown render failed")
		return md
	}
	return out
}

func levelLabel(i int) string {
	return strconv.Itoa(i + 1)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
