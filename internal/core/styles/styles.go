// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/glamour/ansi"
	glamourstyles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	// CLI styles.
	CommandHeaderStyle lipgloss.Style
	DividerStyle       lipgloss.Style
	KeyStyle           lipgloss.Style
	ValueStyle         lipgloss.Style

	// Cards.
	CardStyle         lipgloss.Style
	CardActiveStyle   lipgloss.Style
	CardTitleStyle    lipgloss.Style
	CardStripStyle    lipgloss.Style
	SectionStyle      lipgloss.Style
	SectionDimStyle   lipgloss.Style
	SectionFocusStyle lipgloss.Style

	// Sentences.
	SentenceHoverStyle  lipgloss.Style
	SentencePinnedStyle lipgloss.Style
	SentenceCursorStyle lipgloss.Style

	// Chrome.
	StatusBarStyle   lipgloss.Style
	StatusKeyStyle   lipgloss.Style
	StatusErrorStyle lipgloss.Style
	SpinnerStyle     lipgloss.Style
	ErrorTitleStyle  lipgloss.Style
	HelpStyle        lipgloss.Style

	// Source overlay.
	OverlayStyle      lipgloss.Style
	OverlayTitleStyle lipgloss.Style
	OverlayMetaStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	CommandHeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	DividerStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	KeyStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	ValueStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Surface).
		Padding(0, 1)
	CardActiveStyle = CardStyle.
		BorderForeground(p.Primary)
	CardTitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
	CardStripStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Background(p.Background)

	SectionStyle = lipgloss.NewStyle().
		Foreground(p.Foreground)
	SectionDimStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Faint(true)
	SectionFocusStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Bold(true)

	SentenceHoverStyle = lipgloss.NewStyle().
		Underline(true)
	SentencePinnedStyle = lipgloss.NewStyle().
		Background(p.Highlight).
		Foreground(p.Warning)
	SentenceCursorStyle = lipgloss.NewStyle().
		Underline(true).
		Foreground(p.Secondary)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Padding(0, 1)
	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(p.Primary)
	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error)
	SpinnerStyle = lipgloss.NewStyle().
		Foreground(p.Secondary)
	ErrorTitleStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted)

	OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Primary).
		Padding(1, 2)
	OverlayTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Foreground)
	OverlayMetaStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Italic(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}

func colorHexPtr(c lipgloss.Color) *string {
	if c == "" {
		return nil
	}
	hex := string(c)
	return &hex
}

// GlamourStyle returns a Glamour style config derived from the active theme.
func GlamourStyle() ansi.StyleConfig {
	cfg := glamourstyles.DarkStyleConfig

	fg := colorHexPtr(CurrentPalette.Foreground)
	primary := colorHexPtr(CurrentPalette.Primary)
	secondary := colorHexPtr(CurrentPalette.Secondary)
	muted := colorHexPtr(CurrentPalette.Muted)
	surface := colorHexPtr(CurrentPalette.Surface)

	cfg.Document.Color = fg

	cfg.Paragraph.Color = fg

	cfg.Heading.Color = primary
	cfg.H1.Color = fg
	cfg.H1.BackgroundColor = surface
	cfg.H2.Color = primary
	cfg.H3.Color = primary
	cfg.H4.Color = primary
	cfg.H5.Color = primary
	cfg.H6.Color = primary

	cfg.BlockQuote.Color = muted
	cfg.HorizontalRule.Color = muted

	cfg.Link.Color = secondary
	cfg.LinkText.Color = secondary

	cfg.Code.Color = secondary
	cfg.CodeBlock.Color = muted

	cfg.Table.Color = fg

	return cfg
}
