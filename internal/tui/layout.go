package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/clarity/internal/core/scroll"
	"github.com/colonyops/clarity/internal/core/summary"
)

// noSentence tags text that belongs to no sentence: gaps between sentences
// and the blank separator lines between sections.
const noSentence = -1

// segment is a run of one sentence inside a wrapped line. start/end are rune
// offsets into the line text, colStart/colEnd the matching display columns.
type segment struct {
	sentence         int
	start, end       int
	colStart, colEnd int
}

// wrappedLine is one display line of a card.
type wrappedLine struct {
	section int
	text    string
	segs    []segment
}

// cardLayout is a level's sections word wrapped to the card width. Each
// section is followed by one blank line except the last.
type cardLayout struct {
	lines  []wrappedLine
	bounds []scroll.Bounds
}

type word struct {
	text     string
	sentence int
}

// layoutCard wraps every section of a level to width columns.
func layoutCard(level summary.Level, width int) cardLayout {
	width = max(width, 1)

	var cl cardLayout
	for i, sec := range level {
		if i > 0 {
			cl.lines = append(cl.lines, wrappedLine{section: noSentence})
		}

		top := len(cl.lines)
		cl.lines = append(cl.lines, wrapSection(i, sectionWords(sec), width)...)
		cl.bounds = append(cl.bounds, scroll.Bounds{Top: top, Height: len(cl.lines) - top})
	}
	return cl
}

func sectionWords(sec summary.Section) []word {
	var words []word
	if len(sec.SentenceIndices) == 0 {
		for _, w := range strings.Fields(sec.Text) {
			words = append(words, word{text: w, sentence: noSentence})
		}
		return words
	}

	for i, sentence := range sec.Sentences() {
		for _, w := range strings.Fields(sentence) {
			words = append(words, word{text: w, sentence: i})
		}
	}
	return words
}

func wrapSection(section int, words []word, width int) []wrappedLine {
	var (
		lines []wrappedLine
		cur   = wrappedLine{section: section}
		b     strings.Builder
		runes int
		col   int
	)

	flush := func() {
		cur.text = b.String()
		lines = append(lines, cur)
		cur = wrappedLine{section: section}
		b.Reset()
		runes, col = 0, 0
	}

	add := func(text string, sentence int) {
		n := len([]rune(text))
		w := lipgloss.Width(text)
		if sentence != noSentence {
			if last := len(cur.segs) - 1; last >= 0 && cur.segs[last].sentence == sentence && cur.segs[last].end == runes {
				cur.segs[last].end += n
				cur.segs[last].colEnd += w
			} else {
				cur.segs = append(cur.segs, segment{
					sentence: sentence,
					start:    runes,
					end:      runes + n,
					colStart: col,
					colEnd:   col + w,
				})
			}
		}
		b.WriteString(text)
		runes += n
		col += w
	}

	prev := noSentence
	for _, wd := range words {
		for _, chunk := range chunkWord(wd.text, width) {
			w := lipgloss.Width(chunk)
			if col > 0 && col+1+w > width {
				flush()
			}
			if col > 0 {
				gap := noSentence
				if prev == wd.sentence {
					gap = wd.sentence
				}
				add(" ", gap)
			}
			add(chunk, wd.sentence)
			prev = wd.sentence
		}
	}
	if col > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// chunkWord breaks words wider than width into pieces at most width cells
// wide. A glyph wider than width on its own becomes a single piece.
func chunkWord(w string, width int) []string {
	if ansi.StringWidth(w) <= width {
		return []string{w}
	}

	var chunks []string
	for w != "" {
		chunk := ansi.Truncate(w, width, "")
		if chunk == "" {
			_, size := utf8.DecodeRuneInString(w)
			chunk = w[:size]
		}
		chunks = append(chunks, chunk)
		w = w[len(chunk):]
	}
	return chunks
}

// at returns the section and sentence under content row/column.
func (c cardLayout) at(row, col int) (section, sentence int, ok bool) {
	if row < 0 || row >= len(c.lines) {
		return 0, 0, false
	}
	line := c.lines[row]
	if line.section == noSentence {
		return 0, 0, false
	}
	for _, seg := range line.segs {
		if col >= seg.colStart && col < seg.colEnd {
			return line.section, seg.sentence, true
		}
	}
	return 0, 0, false
}

// sentenceLine returns the first line holding sentence of section.
func (c cardLayout) sentenceLine(section, sentence int) (int, bool) {
	if section < 0 || section >= len(c.bounds) {
		return 0, false
	}
	b := c.bounds[section]
	for row := b.Top; row < b.Bottom(); row++ {
		for _, seg := range c.lines[row].segs {
			if seg.sentence == sentence {
				return row, true
			}
		}
	}
	return 0, false
}

// lineStyler picks the style of a run of text inside a section.
type lineStyler func(section, sentence int) lipgloss.Style

// render draws the lines of the card with style applied per sentence run.
func (c cardLayout) render(style lineStyler) []string {
	out := make([]string, len(c.lines))
	for i, line := range c.lines {
		if line.section == noSentence {
			continue
		}

		runes := []rune(line.text)
		var b strings.Builder
		pos := 0
		for _, seg := range line.segs {
			if seg.start > pos {
				b.WriteString(style(line.section, noSentence).Render(string(runes[pos:seg.start])))
			}
			b.WriteString(style(line.section, seg.sentence).Render(string(runes[seg.start:seg.end])))
			pos = seg.end
		}
		if pos < len(runes) {
			b.WriteString(style(line.section, noSentence).Render(string(runes[pos:])))
		}
		out[i] = b.String()
	}
	return out
}
