package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/clarity/internal/core/scroll"
	"github.com/colonyops/clarity/internal/core/summary"
)

func section(sentences ...string) summary.Section {
	n := summary.NewNode(sentences)
	return summary.Section{Text: n.Text, SentenceIndices: n.SentenceIndices}
}

func TestLayoutCard_SingleLine(t *testing.T) {
	cl := layoutCard(summary.Level{section("Alpha beta.", "Gamma delta.")}, 40)

	require.Len(t, cl.lines, 1)
	assert.Equal(t, "Alpha beta. Gamma delta.", cl.lines[0].text)
	assert.Equal(t, []scroll.Bounds{{Top: 0, Height: 1}}, cl.bounds)

	tests := []struct {
		name     string
		col      int
		sentence int
		ok       bool
	}{
		{name: "first word", col: 0, sentence: 0, ok: true},
		{name: "inner space", col: 5, sentence: 0, ok: true},
		{name: "last rune of first", col: 10, sentence: 0, ok: true},
		{name: "gap between sentences", col: 11, ok: false},
		{name: "second sentence", col: 12, sentence: 1, ok: true},
		{name: "past the end", col: 30, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sec, sentence, ok := cl.at(0, tt.col)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, 0, sec)
				assert.Equal(t, tt.sentence, sentence)
			}
		})
	}
}

func TestLayoutCard_Wraps(t *testing.T) {
	cl := layoutCard(summary.Level{section("Alpha beta.", "Gamma delta.")}, 11)

	texts := make([]string, len(cl.lines))
	for i, l := range cl.lines {
		texts[i] = l.text
	}
	assert.Equal(t, []string{"Alpha beta.", "Gamma", "delta."}, texts)
	assert.Equal(t, []scroll.Bounds{{Top: 0, Height: 3}}, cl.bounds)

	_, sentence, ok := cl.at(2, 0)
	require.True(t, ok)
	assert.Equal(t, 1, sentence)

	row, ok := cl.sentenceLine(0, 1)
	require.True(t, ok)
	assert.Equal(t, 1, row)
}

func TestLayoutCard_SectionsSeparated(t *testing.T) {
	cl := layoutCard(summary.Level{
		section("First section."),
		section("Second one.", "Two sentences."),
	}, 40)

	require.Len(t, cl.lines, 3)
	assert.Equal(t, noSentence, cl.lines[1].section)
	assert.Equal(t, []scroll.Bounds{{Top: 0, Height: 1}, {Top: 2, Height: 1}}, cl.bounds)

	_, _, ok := cl.at(1, 0)
	assert.False(t, ok, "separator line holds no sentence")

	sec, sentence, ok := cl.at(2, 14)
	require.True(t, ok)
	assert.Equal(t, 1, sec)
	assert.Equal(t, 1, sentence)
}

func TestLayoutCard_NoSpans(t *testing.T) {
	cl := layoutCard(summary.Level{{Text: "Loose text without spans"}}, 40)

	require.Len(t, cl.lines, 1)
	_, _, ok := cl.at(0, 0)
	assert.False(t, ok)
}

func TestChunkWord(t *testing.T) {
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, chunkWord("abcdefghij", 4))
	assert.Equal(t, []string{"abc"}, chunkWord("abc", 4))
	assert.Equal(t, []string{"漢字", "漢字", "漢"}, chunkWord("漢字漢字漢", 4), "wide runes count two cells")
	assert.Equal(t, []string{"漢", "字"}, chunkWord("漢字", 1), "a glyph wider than the card still advances")
}

func TestLayoutCard_WideWordStaysInsideCard(t *testing.T) {
	const width = 6
	cl := layoutCard(summary.Level{section("漢字漢字漢字漢字.")}, width)
	require.Greater(t, len(cl.lines), 1)

	for row, l := range cl.lines {
		assert.LessOrEqual(t, lipgloss.Width(l.text), width, "line %d overflows", row)
		require.Len(t, l.segs, 1)
		assert.Equal(t, lipgloss.Width(l.text), l.segs[0].colEnd, "hit area matches the drawn text on line %d", row)

		_, sentence, ok := cl.at(row, l.segs[0].colEnd-1)
		require.True(t, ok)
		assert.Equal(t, 0, sentence)
	}
}

func TestCardLayout_Render(t *testing.T) {
	cl := layoutCard(summary.Level{section("One."), section("Two.", "Three.")}, 40)

	var calls []int
	lines := cl.render(func(_, sentence int) lipgloss.Style {
		calls = append(calls, sentence)
		return lipgloss.NewStyle()
	})

	assert.Equal(t, []string{"One.", "", "Two. Three."}, lines)
	assert.Equal(t, []int{0, 0, noSentence, 1}, calls)
}
