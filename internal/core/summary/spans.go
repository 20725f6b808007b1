package summary

import (
	"strings"
	"unicode/utf8"
)

// SentenceSpans computes spans for sentences that were joined with a single
// separator character, the convention used by the summarizer: each span starts
// one rune after the previous sentence ends.
func SentenceSpans(sentences []string) []Span {
	spans := make([]Span, 0, len(sentences))
	cur := 0
	for _, s := range sentences {
		n := utf8.RuneCountInString(s)
		spans = append(spans, Span{cur, cur + n})
		cur += n + 1
	}
	return spans
}

// NewNode builds a node whose text is the sentences joined by single spaces.
func NewNode(sentences []string, children ...Node) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{
		Text:            strings.Join(sentences, " "),
		SentenceIndices: SentenceSpans(sentences),
		Children:        children,
	}
}
