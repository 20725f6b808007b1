package article

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// parseMarkdown returns the first level one heading and the prose of the
// document. Code blocks are dropped; headings become their own paragraphs.
func parseMarkdown(r io.Reader) (title, body string, err error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}

	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var paragraphs []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			t := inlineText(node, src)
			if node.Level == 1 && title == "" {
				title = t
				continue
			}
			paragraphs = append(paragraphs, t)
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
			continue
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				paragraphs = append(paragraphs, blockText(item, src))
			}
		default:
			paragraphs = append(paragraphs, blockText(n, src))
		}
	}

	return title, joinParagraphs(paragraphs), nil
}

// blockText collects the inline text of every paragraph-like block under n.
func blockText(n ast.Node, src []byte) string {
	if n.Type() == ast.TypeInline || n.FirstChild() == nil || n.FirstChild().Type() == ast.TypeInline {
		return inlineText(n, src)
	}

	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// inlineText flattens the inline children of n. Soft line breaks become
// spaces.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.Image:
			continue
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
