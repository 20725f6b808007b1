package article

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const blockSelector = "h2,h3,h4,p,li,blockquote,pre"

// parseHTML extracts the main content of a page. Readability picks the
// article body; when it finds nothing the whole body is walked instead.
// pageURL may be nil for local files.
func parseHTML(r io.Reader, pageURL *url.URL) (Article, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Article{}, err
	}

	if pageURL == nil {
		pageURL = &url.URL{Scheme: "file", Path: "/"}
	}

	parser := readability.NewParser()
	parsed, rerr := parser.Parse(bytes.NewReader(raw), pageURL)
	if rerr == nil {
		a := Article{
			Title:  normalizeText(parsed.Title),
			Site:   normalizeText(parsed.SiteName),
			Byline: normalizeText(parsed.Byline),
		}

		a.Text, err = contentParagraphs(parsed.Content)
		if err != nil {
			return Article{}, err
		}
		if a.Text == "" {
			a.Text = parsed.TextContent
		}
		if strings.TrimSpace(a.Text) != "" {
			return a, nil
		}
	}

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return Article{}, fmt.Errorf("parse html: %w", err)
	}

	return Article{
		Title: findTitle(doc),
		Text:  bodyParagraphs(doc),
	}, nil
}

// contentParagraphs turns the cleaned readability markup into paragraphs.
// Blocks nested in another block are skipped so their text is not repeated.
func contentParagraphs(content string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse article content: %w", err)
	}

	var paragraphs []string
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}
		paragraphs = append(paragraphs, normalizeText(s.Text()))
	})

	return joinParagraphs(paragraphs), nil
}

// bodyParagraphs walks the document body collecting block text.
func bodyParagraphs(doc *html.Node) string {
	var paragraphs []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "nav", "footer", "header", "noscript":
				return
			case "h1", "h2", "h3", "h4", "h5", "h6", "p", "li", "td", "blockquote", "pre":
				paragraphs = append(paragraphs, normalizeText(nodeText(n)))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findElement(doc, "body"); body != nil {
		walk(body)
	} else {
		walk(doc)
	}

	return joinParagraphs(paragraphs)
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func findTitle(doc *html.Node) string {
	if t := findElement(doc, "title"); t != nil {
		return normalizeText(nodeText(t))
	}
	return ""
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// normalizeText collapses runs of whitespace into single spaces.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
