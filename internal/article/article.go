// Package article turns a URL, a local file or stdin into the plain text that
// gets summarized.
package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrUnsupported is returned for files whose extension has no extractor.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrEmpty is returned when a document yields no text.
	ErrEmpty = errors.New("document has no readable text")
)

// StdinSource is the source name that reads the document from stdin.
const StdinSource = "-"

// maxBodyBytes caps how much of a remote page or local file is read.
const maxBodyBytes = 20 << 20

// Article is an extracted document.
type Article struct {
	Title  string
	Site   string // site name or file name
	Byline string
	Source string // URL, path or "-"
	Text   string // paragraphs separated by blank lines
}

// Markdown renders the article as markdown for display.
func (a Article) Markdown() string {
	var b strings.Builder
	if a.Title != "" {
		b.WriteString("# ")
		b.WriteString(a.Title)
		b.WriteString("\n\n")
	}

	var meta []string
	for _, s := range []string{a.Site, a.Byline} {
		if s != "" {
			meta = append(meta, s)
		}
	}
	if len(meta) > 0 {
		b.WriteString("_")
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("_\n\n")
	}

	b.WriteString(a.Text)
	return b.String()
}

// IsURL reports whether source is loaded over HTTP.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Loader extracts articles.
type Loader struct {
	client *http.Client
	stdin  io.Reader
}

// NewLoader creates a loader whose HTTP requests time out after timeout.
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		stdin:  os.Stdin,
	}
}

// WithStdin replaces the reader used for the "-" source.
func (l *Loader) WithStdin(r io.Reader) *Loader {
	l.stdin = r
	return l
}

// Load extracts the article at source: an http(s) URL, "-" for stdin, or a
// path to a .txt, .md, .html, .pdf or .docx file.
func (l *Loader) Load(ctx context.Context, source string) (Article, error) {
	var (
		a   Article
		err error
	)

	switch {
	case IsURL(source):
		a, err = l.loadURL(ctx, source)
	case source == StdinSource:
		a, err = l.loadStdin()
	default:
		a, err = l.loadFile(source)
	}
	if err != nil {
		return Article{}, err
	}

	a.Source = source
	a.Text = strings.TrimSpace(a.Text)
	if a.Text == "" {
		return Article{}, fmt.Errorf("%s: %w", source, ErrEmpty)
	}
	return a, nil
}

func (l *Loader) loadStdin() (Article, error) {
	text, err := parseText(io.LimitReader(l.stdin, maxBodyBytes))
	if err != nil {
		return Article{}, fmt.Errorf("read stdin: %w", err)
	}
	return Article{Title: "stdin", Text: text}, nil
}

func (l *Loader) loadFile(path string) (Article, error) {
	f, err := os.Open(path)
	if err != nil {
		return Article{}, fmt.Errorf("open document: %w", err)
	}
	defer func() { _ = f.Close() }()

	name := filepath.Base(path)
	title := strings.TrimSuffix(name, filepath.Ext(name))
	r := io.LimitReader(f, maxBodyBytes)

	a := Article{Title: title, Site: name}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".text", "":
		a.Text, err = parseText(r)
	case ".md", ".markdown":
		var mdTitle string
		mdTitle, a.Text, err = parseMarkdown(r)
		if mdTitle != "" {
			a.Title = mdTitle
		}
	case ".html", ".htm":
		var page Article
		page, err = parseHTML(r, nil)
		if page.Title != "" {
			a.Title = page.Title
		}
		a.Byline = page.Byline
		a.Text = page.Text
	case ".pdf":
		a.Text, err = parsePDF(r)
	case ".docx":
		a.Text, err = parseDOCX(r)
	default:
		return Article{}, fmt.Errorf("%s: %w %q", path, ErrUnsupported, ext)
	}
	if err != nil {
		return Article{}, fmt.Errorf("extract %s: %w", name, err)
	}

	return a, nil
}

// joinParagraphs trims each paragraph, drops empty ones and separates the
// rest with a blank line.
func joinParagraphs(paragraphs []string) string {
	kept := paragraphs[:0:0]
	for _, p := range paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
