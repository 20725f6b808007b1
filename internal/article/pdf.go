package article

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// parsePDF extracts text page by page. The reader needs random access, so
// the document is spooled to a temp file first.
func parsePDF(r io.Reader) (string, error) {
	path, _, err := spool(r, "clarity-pdf-*.pdf")
	if err != nil {
		return "", err
	}
	defer func() { _ = os.Remove(path) }()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		pages = append(pages, text)
	}

	return parseText(strings.NewReader(strings.Join(pages, "\n\n")))
}

// spool copies r into a temp file and returns its path and size. The caller
// removes the file.
func spool(r io.Reader, pattern string) (string, int64, error) {
	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", 0, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", 0, fmt.Errorf("write temp file: %w", err)
	}

	return tmp.Name(), size, nil
}
