package article

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

const userAgent = "clarity/1.0 (+https://github.com/colonyops/clarity)"

func (l *Loader) loadURL(ctx context.Context, source string) (Article, error) {
	pageURL, err := url.Parse(source)
	if err != nil {
		return Article{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
	if err != nil {
		return Article{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("failed to fetch %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("failed to fetch %s: status code %d", source, resp.StatusCode)
	}

	log.Debug().
		Str("url", source).
		Str("content_type", resp.Header.Get("Content-Type")).
		Msg("fetched article")

	body := io.LimitReader(resp.Body, maxBodyBytes)

	if strings.HasPrefix(resp.Header.Get("Content-Type"), "text/plain") {
		text, err := parseText(body)
		if err != nil {
			return Article{}, fmt.Errorf("read %s: %w", source, err)
		}
		return Article{Title: pageURL.Host, Site: pageURL.Host, Text: text}, nil
	}

	a, err := parseHTML(body, pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extract %s: %w", source, err)
	}
	if a.Site == "" {
		a.Site = pageURL.Host
	}
	if a.Title == "" {
		a.Title = pageURL.Host
	}
	return a, nil
}
