// Package remote is the HTTP client for the summarizer service. The service
// builds summary trees and answers similarity lookups; clarity treats it as
// opaque.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/colonyops/clarity/internal/core/summary"
)

// Endpoint names, resolved relative to the server origin.
const (
	EndpointSummarizeText          = "summarize-text"
	EndpointSummarizeFlattenedText = "summarize-flattened-text"
	EndpointSimilarity             = "similarity"
)

// Match is the answer of a similarity lookup: the most related target and
// the sentence inside it.
type Match struct {
	TargetIndex   int `json:"targetIndex"`
	SentenceIndex int `json:"sentenceIndex"`
}

// Client talks to the summarizer service.
type Client struct {
	base       *url.URL
	tokenCount int
	client     *http.Client
}

// New creates a client for the service at origin. tokenCount is forwarded
// with summarization requests as the size of the leaf chunks.
func New(origin string, tokenCount int, timeout time.Duration) (*Client, error) {
	if !strings.HasSuffix(origin, "/") {
		origin += "/"
	}

	base, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parse server origin: %w", err)
	}

	return &Client{
		base:       base,
		tokenCount: tokenCount,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type summarizeRequest struct {
	Text       string `json:"text"`
	TokenCount int    `json:"token_count"`
}

type flattenedResponse struct {
	FlattenedTree summary.FlattenedTree `json:"flattened_tree"`
}

type similarityRequest struct {
	Source string   `json:"source"`
	Target []string `json:"target"`
}

// SummaryTree requests the nested summary tree for text.
func (c *Client) SummaryTree(ctx context.Context, text string) (summary.Node, error) {
	var node summary.Node
	if err := c.post(ctx, EndpointSummarizeText, summarizeRequest{Text: text, TokenCount: c.tokenCount}, &node); err != nil {
		return summary.Node{}, err
	}

	return node, nil
}

// FlattenedSummary requests the summary of text already flattened into levels.
func (c *Client) FlattenedSummary(ctx context.Context, text string) (summary.FlattenedTree, error) {
	var resp flattenedResponse
	if err := c.post(ctx, EndpointSummarizeFlattenedText, summarizeRequest{Text: text, TokenCount: c.tokenCount}, &resp); err != nil {
		return nil, err
	}

	if err := resp.FlattenedTree.ValidateStructure(); err != nil {
		return nil, fmt.Errorf("%s: %w", EndpointSummarizeFlattenedText, err)
	}

	return resp.FlattenedTree, nil
}

// Similarity asks which of targets, and which sentence inside it, is closest
// to source.
func (c *Client) Similarity(ctx context.Context, source string, targets []string) (Match, error) {
	if len(targets) == 0 {
		return Match{}, fmt.Errorf("similarity: empty target list")
	}

	var m Match
	if err := c.post(ctx, EndpointSimilarity, similarityRequest{Source: source, Target: targets}, &m); err != nil {
		return Match{}, err
	}

	return m, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	target := c.base.ResolveReference(&url.URL{Path: endpoint})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: failed to send request: %w", endpoint, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", endpoint, err)
	}

	return nil
}
