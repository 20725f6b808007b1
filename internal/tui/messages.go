package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/clarity/internal/article"
	"github.com/colonyops/clarity/internal/core/highlight"
	"github.com/colonyops/clarity/internal/core/settle"
	"github.com/colonyops/clarity/internal/core/summary"
	"github.com/colonyops/clarity/internal/remote"
	"github.com/colonyops/clarity/pkg/executil"
)

type articleLoadedMsg struct {
	article article.Article
}

type treeLoadedMsg struct {
	tree summary.FlattenedTree
}

type loadFailedMsg struct {
	err error
}

// settleMsg wakes the settle gate once a hover has rested long enough.
type settleMsg struct {
	ticket settle.Ticket
}

type lookupDoneMsg struct {
	lookup highlight.Lookup
	match  remote.Match
	err    error
}

// scrollFrameMsg advances the scroll animation of one card. gen guards
// against frames of an animation that has since been replaced.
type scrollFrameMsg struct {
	card int
	gen  int
}

type sourceOpenedMsg struct {
	err error
}

func loadArticleCmd(ctx context.Context, loader Loader, source string) tea.Cmd {
	return func() tea.Msg {
		a, err := loader.Load(ctx, source)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return articleLoadedMsg{article: a}
	}
}

func summarizeCmd(ctx context.Context, s Summarizer, text string) tea.Cmd {
	return func() tea.Msg {
		tree, err := s.FlattenedSummary(ctx, text)
		if err != nil {
			return loadFailedMsg{err: err}
		}
		return treeLoadedMsg{tree: tree}
	}
}

func recordHistoryCmd(ctx context.Context, h History, a article.Article) tea.Cmd {
	return func() tea.Msg {
		if err := h.Record(ctx, a.Source, a.Title); err != nil {
			logger().Warn().Ctx(ctx).Err(err).Str("source", a.Source).Msg("failed to record history")
		}
		return nil
	}
}

func lookupCmd(ctx context.Context, s Summarizer, l highlight.Lookup) tea.Cmd {
	return func() tea.Msg {
		match, err := s.Similarity(ctx, l.Source, l.Targets)
		return lookupDoneMsg{lookup: l, match: match, err: err}
	}
}

func settleCmd(delay time.Duration, ticket settle.Ticket) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return settleMsg{ticket: ticket}
	})
}

func scrollFrameCmd(interval time.Duration, card, gen int) tea.Cmd {
	return tea.Tick(interval, func(time.Time) tea.Msg {
		return scrollFrameMsg{card: card, gen: gen}
	})
}

func openSourceCmd(ctx context.Context, e executil.Executor, source string) tea.Cmd {
	return func() tea.Msg {
		return sourceOpenedMsg{err: executil.Open(ctx, e, source)}
	}
}
