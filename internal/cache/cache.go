// Package cache puts a content-addressed response cache with in-flight
// deduplication in front of the summarizer service.
package cache

import (
	"context"
	"sync/atomic"

	"github.com/colonyops/clarity/internal/core/kv"
	"github.com/colonyops/clarity/internal/core/logging"
	"github.com/colonyops/clarity/internal/core/summary"
	"github.com/colonyops/clarity/internal/remote"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_remote.go -package=mocks github.com/colonyops/clarity/internal/cache Remote

// Remote is the network-bound side of the cache.
type Remote interface {
	SummaryTree(ctx context.Context, text string) (summary.Node, error)
	FlattenedSummary(ctx context.Context, text string) (summary.FlattenedTree, error)
	Similarity(ctx context.Context, source string, targets []string) (remote.Match, error)
}

// flattenedPayload is the persisted shape of a flattened summary, identical
// to the service response body.
type flattenedPayload struct {
	FlattenedTree summary.FlattenedTree `json:"flattened_tree"`
}

// Stats counts cache outcomes since the service was created.
type Stats struct {
	Hits        int64 // answered from the substrate
	Misses      int64 // not in the substrate
	RemoteCalls int64 // remote requests actually issued
	Failures    int64 // remote requests that failed
}

// Joined returns how many misses were answered by another caller's request.
func (s Stats) Joined() int64 {
	return s.Misses - s.RemoteCalls
}

// Service is the response cache. It is safe for concurrent use.
type Service struct {
	remote Remote
	log    zerolog.Logger
	group  singleflight.Group

	flattened  *kv.TypedKV[flattenedPayload]
	trees      *kv.TypedKV[summary.Node]
	similarity *kv.TypedKV[remote.Match]

	hits        atomic.Int64
	misses      atomic.Int64
	remoteCalls atomic.Int64
	failures    atomic.Int64
}

// New creates a cache over store. Entries are never evicted.
func New(r Remote, store kv.KV) *Service {
	return &Service{
		remote:     r,
		log:        logging.Component("cache"),
		flattened:  kv.Scoped[flattenedPayload](store, NamespaceFlattenedSummary),
		trees:      kv.Scoped[summary.Node](store, NamespaceSummary),
		similarity: kv.Scoped[remote.Match](store, NamespaceSimilarity),
	}
}

// FlattenedSummary returns the flattened summary tree of text.
func (s *Service) FlattenedSummary(ctx context.Context, text string) (summary.FlattenedTree, error) {
	p, err := lookup(ctx, s, s.flattened, HashString(text),
		func(p flattenedPayload) bool { return p.FlattenedTree.ValidateStructure() == nil },
		func(ctx context.Context) (flattenedPayload, error) {
			tree, err := s.remote.FlattenedSummary(ctx, text)
			return flattenedPayload{FlattenedTree: tree}, err
		},
	)
	if err != nil {
		return nil, err
	}
	return p.FlattenedTree, nil
}

// SummaryTree returns the nested summary tree of text.
func (s *Service) SummaryTree(ctx context.Context, text string) (summary.Node, error) {
	return lookup(ctx, s, s.trees, HashString(text),
		func(n summary.Node) bool { return n.Text != "" || len(n.Children) > 0 },
		func(ctx context.Context) (summary.Node, error) {
			return s.remote.SummaryTree(ctx, text)
		},
	)
}

// Similarity returns the target, and the sentence inside it, most related to
// source.
func (s *Service) Similarity(ctx context.Context, source string, targets []string) (remote.Match, error) {
	return lookup(ctx, s, s.similarity, similarityHash(source, targets),
		func(remote.Match) bool { return true },
		func(ctx context.Context) (remote.Match, error) {
			return s.remote.Similarity(ctx, source, targets)
		},
	)
}

// Stats returns a snapshot of the counters.
func (s *Service) Stats() Stats {
	return Stats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		RemoteCalls: s.remoteCalls.Load(),
		Failures:    s.failures.Load(),
	}
}

// lookup answers from the substrate when it holds a usable value, otherwise
// joins or starts the single in-flight request for the key. The request runs
// detached from ctx so that one caller giving up does not fail the others;
// the value is persisted before the in-flight slot is released.
func lookup[T any](
	ctx context.Context,
	s *Service,
	store *kv.TypedKV[T],
	hash string,
	valid func(T) bool,
	fetch func(context.Context) (T, error),
) (T, error) {
	key := store.Key(hash)
	ctx = logging.WithDocKey(ctx, key)

	if v, ok := persisted(ctx, s, store, hash, valid); ok {
		s.hits.Add(1)
		return v, nil
	}
	s.misses.Add(1)

	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		// A request for the same key may have completed between the
		// substrate check above and this slot being claimed. That caller
		// was answered from the substrate after all.
		if v, ok := persisted(detached, s, store, hash, valid); ok {
			s.misses.Add(-1)
			s.hits.Add(1)
			return v, nil
		}

		s.remoteCalls.Add(1)
		v, err := fetch(detached)
		if err != nil {
			s.failures.Add(1)
			s.log.Warn().Ctx(detached).Err(err).Msg("remote request failed")
			return v, err
		}

		if err := store.Set(detached, hash, v); err != nil {
			s.log.Error().Ctx(detached).Err(err).Msg("persist response")
		}
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// persisted reads hash from store. Missing, undecodable and invalid payloads
// are all misses.
func persisted[T any](ctx context.Context, s *Service, store *kv.TypedKV[T], hash string, valid func(T) bool) (T, bool) {
	v, err := store.Get(ctx, hash)
	switch {
	case err == nil && valid(v):
		return v, true
	case err == nil:
		s.log.Debug().Ctx(ctx).Msg("cached payload rejected, treating as miss")
	case !kv.IsNotFound(err):
		s.log.Debug().Ctx(ctx).Err(err).Msg("cached payload unreadable, treating as miss")
	}
	var zero T
	return zero, false
}
