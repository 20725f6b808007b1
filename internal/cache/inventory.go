package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/colonyops/clarity/internal/core/kv"
)

// Inventory counts persisted entries per namespace. Keys outside the known
// namespaces are counted under "other".
func Inventory(ctx context.Context, store kv.KV) (map[string]int, error) {
	keys, err := store.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list cache keys: %w", err)
	}

	counts := map[string]int{
		NamespaceFlattenedSummary: 0,
		NamespaceSummary:          0,
		NamespaceSimilarity:       0,
	}
	for _, k := range keys {
		counts[Namespace(k)]++
	}
	return counts, nil
}

// Namespace returns the namespace of a cache key. "flattened-summary" must be
// checked before "summary" since one is a suffix of the other.
func Namespace(key string) string {
	for _, ns := range []string{NamespaceFlattenedSummary, NamespaceSimilarity, NamespaceSummary} {
		if strings.HasPrefix(key, ns+"-") {
			return ns
		}
	}
	return "other"
}
