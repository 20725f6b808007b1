package stores

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/colonyops/clarity/internal/core/kv"
	gkv "github.com/colonyops/clarity/pkg/kv"
)

// MemoryKV implements kv.KV in process memory. Used when cache persistence is
// disabled and in tests.
type MemoryKV struct {
	data *gkv.Store[string, kv.Entry]
}

var _ kv.KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty in-memory KV store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: gkv.New[string, kv.Entry]()}
}

func (m *MemoryKV) Get(_ context.Context, key string, dest any) error {
	entry, ok := m.data.Get(key)
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	m.data.Update(key, func(prev kv.Entry, present bool) kv.Entry {
		createdAt := prev.CreatedAt
		if !present {
			createdAt = time.Now()
		}
		return kv.Entry{Key: key, Value: data, CreatedAt: createdAt}
	})
	return nil
}

func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

func (m *MemoryKV) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.data.Get(key)
	return ok, nil
}

func (m *MemoryKV) ListKeys(_ context.Context) ([]string, error) {
	keys := m.data.Keys()
	slices.Sort(keys)
	return keys, nil
}

func (m *MemoryKV) GetRaw(_ context.Context, key string) (kv.Entry, error) {
	entry, ok := m.data.Get(key)
	if !ok {
		return kv.Entry{}, fmt.Errorf("kv get raw %q: %w", key, sql.ErrNoRows)
	}
	return entry, nil
}

// Count returns the number of stored entries.
func (m *MemoryKV) Count(_ context.Context) (int, error) {
	return m.data.Len(), nil
}
