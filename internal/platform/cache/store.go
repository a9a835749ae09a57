// Package cache は最新の推奨を保持するキャッシュ実装を提供します。
package cache

import (
	"context"
	"sort"
	"strings"
	"sync"

	"fx_backend/internal/feature/advisor/domain/entity"
)

// Store は通貨ペアごとの最新推奨を保持するストアのインターフェースです。
// 各ペアは常に最後に生成された推奨1件だけを持ちます。
type Store interface {
	Put(ctx context.Context, rec entity.Recommendation)
	Get(ctx context.Context, pair string) (entity.Recommendation, bool)
	All(ctx context.Context) []entity.Recommendation
}

// MemoryStore はプロセス内のスレッドセーフな Store 実装です。
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]entity.Recommendation
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]entity.Recommendation)}
}

// Put は同じペアの既存エントリを無条件に置き換えます。
func (s *MemoryStore) Put(ctx context.Context, rec entity.Recommendation) {
	key := normalizePair(rec.Pair)
	if key == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs[key] = rec
}

func (s *MemoryStore) Get(ctx context.Context, pair string) (entity.Recommendation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recs[normalizePair(pair)]
	return rec, ok
}

// All はペア名の昇順で全エントリを返します。
func (s *MemoryStore) All(ctx context.Context) []entity.Recommendation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Recommendation, 0, len(s.recs))
	for _, rec := range s.recs {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

func normalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}
