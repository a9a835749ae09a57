package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/redis/go-redis/v9"

	"fx_backend/internal/feature/advisor/domain/entity"
)

// RedisStore はインメモリの Store をRedisへのライトスルーで装飾します。
// Redisは再起動をまたいだ永続層で、読み取りはまずメモリから行います。
// 推奨は次の実行で置き換えられるまで有効なのでTTLは付けません。
type RedisStore struct {
	inner     Store
	rdb       *redis.Client
	namespace string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore はRedisライトスルー付きのストアを生成します。
// rdb が nil の場合は inner への単純な委譲として振る舞います。
func NewRedisStore(rdb *redis.Client, inner Store, namespace string) *RedisStore {
	if namespace == "" {
		namespace = "recommendations"
	}
	return &RedisStore{inner: inner, rdb: rdb, namespace: namespace}
}

func (s *RedisStore) Put(ctx context.Context, rec entity.Recommendation) {
	s.inner.Put(ctx, rec)
	if s.rdb == nil {
		return
	}
	b, err := json.Marshal(rec)
	if err != nil {
		slog.Warn("recommendation marshal failed, skipping redis write", "pair", rec.Pair, "error", err)
		return
	}
	// ベストエフォート: Redis障害でパイプラインは止めない
	if err := s.rdb.Set(ctx, s.key(rec.Pair), b, 0).Err(); err != nil {
		slog.Warn("redis write failed", "pair", rec.Pair, "error", err)
	}
}

func (s *RedisStore) Get(ctx context.Context, pair string) (entity.Recommendation, bool) {
	if rec, ok := s.inner.Get(ctx, pair); ok {
		return rec, true
	}
	if s.rdb == nil {
		return entity.Recommendation{}, false
	}
	b, err := s.rdb.Get(ctx, s.key(pair)).Bytes()
	if err != nil || len(b) == 0 {
		return entity.Recommendation{}, false
	}
	var rec entity.Recommendation
	if err := json.Unmarshal(b, &rec); err != nil {
		// 壊れたエントリは削除する
		_ = s.rdb.Del(ctx, s.key(pair)).Err()
		return entity.Recommendation{}, false
	}
	// 次回以降のためメモリに補充する
	s.inner.Put(ctx, rec)
	return rec, true
}

// All はメモリとRedisの和集合をペア名の昇順で返します。
func (s *RedisStore) All(ctx context.Context) []entity.Recommendation {
	merged := make(map[string]entity.Recommendation)
	for _, rec := range s.inner.All(ctx) {
		merged[normalizePair(rec.Pair)] = rec
	}

	if s.rdb != nil {
		var cursor uint64
		for {
			keys, cur, err := s.rdb.Scan(ctx, cursor, s.namespace+":*", 200).Result()
			if err != nil {
				slog.Warn("redis scan failed", "error", err)
				break
			}
			for _, key := range keys {
				pair := key[len(s.namespace)+1:]
				if _, ok := merged[pair]; ok {
					continue
				}
				b, err := s.rdb.Get(ctx, key).Bytes()
				if err != nil {
					continue
				}
				var rec entity.Recommendation
				if err := json.Unmarshal(b, &rec); err != nil {
					continue
				}
				merged[pair] = rec
			}
			cursor = cur
			if cursor == 0 {
				break
			}
		}
	}

	out := make([]entity.Recommendation, 0, len(merged))
	for _, rec := range merged {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

func (s *RedisStore) key(pair string) string {
	return fmt.Sprintf("%s:%s", s.namespace, normalizePair(pair))
}
