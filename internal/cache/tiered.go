package cache

import (
	"context"
	"time"
)

// TieredStore reads L1 before L2 and writes through to both. An L2 hit is
// copied into L1 with the l1TTL.
type TieredStore struct {
	l1    Store
	l2    Store
	l1TTL time.Duration
}

// NewTieredStore combines two stores. A nil l2 degrades to l1 only.
func NewTieredStore(l1, l2 Store, l1TTL time.Duration) *TieredStore {
	return &TieredStore{l1: l1, l2: l2, l1TTL: l1TTL}
}

func (s *TieredStore) Get(ctx context.Context, key string) ([]byte, bool) {
	if v, ok := s.l1.Get(ctx, key); ok {
		return v, true
	}
	if s.l2 == nil {
		return nil, false
	}
	v, ok := s.l2.Get(ctx, key)
	if ok {
		s.l1.Set(ctx, key, v, s.l1TTL)
	}
	return v, ok
}

func (s *TieredStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	l1TTL := ttl
	if s.l1TTL > 0 && s.l1TTL < ttl {
		l1TTL = s.l1TTL
	}
	s.l1.Set(ctx, key, value, l1TTL)
	if s.l2 != nil {
		s.l2.Set(ctx, key, value, ttl)
	}
}
