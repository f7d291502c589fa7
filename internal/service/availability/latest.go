package availability

import (
	"context"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ErrSuperseded is returned by Fetch when a newer request for the same view
// started before this one finished.
var ErrSuperseded = errors.New("availability request superseded by a newer one")

// Latest tracks the in-flight fetch per view key so only the most recent one
// is delivered. The number of tracked keys is bounded.
type Latest struct {
	mu       sync.Mutex
	seq      uint64
	inflight *lru.Cache[string, inflight]
}

type inflight struct {
	seq    uint64
	cancel context.CancelFunc
}

func NewLatest(size int) (*Latest, error) {
	cache, err := lru.New[string, inflight](size)
	if err != nil {
		return nil, err
	}
	return &Latest{inflight: cache}, nil
}

func (l *Latest) begin(ctx context.Context, key string) (context.Context, context.CancelFunc, uint64) {
	fctx, cancel := context.WithCancel(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if prev, ok := l.inflight.Peek(key); ok {
		prev.cancel()
	}
	l.seq++
	l.inflight.Add(key, inflight{seq: l.seq, cancel: cancel})
	return fctx, cancel, l.seq
}

// finish reports whether the fetch numbered seq is still the newest for key.
func (l *Latest) finish(key string, seq uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cur, ok := l.inflight.Peek(key)
	if !ok {
		return true
	}
	if cur.seq != seq {
		return false
	}
	l.inflight.Remove(key)
	return true
}

// Fetch runs fn for key, cancelling any older fetch for the same key. A fetch
// that loses to a newer one returns ErrSuperseded instead of its result. An
// empty key is not tracked.
func Fetch[T any](ctx context.Context, l *Latest, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if l == nil || key == "" {
		return fn(ctx)
	}

	fctx, cancel, seq := l.begin(ctx, key)
	defer cancel()

	v, err := fn(fctx)
	cancelled := fctx.Err() != nil && ctx.Err() == nil
	newest := l.finish(key, seq)

	if !newest || cancelled {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	return v, nil
}
