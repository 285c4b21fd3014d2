// Package ratelimiter はキーごとの失敗回数を固定ウィンドウで数え、上限到達を判定します。
package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// AttemptLimiter は失敗回数の記録と上限判定を行うインターフェースです。
type AttemptLimiter interface {
	// Blocked は現在のウィンドウでキーが上限に達しているかを返します。
	Blocked(ctx context.Context, key string) (bool, error)
	// RecordFailure はキーの失敗を1回記録します。
	RecordFailure(ctx context.Context, key string) error
	// Reset はキーの失敗回数を破棄します。
	Reset(ctx context.Context, key string) error
}

type window struct {
	count     int
	lastReset time.Time
}

// MemoryLimiter はプロセス内でキーごとの失敗回数を保持します。Redisが使えない場合に使用します。
type MemoryLimiter struct {
	limit    int           // ウィンドウあたりの上限
	interval time.Duration // どの単位でリセットするか
	now      func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

var _ AttemptLimiter = (*MemoryLimiter)(nil)

// NewMemoryLimiter は新しいMemoryLimiterのインスタンスを生成します。
func NewMemoryLimiter(limit int, interval time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		interval: interval,
		now:      time.Now,
		windows:  make(map[string]*window),
	}
}

// sweep は interval ごとに期限切れのウィンドウをまとめて破棄します。呼び出し側でロックを保持すること。
func (l *MemoryLimiter) sweep() {
	now := l.now()
	if now.Sub(l.lastSweep) < l.interval {
		return
	}
	l.lastSweep = now
	for key, w := range l.windows {
		if now.Sub(w.lastReset) >= l.interval {
			delete(l.windows, key)
		}
	}
}

// current は期限切れのウィンドウを破棄したうえでキーのウィンドウを返します。呼び出し側でロックを保持すること。
func (l *MemoryLimiter) current(key string) *window {
	w, ok := l.windows[key]
	if !ok {
		return nil
	}
	// interval を過ぎたらリセット
	if l.now().Sub(w.lastReset) >= l.interval {
		delete(l.windows, key)
		return nil
	}
	return w
}

// Blocked はキーが上限に達しているかを返します。
func (l *MemoryLimiter) Blocked(_ context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return false, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	w := l.current(key)
	return w != nil && w.count >= l.limit, nil
}

// RecordFailure はキーの失敗回数を1増やします。
func (l *MemoryLimiter) RecordFailure(_ context.Context, key string) error {
	if l.limit <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep()
	w := l.current(key)
	if w == nil {
		w = &window{lastReset: l.now()}
		l.windows[key] = w
	}
	w.count++
	return nil
}

// Reset はキーの失敗回数を破棄します。
func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.windows, key)
	return nil
}
