// Package batcher provides a generic buffered batch processor with rate limiting.
package batcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goodnatureofminers/bsq-parser/internal/clock"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"
)

const (
	defaultFinalFlushTimeout = 10 * time.Second
	defaultRetryInitialDelay = time.Second
	defaultRetryMaxDelay     = time.Minute
)

// ErrStopped is returned by Add once the batcher has been stopped.
var ErrStopped = fmt.Errorf("batcher stopped: %w", context.Canceled)

// Config controls when buffered items are flushed.
type Config struct {
	// FlushSize is the number of buffered items that triggers a flush.
	FlushSize int
	// FlushInterval flushes a partially filled buffer.
	FlushInterval time.Duration
	// RPS limits flushes per second.
	RPS int
	// FinalFlushTimeout bounds the flush performed on shutdown, which runs
	// detached from the canceled run context.
	FinalFlushTimeout time.Duration
	// RetryInitialDelay and RetryMaxDelay bound the backoff between attempts
	// to flush a batch whose callback failed. A failed batch is kept and
	// retried; new items queue behind it.
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
}

func (c Config) validate() error {
	switch {
	case c.FlushSize <= 0:
		return errors.New("flush size must be positive")
	case c.FlushInterval <= 0:
		return errors.New("flush interval must be positive")
	case c.RPS <= 0:
		return errors.New("rps must be positive")
	}
	return nil
}

// Batcher buffers items and flushes them either by size or interval.
type Batcher[T any] struct {
	flushCallback func(context.Context, []T) error
	itemsCh       chan T
	cfg           Config
	rl            ratelimit.Limiter
	logger        *zap.Logger

	wg       sync.WaitGroup
	stop     chan struct{}
	stopOnce sync.Once
}

// New constructs a Batcher.
func New[T any](logger *zap.Logger, flushCallback func(context.Context, []T) error, cfg Config) (*Batcher[T], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.FinalFlushTimeout <= 0 {
		cfg.FinalFlushTimeout = defaultFinalFlushTimeout
	}
	if cfg.RetryInitialDelay <= 0 {
		cfg.RetryInitialDelay = defaultRetryInitialDelay
	}
	if cfg.RetryMaxDelay < cfg.RetryInitialDelay {
		cfg.RetryMaxDelay = max(defaultRetryMaxDelay, cfg.RetryInitialDelay)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Batcher[T]{
		logger:        logger,
		flushCallback: flushCallback,
		itemsCh:       make(chan T, cfg.FlushSize*2),
		cfg:           cfg,
		rl:            ratelimit.New(cfg.RPS),
		stop:          make(chan struct{}),
	}, nil
}

// Start begins the background flushing loop.
func (b *Batcher[T]) Start(ctx context.Context) {
	b.wg.Add(1)
	go b.run(ctx)
}

// Stop flushes what is buffered and waits for the loop to exit. It is safe to
// call more than once.
func (b *Batcher[T]) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
	})
	b.wg.Wait()
}

// Add queues an item for batching, respecting context cancellation.
func (b *Batcher[T]) Add(ctx context.Context, item T) error {
	select {
	case <-b.stop:
		return ErrStopped
	default:
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-b.stop:
		return ErrStopped
	case b.itemsCh <- item:
		return nil
	}
}

func (b *Batcher[T]) run(ctx context.Context) {
	defer b.wg.Done()

	ticker := time.NewTicker(b.cfg.FlushInterval)
	defer ticker.Stop()

	buf := make([]T, 0, b.cfg.FlushSize)

	// flush retries until the callback succeeds. It gives up, keeping buf,
	// when ctx is done or interrupt is closed; the shutdown drain then makes
	// the last, bounded attempt.
	flush := func(ctx context.Context, interrupt <-chan struct{}) {
		if len(buf) == 0 {
			return
		}

		backoff := clock.Backoff{Initial: b.cfg.RetryInitialDelay, Max: b.cfg.RetryMaxDelay}
		for attempt := 1; ; attempt++ {
			b.rl.Take()
			err := b.flushCallback(ctx, buf)
			if err == nil {
				b.logger.Debug("batch flushed", zap.Int("size", len(buf)), zap.Int("attempt", attempt))
				buf = buf[:0]
				return
			}

			delay := backoff.Next()
			b.logger.Warn("batch flush failed, retrying",
				zap.Int("size", len(buf)),
				zap.Int("attempt", attempt),
				zap.Duration("sleep", delay),
				zap.Error(err),
			)
			if !b.wait(ctx, interrupt, delay) {
				if interrupt == nil {
					b.logger.Error("batch not flushed", zap.Int("size", len(buf)), zap.Error(err))
				}
				return
			}
		}
	}

	drain := func() {
		for {
			select {
			case item := <-b.itemsCh:
				buf = append(buf, item)
			default:
				finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), b.cfg.FinalFlushTimeout)
				defer cancel()
				flush(finalCtx, nil)
				return
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			drain()
			return

		case <-b.stop:
			drain()
			return

		case item := <-b.itemsCh:
			buf = append(buf, item)
			if len(buf) >= b.cfg.FlushSize {
				flush(ctx, b.stop)
			}

		case <-ticker.C:
			flush(ctx, b.stop)
		}
	}
}

// wait sleeps for d and reports whether the caller may retry.
func (b *Batcher[T]) wait(ctx context.Context, interrupt <-chan struct{}, d time.Duration) bool {
	select {
	case <-interrupt:
		return false
	default:
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-interrupt:
			cancel()
		case <-waitCtx.Done():
		}
	}()
	return clock.Sleep(waitCtx, d) == nil
}
