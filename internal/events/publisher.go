package events

import (
	"context"
	"log/slog"
	"time"
)

// Source is the slice of the store the publisher needs.
type Source interface {
	FetchPendingOutbox(ctx context.Context, limit int) ([]Record, error)
	MarkOutboxSent(ctx context.Context, id int64) error
}

type PublishFunc func(ctx context.Context, rec Record) error

// Publisher drains the outbox on an interval and hands each pending
// record to publish, marking it sent on success. A record that fails
// to publish stays pending and is retried on the next tick; delivery
// is therefore at-least-once.
type Publisher struct {
	src      Source
	publish  PublishFunc
	interval time.Duration
	batch    int
}

func NewPublisher(src Source, publish PublishFunc, interval time.Duration) *Publisher {
	return &Publisher{
		src:      src,
		publish:  publish,
		interval: interval,
		batch:    100,
	}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := p.PublishPending(ctx); err != nil {
				slog.Error("Outbox publish failed", "error", err)
			} else if n > 0 {
				slog.Debug("Published outbox events", "count", n)
			}
		}
	}
}

// PublishPending drains one batch and returns how many records were
// published and marked sent.
func (p *Publisher) PublishPending(ctx context.Context) (int, error) {
	pending, err := p.src.FetchPendingOutbox(ctx, p.batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, rec := range pending {
		if err := p.publish(ctx, rec); err != nil {
			return sent, err
		}
		if err := p.src.MarkOutboxSent(ctx, rec.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
