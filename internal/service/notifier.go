package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Change-feed topics.
const (
	TopicQueue   = "queue"
	TopicHistory = "history"
)

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe = func()

// Notifier carries "topic changed" signals between API instances.
// Implemented by infra.LiveFeed.
type Notifier interface {
	Publish(ctx context.Context, topic string) error
	Subscribe(ctx context.Context, topic string, onChange func()) (Unsubscribe, error)
}

// publish is best effort: the write it announces already succeeded and
// subscribers re-sync on the next change anyway.
func publish(ctx context.Context, n Notifier, topic string) {
	if n == nil {
		return
	}
	if err := n.Publish(ctx, topic); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("change notification not published")
	}
}

// subscribeSnapshots delivers load's result once immediately and again after
// every change on topic. Deliveries never overlap.
func subscribeSnapshots[T any](
	ctx context.Context,
	n Notifier,
	topic string,
	load func(context.Context) (T, error),
	onChange func(T),
) (Unsubscribe, error) {
	var mu sync.Mutex
	deliver := func() {
		mu.Lock()
		defer mu.Unlock()
		snap, err := load(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("topic", topic).Msg("snapshot reload failed")
			}
			return
		}
		onChange(snap)
	}

	unsub, err := n.Subscribe(ctx, topic, deliver)
	if err != nil {
		return nil, err
	}
	deliver()
	return unsub, nil
}
