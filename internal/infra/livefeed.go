package infra

// livefeed.go: change notifications over Redis pub/sub.
// Every mutation publishes the topic name; subscribers re-read the full
// snapshot from Postgres, so a missed or duplicated message self-heals on
// the next one.

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const changeChannelPrefix = "fertilabel:changes:"

// LiveFeed publishes and fans out change notifications per topic.
type LiveFeed struct {
	rdb *redis.Client
}

func NewLiveFeed(rdb *redis.Client) *LiveFeed {
	return &LiveFeed{rdb: rdb}
}

func channelFor(topic string) string { return changeChannelPrefix + topic }

// Publish announces that topic changed.
func (f *LiveFeed) Publish(ctx context.Context, topic string) error {
	if err := f.rdb.Publish(ctx, channelFor(topic), "changed").Err(); err != nil {
		return fmt.Errorf("livefeed: publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe calls onChange for every notification on topic until the returned
// function is called or ctx is done. The subscription is confirmed before
// Subscribe returns.
func (f *LiveFeed) Subscribe(ctx context.Context, topic string, onChange func()) (func(), error) {
	ps := f.rdb.Subscribe(ctx, channelFor(topic))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("livefeed: subscribe %s: %w", topic, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		ch := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				onChange()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if err := ps.Close(); err != nil {
				log.Warn().Err(err).Str("topic", topic).Msg("livefeed: close subscription")
			}
			<-done
		})
	}, nil
}
