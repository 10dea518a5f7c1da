package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const DefaultChannelPrefix = "matches:user:"

// RedisPublisher PUBLISHes match events on one channel per participant.
type RedisPublisher struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPublisher(client redis.UniversalClient, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = DefaultChannelPrefix
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the channel a user's match events are published on.
func (p *RedisPublisher) Channel(userID uint64) string {
	return p.prefix + strconv.FormatUint(userID, 10)
}

// Publish sends the event to both participant channels. Every channel is
// attempted even if an earlier one fails.
func (p *RedisPublisher) Publish(ctx context.Context, ev MatchEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}

	var errs []error
	for _, userID := range ev.Recipients() {
		if err := p.client.Publish(ctx, p.Channel(userID), payload).Err(); err != nil {
			errs = append(errs, fmt.Errorf("publish to %s: %w", p.Channel(userID), err))
		}
	}
	return errors.Join(errs...)
}

func (p *RedisPublisher) Transport() string { return "redis" }

// Decode parses a payload received on a match channel.
func Decode(payload string) (MatchEvent, error) {
	var ev MatchEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return MatchEvent{}, fmt.Errorf("decode match event: %w", err)
	}
	return ev, nil
}
