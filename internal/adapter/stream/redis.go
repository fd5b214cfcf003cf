// Package stream fans live transcription segments out over Redis pub/sub so every
// API replica can serve websocket subscribers.
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"court-service/internal/domain/transcription"
)

// Channel is the pub/sub channel of a transcription session.
func Channel(sessionID string) string {
	return "transcription:session:" + sessionID
}

// Hub publishes and subscribes to session channels.
type Hub struct {
	client *redis.Client
	log    *zap.Logger
}

// NewHub creates a Redis-backed Hub.
func NewHub(client *redis.Client, log *zap.Logger) *Hub {
	return &Hub{client: client, log: log}
}

// Publish sends seg to subscribers of its session.
func (h *Hub) Publish(ctx context.Context, seg *transcription.Segment) error {
	payload, err := json.Marshal(seg)
	if err != nil {
		return fmt.Errorf("marshal segment: %w", err)
	}
	receivers, err := h.client.Publish(ctx, Channel(seg.SessionID), payload).Result()
	if err != nil {
		return fmt.Errorf("publish segment: %w", err)
	}
	h.log.Debug("segment published", zap.String("session_id", seg.SessionID), zap.Int64("receivers", receivers))
	return nil
}

// Subscription delivers the raw JSON segments of one session.
type Subscription struct {
	ps *redis.PubSub
	ch <-chan *redis.Message
}

// Subscribe listens on the channel of sessionID. The subscription is confirmed
// before Subscribe returns.
func (h *Hub) Subscribe(ctx context.Context, sessionID string) (*Subscription, error) {
	ps := h.client.Subscribe(ctx, Channel(sessionID))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return &Subscription{ps: ps, ch: ps.Channel()}, nil
}

// Messages returns the payload channel. It is closed when the subscription closes.
func (s *Subscription) Messages() <-chan *redis.Message {
	return s.ch
}

// Close ends the subscription.
func (s *Subscription) Close() error {
	return s.ps.Close()
}
