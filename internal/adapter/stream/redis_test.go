package stream

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/domain/transcription"
)

func TestPublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hub := NewHub(client, zaptest.NewLogger(t))
	ctx := context.Background()

	sub, err := hub.Subscribe(ctx, "s-1")
	require.NoError(t, err)
	defer sub.Close()

	other, err := hub.Subscribe(ctx, "s-2")
	require.NoError(t, err)
	defer other.Close()

	seg := &transcription.Segment{ID: "seg-1", SessionID: "s-1", Sequence: 4, Text: "Order in court",
		Speaker: transcription.Speaker{Name: "Judge"}}
	require.NoError(t, hub.Publish(ctx, seg))

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "transcription:session:s-1", msg.Channel)
		var got transcription.Segment
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, 4, got.Sequence)
		assert.Equal(t, "Order in court", got.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("segment was not delivered")
	}

	select {
	case msg := <-other.Messages():
		t.Fatalf("unexpected message on other session: %s", msg.Payload)
	case <-time.After(100 * time.Millisecond):
	}
}
