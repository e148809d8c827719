package broadcast

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

func TestLocalPublishReachesChannelOnly(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	b := NewLocal(hub)

	inSession := subscribe(t, hub, "session-abcde", 1)
	_ = subscribe(t, hub, "session-zzzzz", 2)

	err := b.Publish(context.Background(), "session-abcde", "QUESTION_LOOP", map[string]int{"questionCountdown": 7})
	require.NoError(t, err)

	msg := readMessage(t, inSession)
	assert.Equal(t, "QUESTION_LOOP", msg.Type)
	var payload map[string]int
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, 7, payload["questionCountdown"])
}

func TestLocalSubscribersAreDistinctUsers(t *testing.T) {
	hub := ws.NewHub(zerolog.Nop())
	b := NewLocal(hub)

	subscribe(t, hub, "session-abcde", 5)
	subscribe(t, hub, "session-abcde", 5)
	subscribe(t, hub, "session-abcde", 12)

	ids, err := b.Subscribers(context.Background(), "session-abcde")
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "5"}, ids)

	ids, err = b.Subscribers(context.Background(), "session-empty")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
