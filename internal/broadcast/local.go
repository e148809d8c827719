package broadcast

import (
	"context"
	"fmt"

	ws "github.com/gokatarajesh/quiz-live/pkg/http/ws"
)

// Local fans events out to this process's WebSocket hub. Presence is the
// hub's own subscription table, so Join/Leave have nothing to record.
type Local struct {
	hub *ws.Hub
}

func NewLocal(hub *ws.Hub) *Local {
	return &Local{hub: hub}
}

// Publish is best effort per connection; the hub logs slow or closed peers.
func (l *Local) Publish(_ context.Context, channel, event string, payload any) error {
	msg, err := ws.NewMessage(event, payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	_ = l.hub.Publish(channel, msg)
	return nil
}

func (l *Local) Subscribers(_ context.Context, channel string) ([]string, error) {
	return l.hub.Subscribers(channel), nil
}

func (l *Local) Join(context.Context, string, int64) error  { return nil }
func (l *Local) Leave(context.Context, string, int64) error { return nil }
