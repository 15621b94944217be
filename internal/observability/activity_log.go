package observability

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/music-catalog/internal/events"
)

// RegisterActivityLog subscribes a structured log line to each credential
// lifecycle event. Token strings never appear in the payloads, so the log is
// safe to retain.
func RegisterActivityLog(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil || logger == nil {
		return
	}
	handler := func(_ context.Context, event events.Event) error {
		logger.Info("activity",
			zap.String("event", string(event.Type)),
			zap.String("actor_type", string(event.Actor.Type)),
			zap.String("actor_id", event.Actor.ID),
		)
		return nil
	}

	dispatcher.Subscribe(events.EventPrincipalSignedIn, handler)
	dispatcher.Subscribe(events.EventTokenRotated, handler)
	dispatcher.Subscribe(events.EventTokenRevoked, handler)
}
