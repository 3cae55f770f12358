package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Notifier delivers one formatted message to an outbound channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// FromEndpoint returns the webhook notifier for url, or nil when url is empty.
func FromEndpoint(url string) Notifier {
	if s := NewSlack(url); s != nil {
		return s
	}
	return nil
}

// Dispatcher turns transition events into messages. Delivery is best-effort:
// errors are logged and dropped, nothing is retried.
type Dispatcher struct {
	Notifier   Notifier
	Identifier string
	Logger     *zap.Logger
}

func NewDispatcher(n Notifier, identifier string, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Notifier: n, Identifier: identifier, Logger: logger}
}

// Enabled reports whether Notify will attempt an outbound call.
func (d *Dispatcher) Enabled() bool {
	return d != nil && d.Notifier != nil
}

func (d *Dispatcher) Notify(ctx context.Context, e domain.Event) {
	if !d.Enabled() {
		return
	}
	text := Format(d.Identifier, e)
	if err := d.Notifier.Send(ctx, text); err != nil {
		d.Logger.Warn("notify_failed",
			zap.String("event_id", e.ID),
			zap.String("target", e.Identity),
			zap.String("direction", string(e.Direction)),
			zap.Error(err),
		)
		return
	}
	d.Logger.Info("notify_sent",
		zap.String("event_id", e.ID),
		zap.String("target", e.Identity),
		zap.String("direction", string(e.Direction)),
	)
}

// Format renders the chat message for a transition.
func Format(identifier string, e domain.Event) string {
	if e.Direction == domain.DirectionUp {
		return fmt.Sprintf("%s: Yey! :+1: :+1: :+1: *%s* is up again! (%s)", identifier, e.Identity, e.Timestamp())
	}
	return fmt.Sprintf("%s: *%s* is DOWN :sob: (%s)", identifier, e.Identity, e.Timestamp())
}
