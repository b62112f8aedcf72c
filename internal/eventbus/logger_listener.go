package eventbus

import (
	"context"

	"github.com/annel0/aicup-bot/internal/logging"
)

// StartLoggingListener подписывается на все события и пишет их в лог компонента "eventbus".
// Функция неблокирующая.
func StartLoggingListener(bus EventBus) (Subscription, error) {
	logger := logging.GetComponentLogger("eventbus")
	sub, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		if ev.EventType != EventDecision {
			logger.Info("%s match=%s src=%s", ev.EventType, ev.MatchID, ev.Source)
			return
		}
		logger.Trace("decision match=%s tick=%s unit=%s target=%s size=%dB",
			ev.MatchID, ev.Metadata["tick"], ev.Metadata["unit_id"], ev.Metadata["target"], len(ev.Payload))
	})
	if err != nil {
		return nil, err
	}
	logger.Info("🪵 LoggingListener: подписка на все события активирована")
	return sub, nil
}
