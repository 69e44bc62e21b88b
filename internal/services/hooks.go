package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/notify"
)

// DefaultHookTimeout bounds each side effect. Hooks run inline with the
// request, so a dead broker or bot API adds at most this much latency.
const DefaultHookTimeout = 2 * time.Second

// Hooks fans out side effects after a write has succeeded. Failures are
// logged and never reach the caller.
type Hooks struct {
	Publisher messaging.Publisher
	Notifier  notify.Notifier
	Logger    *slog.Logger
	// Timeout per side effect; zero means DefaultHookTimeout.
	Timeout time.Duration
}

func (h *Hooks) timeout() time.Duration {
	if h.Timeout > 0 {
		return h.Timeout
	}
	return DefaultHookTimeout
}

func (h *Hooks) logger() *slog.Logger {
	if h == nil || h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}

func (h *Hooks) publish(ctx context.Context, topic, key string, data any) {
	if h == nil || h.Publisher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout())
	defer cancel()
	if err := h.Publisher.PublishEvent(ctx, topic, key, messaging.NewEvent(topic, data)); err != nil {
		h.logger().Warn("event publish failed", "topic", topic, "key", key, "err", err)
	}
}

func (h *Hooks) alert(ctx context.Context, text string) {
	if h == nil || h.Notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout())
	defer cancel()
	if err := h.Notifier.Notify(ctx, text); err != nil {
		h.logger().Warn("admin notification failed", "err", err)
	}
}
