// Package notify delivers registration events to an external channel.
// Delivery is fire-and-forget: the Dispatcher runs every notification on
// its own goroutine, bounded by a timeout and by the process lifetime, and
// failures are only logged and counted.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/iqx/iqx-backend/internal/metrics"
	"github.com/iqx/iqx-backend/internal/queue"
)

// Notifier delivers one event.  Implementations may block up to ctx's
// deadline.
type Notifier interface {
	Notify(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// Dispatcher runs notifications in the background.
type Dispatcher struct {
	notifier Notifier
	driver   string
	timeout  time.Duration
	base     context.Context
	log      *slog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher returns a dispatcher whose deliveries are cancelled when
// base is done.  driver only labels logs and metrics.
func NewDispatcher(base context.Context, n Notifier, driver string, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Dispatcher{
		notifier: n,
		driver:   driver,
		timeout:  timeout,
		base:     base,
		log:      log.With(slog.String("op", "notify.Dispatch"), slog.String("driver", driver)),
	}
}

// Dispatch schedules delivery of ev and returns immediately.
func (d *Dispatcher) Dispatch(ev queue.UserRegisteredEvent) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("notifier panicked", slog.Any("panic", r))
				metrics.Notifications.WithLabelValues(d.driver, "error").Inc()
			}
		}()

		ctx, cancel := context.WithTimeout(d.base, d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, ev); err != nil {
			d.log.Warn("registration notification failed", slog.String("email", ev.Email), slog.Any("error", err))
			metrics.Notifications.WithLabelValues(d.driver, "error").Inc()
			return
		}
		metrics.Notifications.WithLabelValues(d.driver, "ok").Inc()
	}()
}

// Wait blocks until every dispatched notification has finished or ctx is
// done, whichever comes first.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
