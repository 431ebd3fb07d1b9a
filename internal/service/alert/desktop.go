package alert

import (
	"errors"
	"signalguard/internal/logger"
	"sync/atomic"
	"time"

	"github.com/gen2brain/beeep"
)

// ErrNotifyPending is returned when the previous notification has not been
// delivered yet. The new notification is dropped.
var ErrNotifyPending = errors.New("previous desktop notification still pending")

// Desktop delivers notifications through the platform notification
// service in the background. At most one delivery is in flight; Notify
// never waits for the platform.
type Desktop struct {
	notify  func(title, message, icon string) error
	slow    time.Duration
	logger  *logger.Logger
	pending atomic.Bool
}

// NewDesktop creates a notifier backed by beeep. Deliveries taking longer
// than slow are logged as warnings.
func NewDesktop(slow time.Duration, logger *logger.Logger) *Desktop {
	return NewDesktopWithNotifier(beeep.Notify, slow, logger)
}

// NewDesktopWithNotifier creates a Desktop delivering through notify.
func NewDesktopWithNotifier(notify func(title, message, icon string) error, slow time.Duration, logger *logger.Logger) *Desktop {
	return &Desktop{notify: notify, slow: slow, logger: logger}
}

// Notify queues title and message for delivery and returns immediately.
// It returns ErrNotifyPending when a delivery is still running.
func (d *Desktop) Notify(title, message string) error {
	if !d.pending.CompareAndSwap(false, true) {
		return ErrNotifyPending
	}

	go func() {
		defer d.pending.Store(false)

		start := time.Now()
		err := d.notify(title, message, "")
		if err != nil {
			d.logger.Warning("Desktop notification failed: %v", err)
			return
		}
		if took := time.Since(start); d.slow > 0 && took > d.slow {
			d.logger.Warning("Desktop notification took %v", took.Round(time.Millisecond))
		}
	}()
	return nil
}

// Pending reports whether a delivery is in flight.
func (d *Desktop) Pending() bool {
	return d.pending.Load()
}
