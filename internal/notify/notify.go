// internal/notify/notify.go
// Fire-and-forget open-port event hand-off

package notify

import "github.com/surfscan/surfscan/internal/models"

// Notifier receives one event per newly-discovered open port. Delivery is
// fire-and-forget: the scanner makes no guarantee beyond emitting once.
type Notifier interface {
	OpenPort(event models.OpenPortEvent)
	Close()
}

// Noop discards all events.
type Noop struct{}

func (Noop) OpenPort(models.OpenPortEvent) {}
func (Noop) Close()                        {}
