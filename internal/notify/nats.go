// internal/notify/nats.go
// NATS-backed open-port event publisher

package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/surfscan/surfscan/internal/models"
	"github.com/surfscan/surfscan/pkg/logger"
)

const defaultSubject = "surfscan.openport"

// NATSNotifier publishes open-port events to a NATS subject for downstream
// web-testing and exploit-recommendation subsystems.
type NATSNotifier struct {
	nc      *nats.Conn
	subject string
}

// NewNATS connects to the NATS server at url.
func NewNATS(url, subject string) (*NATSNotifier, error) {
	if subject == "" {
		subject = defaultSubject
	}
	nc, err := nats.Connect(url, nats.Name("surfscan"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats at %s: %w", url, err)
	}
	logger.Info("connected to nats", logger.String("url", url), logger.String("subject", subject))
	return &NATSNotifier{nc: nc, subject: subject}, nil
}

// OpenPort publishes the event. Failures are logged and dropped; event
// delivery is best effort and never stalls a scan.
func (n *NATSNotifier) OpenPort(event models.OpenPortEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to encode open-port event", logger.Err(err))
		return
	}
	if err := n.nc.Publish(n.subject, data); err != nil {
		logger.Warn("failed to publish open-port event",
			logger.String("address", event.Address),
			logger.Int("port", event.Port),
			logger.Err(err))
	}
}

// Close flushes and closes the connection.
func (n *NATSNotifier) Close() {
	if err := n.nc.Flush(); err != nil {
		logger.Warn("nats flush failed", logger.Err(err))
	}
	n.nc.Close()
}
