// Package notify delivers reminder notifications over the configured
// channels. The scheduler only sees the Dispatcher interface; channel
// senders are registered on a Mux keyed by delivery method.
package notify

import (
	"context"
	"fmt"

	"github.com/tmajors/daykeeper/internal/models"
)

type Dispatcher interface {
	Send(ctx context.Context, method models.Method, to models.Contact, subject, body string) error
}

// Sender delivers one message over a single channel.
type Sender interface {
	Send(ctx context.Context, to models.Contact, subject, body string) error
}

type Mux struct {
	senders map[models.Method]Sender
}

func NewMux() *Mux {
	return &Mux{senders: make(map[models.Method]Sender)}
}

func (m *Mux) Handle(method models.Method, sender Sender) {
	m.senders[method] = sender
}

// Send routes to the sender registered for method. An unregistered method
// (channel not configured) is an error; the caller decides retry policy.
func (m *Mux) Send(ctx context.Context, method models.Method, to models.Contact, subject, body string) error {
	sender, ok := m.senders[method]
	if !ok {
		return fmt.Errorf("no sender configured for channel %q", method)
	}
	return sender.Send(ctx, to, subject, body)
}
