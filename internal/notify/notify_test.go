package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tmajors/daykeeper/internal/models"
)

type stubSender struct {
	calls int
	err   error
	to    models.Contact
	body  string
}

func (s *stubSender) Send(ctx context.Context, to models.Contact, subject, body string) error {
	s.calls++
	s.to = to
	s.body = body
	return s.err
}

func TestMux_RoutesByMethod(t *testing.T) {
	email := &stubSender{}
	sms := &stubSender{}
	mux := NewMux()
	mux.Handle(models.MethodEmail, email)
	mux.Handle(models.MethodSMS, sms)

	contact := models.Contact{Email: "sam@example.com"}
	err := mux.Send(context.Background(), models.MethodEmail, contact, "subj", "body")

	require.NoError(t, err)
	assert.Equal(t, 1, email.calls)
	assert.Zero(t, sms.calls)
	assert.Equal(t, "body", email.body)
}

func TestMux_UnconfiguredChannel(t *testing.T) {
	mux := NewMux()

	err := mux.Send(context.Background(), models.MethodSMS, models.Contact{Phone: "+15550100"}, "", "body")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no sender configured")
}

func TestMux_SenderErrorPropagates(t *testing.T) {
	boom := errors.New("relay down")
	mux := NewMux()
	mux.Handle(models.MethodEmail, &stubSender{err: boom})

	err := mux.Send(context.Background(), models.MethodEmail, models.Contact{Email: "x@y.z"}, "", "")

	assert.ErrorIs(t, err, boom)
}
