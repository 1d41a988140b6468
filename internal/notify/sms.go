package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tmajors/daykeeper/internal/models"
)

// SMSSender posts messages to an SMS gateway webhook. The gateway contract
// is a JSON POST of {"to", "body"}; any 2xx response counts as accepted.
type SMSSender struct {
	URL    string
	Client *http.Client
}

func NewSMSSender(url string) *SMSSender {
	return &SMSSender{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type smsPayload struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (s *SMSSender) Send(ctx context.Context, to models.Contact, subject, body string) error {
	if to.Phone == "" {
		return fmt.Errorf("contact has no phone number")
	}

	payload, err := json.Marshal(smsPayload{To: to.Phone, Body: body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway returned status %d", resp.StatusCode)
	}
	return nil
}
