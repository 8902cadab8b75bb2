package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/magicalboonies/safaribook/config"
)

// Relay forwards contact-form submissions to the third-party form endpoint.
// Fire-and-forget: nothing beyond the HTTP status is consumed.
type Relay struct {
	endpoint   string
	httpClient *http.Client
}

type Message struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Body    string
}

func NewRelay(cfg config.ContactConfig) *Relay {
	return &Relay{
		endpoint:   cfg.Endpoint + "/" + cfg.FormID,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type relayPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func (r *Relay) Send(ctx context.Context, msg Message) error {
	compiled := fmt.Sprintf("Subject: %s\nPhone: %s\nMessage: %s", msg.Subject, msg.Phone, msg.Body)

	payload, err := json.Marshal(relayPayload{Name: msg.Name, Email: msg.Email, Message: compiled})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send contact form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("contact relay returned status %d", resp.StatusCode)
	}
	return nil
}
