package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// Mailer delivers transactional mail. The only message this system sends is
// the password-reset link, on behalf of the auth layer.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

// Message is the payload posted to the HTTP mail relay.
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// RelayMailer posts messages to an HTTP mail relay (Resend, Mailgun-style
// endpoint). Transport failures are retried with backoff; a non-2xx after
// retries is an error.
type RelayMailer struct {
	url    string
	token  string
	from   string
	client *retryablehttp.Client
}

func NewRelayMailer(url, token, from string, logger zerolog.Logger) *RelayMailer {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 500 * time.Millisecond
	client.RetryWaitMax = 5 * time.Second
	client.HTTPClient.Timeout = 15 * time.Second
	client.Logger = nil

	return &RelayMailer{
		url:    url,
		token:  token,
		from:   from,
		client: client,
	}
}

func (m *RelayMailer) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	msg := Message{
		From:    m.from,
		To:      to,
		Subject: "Redefinição de senha",
		Text: fmt.Sprintf(
			"Recebemos um pedido para redefinir a sua senha.\n\n"+
				"Acesse o link abaixo para escolher uma nova senha:\n%s\n\n"+
				"Se você não fez este pedido, ignore este e-mail.", resetURL),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal mail message: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("post to mail relay: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail relay returned status %d", resp.StatusCode)
	}
	return nil
}

// LogMailer writes the reset link to the log instead of sending it. Used in
// development and whenever no relay is configured.
type LogMailer struct {
	Logger zerolog.Logger
}

func (m *LogMailer) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.Logger.Info().
		Str("to", to).
		Str("reset_url", resetURL).
		Msg("password reset mail (no relay configured, logging only)")
	return nil
}
