// Package mail delivers OTP codes through the SendGrid v3 REST API. Without
// an API key the sender degrades to logging the code, which keeps local
// development working end to end.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/ragevaluator/account-service/internal/core/domain"
)

const sendURL = "https://api.sendgrid.com/v3/mail/send"

// Sender implements ports.Mailer on top of SendGrid.
type Sender struct {
	apiKey string
	from   string
	client *http.Client
	logger zerolog.Logger
}

func NewSender(apiKey, from string, logger zerolog.Logger) *Sender {
	return &Sender{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridRequest struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

// SendOTP sends the code to the recipient. The request context bounds the
// whole attempt; SendGrid acknowledges accepted mail with 202.
func (s *Sender) SendOTP(ctx context.Context, to, code string, kind domain.ChallengeKind) error {
	if s.apiKey == "" {
		s.logger.Info().
			Str("email", to).
			Str("kind", string(kind)).
			Str("code", code).
			Msg("mail delivery disabled, logging otp instead")
		return nil
	}

	body, err := json.Marshal(buildRequest(s.from, to, code, kind))
	if err != nil {
		return fmt.Errorf("encode mail request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendgrid responded %d: %s", resp.StatusCode, detail)
	}

	s.logger.Debug().Str("email", to).Str("kind", string(kind)).Msg("otp mail accepted")
	return nil
}

func buildRequest(from, to, code string, kind domain.ChallengeKind) sendgridRequest {
	subject := "Password Reset OTP"
	intro := "You have requested to reset your password."
	if kind == domain.ChallengeRegistration {
		subject = "Email Verification OTP"
		intro = "Thank you for registering. Please verify your email address."
	}

	text := fmt.Sprintf("%s Your OTP is %s. This code will expire in %d minutes.",
		intro, code, int(domain.ChallengeTTL.Minutes()))

	return sendgridRequest{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: to}}}},
		From:             sendgridAddress{Email: from},
		Subject:          subject,
		Content:          []sendgridContent{{Type: "text/plain", Value: text}},
	}
}
