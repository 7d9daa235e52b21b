package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// EmailService sends transactional emails.
type EmailService interface {
	SendChallengeInvite(ctx context.Context, toEmail, challengerName, topicName string, challengeID uint) error
}

// NoopEmailService is used when invite emails are disabled.
type NoopEmailService struct{}

func (s *NoopEmailService) SendChallengeInvite(ctx context.Context, toEmail, challengerName, topicName string, challengeID uint) error {
	log.Printf("[EmailService] noop send challenge invite to=%s challenge=%d", toEmail, challengeID)
	return nil
}

// ResendEmailService sends emails via Resend REST API.
type ResendEmailService struct {
	from   string
	client *resend.Client
}

func NewResendEmailService(apiKey, from string) (*ResendEmailService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("resend api key is required")
	}
	if from == "" {
		return nil, fmt.Errorf("email from is required")
	}
	return &ResendEmailService{
		from:   from,
		client: resend.NewClient(apiKey),
	}, nil
}

func (s *ResendEmailService) SendChallengeInvite(ctx context.Context, toEmail, challengerName, topicName string, challengeID uint) error {
	if toEmail == "" || challengerName == "" {
		return fmt.Errorf("toEmail and challengerName are required")
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("%s вызывает вас на дуэль!", challengerName),
		Text: fmt.Sprintf("%s вызывает вас на викторину по теме «%s». Откройте приложение, чтобы принять вызов.",
			challengerName, topicName),
		Html: fmt.Sprintf("<p><strong>%s</strong> вызывает вас на викторину по теме «%s».</p><p>Откройте приложение, чтобы принять вызов.</p>",
			challengerName, topicName),
	}

	options := &resend.SendEmailOptions{
		// Одно письмо на челлендж: повторная отправка при ретраях не дублируется
		IdempotencyKey: fmt.Sprintf("challenge-invite/%d", challengeID),
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		_, err := s.client.Emails.SendWithOptions(ctx, params, options)
		if err == nil {
			return nil
		}
		lastErr = err

		if wait, ok := resendRetryDelay(err, attempt); ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
				continue
			}
		}

		return fmt.Errorf("resend send failed: %w", err)
	}

	return fmt.Errorf("resend send failed after retries: %w", lastErr)
}

func resendRetryDelay(err error, attempt int) (time.Duration, bool) {
	var rateLimitErr *resend.RateLimitError
	if errors.As(err, &rateLimitErr) {
		if seconds, convErr := strconv.Atoi(strings.TrimSpace(rateLimitErr.RetryAfter)); convErr == nil && seconds > 0 {
			if seconds > 30 {
				seconds = 30
			}
			return time.Duration(seconds) * time.Second, true
		}
		return time.Duration(attempt+1) * time.Second, true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "temporar") {
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	}

	return 0, false
}
