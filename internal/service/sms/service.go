package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"servicehub/internal/config"
)

type Service interface {
	Send(ctx context.Context, phone, text string) error
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	SMS     string `json:"sms"`
	Type    string `json:"type"`
	Channel string `json:"channel"`
	APIKey  string `json:"api_key"`
}

// service talks to a Termii-compatible SMS gateway.
type service struct {
	baseURL    string
	apiKey     string
	senderID   string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewService(cfg *config.Config, logger *zap.Logger) Service {
	return &service{
		baseURL:  strings.TrimRight(cfg.SMSBaseURL, "/"),
		apiKey:   cfg.SMSAPIKey,
		senderID: cfg.SMSSenderID,
		httpClient: &http.Client{
			Timeout: cfg.SMSTimeout,
		},
		logger: logger,
	}
}

func (s *service) Send(ctx context.Context, phone, text string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sms is not configured")
	}
	phone = NormalizePhone(phone)
	if phone == "" {
		return fmt.Errorf("recipient has no phone number")
	}

	payload, err := json.Marshal(sendRequest{
		To:      phone,
		From:    s.senderID,
		SMS:     text,
		Type:    "plain",
		Channel: "generic",
		APIKey:  s.apiKey,
	})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/sms/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	s.logger.Debug("sms gateway response",
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("sms gateway returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NormalizePhone converts local Nigerian numbers (0803...) to the international
// form without a plus sign (234803...). Other numbers are returned digits-only.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	out := digits.String()
	if strings.HasPrefix(out, "0") && len(out) == 11 {
		return "234" + out[1:]
	}
	return out
}
