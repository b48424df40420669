package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"undangan/rsvphub/internal/config"
)

const (
	defaultWATimeout = 20 * time.Second
	maxWADetail      = 200
)

// MessageSender delivers one text message to one WhatsApp number.
type MessageSender interface {
	Send(ctx context.Context, phone, message string) error
}

type waGatewaySender struct {
	cfg    config.WAConfig
	client *http.Client
}

type waPayload struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// NewWAGatewaySender posts messages to an HTTP WhatsApp gateway.
// A sender with missing credentials is still returned; every Send then fails.
func NewWAGatewaySender(cfg config.WAConfig) MessageSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultWATimeout
	}
	return &waGatewaySender{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *waGatewaySender) configured() bool {
	return strings.TrimSpace(s.cfg.APIURL) != "" && s.cfg.User != "" && s.cfg.Pass != ""
}

func (s *waGatewaySender) Send(ctx context.Context, phone, message string) error {
	if !s.configured() {
		return newError(ErrDelivery, "WA_API_URL / WA_USER / WA_PASS belum diisi")
	}

	body, err := json.Marshal(waPayload{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return newError(ErrDelivery, fmt.Sprintf("WA request failed: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.cfg.User, s.cfg.Pass)

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return newError(ErrDelivery, fmt.Sprintf(
				"WA timeout: server tidak merespons dalam %d detik", int(s.cfg.Timeout.Seconds())))
		}
		return newError(ErrDelivery, fmt.Sprintf("WA request failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return newError(ErrDelivery, fmt.Sprintf("WA HTTP %d: %s", resp.StatusCode, gatewayDetail(raw)))
}

// gatewayDetail prefers the gateway's JSON "message" field over the raw body.
func gatewayDetail(raw []byte) string {
	detail := string(raw)
	var parsed struct {
		Message *string `json:"message"`
	}
	if json.Unmarshal(raw, &parsed) == nil && parsed.Message != nil {
		detail = *parsed.Message
	}
	if r := []rune(detail); len(r) > maxWADetail {
		detail = string(r[:maxWADetail])
	}
	return detail
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
