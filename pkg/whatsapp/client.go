// Package whatsapp is a minimal client for the WhatsApp Cloud API message
// endpoint, limited to template messages.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the Cloud API credentials
type Config struct {
	BaseURL       string // e.g. https://graph.facebook.com/v19.0
	Token         string
	PhoneNumberID string
	Timeout       time.Duration
}

// Client sends template messages
type Client struct {
	cfg  Config
	http *http.Client
}

// New creates a client. A zero timeout defaults to 15 seconds.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.cfg.Token != "" && c.cfg.PhoneNumberID != ""
}

// TemplateMessage is one approved template addressed to one phone number.
type TemplateMessage struct {
	To         string // digits only, with country code
	Template   string
	Language   string
	BodyParams []string
}

// APIError is an error response from the Cloud API
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp api: status %d code %d: %s", e.StatusCode, e.Code, e.Message)
}

// Retryable reports whether the failure is a throttle or server error.
func (e *APIError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type templateBody struct {
	Name       string            `json:"name"`
	Language   map[string]string `json:"language"`
	Components []component       `json:"components,omitempty"`
}

type sendRequest struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *APIError `json:"error"`
}

// SendTemplate posts one template message and returns the message id.
func (c *Client) SendTemplate(ctx context.Context, msg TemplateMessage) (string, error) {
	body := sendRequest{
		MessagingProduct: "whatsapp",
		To:               msg.To,
		Type:             "template",
		Template: templateBody{
			Name:     msg.Template,
			Language: map[string]string{"code": msg.Language},
		},
	}
	if len(msg.BodyParams) > 0 {
		params := make([]parameter, len(msg.BodyParams))
		for i, p := range msg.BodyParams {
			params[i] = parameter{Type: "text", Text: p}
		}
		body.Template.Components = []component{{Type: "body", Parameters: params}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/" + c.cfg.PhoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("whatsapp request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("whatsapp response: %w", err)
	}

	var out sendResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil && resp.StatusCode < 300 {
			return "", fmt.Errorf("whatsapp response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if out.Error != nil {
			apiErr.Code = out.Error.Code
			apiErr.Message = out.Error.Message
		}
		return "", apiErr
	}
	if len(out.Messages) == 0 {
		return "", fmt.Errorf("whatsapp response: no message id")
	}
	return out.Messages[0].ID, nil
}
