package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
)

// Message is a titled push message with an optional data payload.
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// TokenSender delivers a message to a single device token. Implemented by
// the Expo and FCM clients; mocked in tests.
type TokenSender interface {
	Send(ctx context.Context, token string, msg Message) error
}

// WebPushSender delivers a web push notification.
type WebPushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// LibWebPushSender is the real WebPushSender backed by the webpush library.
type LibWebPushSender struct{}

func (s *LibWebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// ExpoClient sends messages through the Expo push HTTP API.
type ExpoClient struct {
	url    string
	client *http.Client
}

// NewExpoClient creates an Expo push client with a short per-request timeout
// so a hung provider cannot stall the caller.
func NewExpoClient(url string, timeout time.Duration) *ExpoClient {
	return &ExpoClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type expoRequest struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
	Sound string            `json:"sound"`
}

type expoResponse struct {
	Data struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"data"`
}

func (c *ExpoClient) Send(ctx context.Context, token string, msg Message) error {
	body, err := json.Marshal(expoRequest{
		To:    token,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
		Sound: "default",
	})
	if err != nil {
		return fmt.Errorf("failed to encode expo request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("expo push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}

	var ticket expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return fmt.Errorf("failed to decode expo ticket: %w", err)
	}
	if ticket.Data.Status == "error" {
		return fmt.Errorf("expo push rejected: %s", ticket.Data.Message)
	}
	return nil
}

// FCMClient sends messages through the FCM HTTP API.
type FCMClient struct {
	url       string
	serverKey string
	client    *http.Client
}

// NewFCMClient creates an FCM client.
func NewFCMClient(url, serverKey string, timeout time.Duration) *FCMClient {
	return &FCMClient{
		url:       url,
		serverKey: serverKey,
		client:    &http.Client{Timeout: timeout},
	}
}

type fcmRequest struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

func (c *FCMClient) Send(ctx context.Context, token string, msg Message) error {
	body, err := json.Marshal(fcmRequest{
		To:           token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode fcm request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+c.serverKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fcm push request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm push returned status %d: %s", resp.StatusCode, payload)
	}

	var result fcmResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode fcm response: %w", err)
	}
	if result.Failure > 0 {
		return fmt.Errorf("fcm push reported failure")
	}
	return nil
}
