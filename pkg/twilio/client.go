// Package twilio talks to the telephony provider: a REST client for
// outbound dials and messaging, a TwiML response builder, and parsers
// for the form-encoded webhook callbacks.
package twilio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twilio.com/2010-04-01"

// statusCallbackEvents are the lifecycle transitions the provider is
// asked to report for outbound dials.
var statusCallbackEvents = []string{"initiated", "ringing", "answered", "completed"}

// Config configures the REST client.
type Config struct {
	// AccountSID and AuthToken authenticate API requests. Required.
	AccountSID string
	AuthToken  string

	// BaseURL overrides the API endpoint (tests).
	BaseURL string

	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client
}

// Client is a minimal REST client for the provider's Calls and Messages
// resources.
type Client struct {
	accountSID string
	authToken  string
	baseURL    string
	httpClient *http.Client
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.AccountSID == "" {
		return nil, errors.New("twilio: account sid is required")
	}
	if cfg.AuthToken == "" {
		return nil, errors.New("twilio: auth token is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// CallResource is the provider's representation of a created call.
type CallResource struct {
	SID       string `json:"sid"`
	To        string `json:"to"`
	From      string `json:"from"`
	Status    string `json:"status"`
	Direction string `json:"direction"`
}

// DialParams describe an outbound call.
type DialParams struct {
	To   string
	From string

	// TwiML is the inline response document answering the call.
	TwiML string

	// StatusCallback receives lifecycle events
	// (initiated, ringing, answered, completed).
	StatusCallback string

	// RecordingCallback receives the recording-ready notification.
	// When set, the call is recorded and answering machines detected.
	RecordingCallback string
}

// Dial starts an outbound call.
func (c *Client) Dial(ctx context.Context, p DialParams) (*CallResource, error) {
	if p.To == "" || p.From == "" {
		return nil, errors.New("twilio: dial requires both To and From")
	}
	data := url.Values{}
	data.Set("To", p.To)
	data.Set("From", p.From)
	if p.TwiML != "" {
		data.Set("Twiml", p.TwiML)
	}
	if p.StatusCallback != "" {
		data.Set("StatusCallback", p.StatusCallback)
		for _, ev := range statusCallbackEvents {
			data.Add("StatusCallbackEvent", ev)
		}
	}
	if p.RecordingCallback != "" {
		data.Set("Record", "true")
		data.Set("RecordingStatusCallback", p.RecordingCallback)
		data.Set("MachineDetection", "Enable")
	}

	var call CallResource
	endpoint := fmt.Sprintf("%s/Accounts/%s/Calls.json", c.baseURL, c.accountSID)
	if err := c.post(ctx, endpoint, data, &call); err != nil {
		return nil, err
	}
	return &call, nil
}

// MessageResource is the provider's representation of a sent message.
type MessageResource struct {
	SID    string `json:"sid"`
	To     string `json:"to"`
	From   string `json:"from"`
	Status string `json:"status"`
}

// SendWhatsApp sends a WhatsApp message. Addresses are prefixed with
// "whatsapp:" when the caller passes bare E.164 numbers.
func (c *Client) SendWhatsApp(ctx context.Context, to, from, body string) (*MessageResource, error) {
	if to == "" || body == "" {
		return nil, errors.New("twilio: message requires To and Body")
	}
	data := url.Values{}
	data.Set("To", whatsAppAddress(to))
	data.Set("From", whatsAppAddress(from))
	data.Set("Body", body)

	var msg MessageResource
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	if err := c.post(ctx, endpoint, data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// whatsAppAddress ensures the whatsapp: address prefix.
func whatsAppAddress(number string) string {
	if number == "" || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// APIError is an error response from the provider.
type APIError struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	MoreInfo string `json:"more_info"`
	Status   int    `json:"status"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twilio: api error %d: %s", e.Code, e.Message)
}

// post sends a form-encoded request with basic auth and decodes the
// JSON response into result.
func (c *Client) post(ctx context.Context, endpoint string, data url.Values, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return fmt.Errorf("twilio: http %d: %s", resp.StatusCode, body)
		}
		return &apiErr
	}
	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("twilio: decode response: %w", err)
		}
	}
	return nil
}
