// Package assemblyai is a minimal client for the AssemblyAI v2
// transcript API: submit a recording by URL, then poll until the
// transcript is ready. It implements the enrichment pipeline's
// Transcriber contract.
package assemblyai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.assemblyai.com/v2"

// Config configures the client.
type Config struct {
	// APIKey is the AssemblyAI API key. Required.
	APIKey string

	// BaseURL overrides the API endpoint. Useful for tests.
	BaseURL string

	// PollInterval is the delay between status polls. Default 3s.
	PollInterval time.Duration

	// HTTPClient overrides the HTTP client. Default has a 30s timeout.
	HTTPClient *http.Client
}

// Client talks to the AssemblyAI transcript API.
type Client struct {
	apiKey       string
	baseURL      string
	pollInterval time.Duration
	httpClient   *http.Client
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("assemblyai: api key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 3 * time.Second
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		apiKey:       cfg.APIKey,
		baseURL:      baseURL,
		pollInterval: interval,
		httpClient:   httpClient,
	}, nil
}

// transcript is the subset of the API resource we consume.
type transcript struct {
	ID     string `json:"id"`
	Status string `json:"status"` // queued | processing | completed | error
	Text   string `json:"text"`
	Error  string `json:"error"`
}

// Transcribe submits the recording URL and polls until the transcript
// completes or ctx is done.
func (c *Client) Transcribe(ctx context.Context, recordingURL string) (string, error) {
	if recordingURL == "" {
		return "", errors.New("assemblyai: recording url is required")
	}

	var created transcript
	if err := c.do(ctx, http.MethodPost, "/transcript",
		map[string]string{"audio_url": recordingURL}, &created); err != nil {
		return "", fmt.Errorf("assemblyai: submit: %w", err)
	}
	if created.ID == "" {
		return "", errors.New("assemblyai: submit returned no transcript id")
	}

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		var cur transcript
		if err := c.do(ctx, http.MethodGet, "/transcript/"+created.ID, nil, &cur); err != nil {
			return "", fmt.Errorf("assemblyai: poll %s: %w", created.ID, err)
		}
		switch cur.Status {
		case "completed":
			return cur.Text, nil
		case "error":
			return "", fmt.Errorf("assemblyai: transcription failed: %s", cur.Error)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

// do performs one JSON request against the API.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
