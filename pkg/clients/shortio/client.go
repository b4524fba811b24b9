package shortio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://api.short.io"

// Client defines the interface for interacting with Short.io API
type Client interface {
	CreateShortLink(ctx context.Context, originalURL string) (string, error)
}

type clientImpl struct {
	apiKey     string
	domain     string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Short.io client
func NewClient(apiKey, domain string) Client {
	return NewClientWithBaseURL(apiKey, domain, defaultBaseURL)
}

// NewClientWithBaseURL creates a client talking to a non-default API host
func NewClientWithBaseURL(apiKey, domain, baseURL string) Client {
	return &clientImpl{
		apiKey:     apiKey,
		domain:     domain,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *clientImpl) CreateShortLink(ctx context.Context, originalURL string) (string, error) {
	payload := map[string]interface{}{
		"originalURL": originalURL,
		"domain":      c.domain,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error creating payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/links", bytes.NewBuffer(jsonPayload))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Authorization", c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error creating short link: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("error from Short.io API: %s", string(body))
	}

	var response struct {
		ShortURL string `json:"shortURL"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if response.ShortURL == "" {
		return "", fmt.Errorf("error from Short.io API: empty shortURL")
	}

	log.WithField("short_url", response.ShortURL).Debug("Created short link")
	return response.ShortURL, nil
}
