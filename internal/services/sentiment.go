package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/complaint-intake/internal/models"
)

// SentimentClient calls a key-authenticated sentiment analysis API.
type SentimentClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

type sentimentResponse struct {
	Sentiment string `json:"sentiment"`
}

func NewSentimentClient(apiURL, apiKey string, timeout time.Duration) *SentimentClient {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &SentimentClient{
		apiURL:     apiURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *SentimentClient) IsConfigured() bool { return c.apiURL != "" && c.apiKey != "" }

// ClassifySentiment never fails: any problem with the remote service yields
// SentimentUnknown so intake can proceed.
func (c *SentimentClient) ClassifySentiment(ctx context.Context, text string) models.Sentiment {
	if !c.IsConfigured() {
		return models.SentimentUnknown
	}

	sentiment, err := c.analyze(ctx, text)
	if err != nil {
		metrics.ClassifierFailures.WithLabelValues("sentiment").Inc()
		slog.Warn("sentiment analysis failed, using unknown", "error", err)
		return models.SentimentUnknown
	}
	return sentiment
}

func (c *SentimentClient) analyze(ctx context.Context, text string) (models.Sentiment, error) {
	form := "body=" + url.QueryEscape(text)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: sentiment API returned %d: %s", ErrTransport, resp.StatusCode, string(body))
	}

	var parsed sentimentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: invalid sentiment response: %w", ErrTransport, err)
	}

	sentiment := models.Sentiment(strings.ToLower(strings.TrimSpace(parsed.Sentiment)))
	if !sentiment.Valid() {
		return models.SentimentUnknown, nil
	}
	return sentiment, nil
}
