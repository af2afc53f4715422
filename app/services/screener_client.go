// Package services contains clients for external collaborators of the core flows
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ScreenResult is the verdict returned by the malicious-URL classifier
type ScreenResult struct {
	IsMalicious bool    `json:"is_malicious"`
	Confidence  float64 `json:"confidence"`
}

// SafetyScreener is an advisory oracle consulted before accepting a new link.
// Callers must treat any error as "no opinion" and proceed: the screener is
// fail-open by design and must never block a shorten operation.
type SafetyScreener interface {
	Classify(ctx context.Context, url string) (*ScreenResult, error)
	IsHealthy(ctx context.Context) bool
}

// ScreenerClient implements SafetyScreener against the ML classifier service
type ScreenerClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewScreenerClient(baseURL string, timeout time.Duration) *ScreenerClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ScreenerClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type classifyRequest struct {
	URL string `json:"url"`
}

type classifyResponse struct {
	IsMalicious  bool    `json:"is_malicious"`
	RFConfidence float64 `json:"rf_confidence"`
}

func (c *ScreenerClient) Classify(ctx context.Context, url string) (*ScreenResult, error) {
	payload, err := json.Marshal(classifyRequest{URL: url})
	if err != nil {
		return nil, fmt.Errorf("screener: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/ml/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("screener: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("screener: classify call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("screener: unexpected status %d", resp.StatusCode)
	}

	var cr classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("screener: decode response: %w", err)
	}

	return &ScreenResult{IsMalicious: cr.IsMalicious, Confidence: cr.RFConfidence}, nil
}

// IsHealthy probes the classifier's health endpoint with a short deadline
func (c *ScreenerClient) IsHealthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// MockScreener implements SafetyScreener for testing and for deployments
// without a classifier. The zero value approves everything.
type MockScreener struct {
	Result   *ScreenResult
	Err      error
	Healthy  bool
	SeenURLs []string
}

// NewMockScreener creates a mock screener that approves every URL
func NewMockScreener() *MockScreener {
	return &MockScreener{Healthy: true}
}

func (m *MockScreener) Classify(ctx context.Context, url string) (*ScreenResult, error) {
	m.SeenURLs = append(m.SeenURLs, url)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &ScreenResult{IsMalicious: false, Confidence: 0}, nil
}

func (m *MockScreener) IsHealthy(ctx context.Context) bool {
	return m.Healthy
}
