package db

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

// ESClient wraps HTTP calls to the Elasticsearch REST API. The search surface
// needed here is narrow (ping + similarity search), so a thin client avoids
// pulling in the full official library.
type ESClient struct {
	baseURL    string
	httpClient *http.Client
	username   string
	password   string
}

// ESConfig holds configuration for the Elasticsearch connection
type ESConfig struct {
	Host     string // e.g. "https://localhost:9200"
	Username string
	Password string
	Timeout  time.Duration
}

// ESSearchHit is a single hit returned by a search request
type ESSearchHit struct {
	Score  float64 `json:"_score"`
	Source struct {
		Text     string `json:"text"`
		Metadata struct {
			Source string `json:"source"`
		} `json:"metadata"`
	} `json:"_source"`
}

// ESSearchResponse is the subset of the search response body we consume
type ESSearchResponse struct {
	Hits struct {
		Hits []ESSearchHit `json:"hits"`
	} `json:"hits"`
}

// NewESClient creates a new Elasticsearch client
func NewESClient(config ESConfig) *ESClient {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	baseURL := config.Host
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &ESClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		username: config.Username,
		password: config.Password,
	}
}

// Ping checks if Elasticsearch is reachable
func (c *ESClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create ping request: %w", err)
	}
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("elasticsearch not reachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("elasticsearch ping returned status %d", resp.StatusCode)
	}

	return nil
}

// Search issues a search request against one or more indices
func (c *ESClient) Search(ctx context.Context, indices []string, body map[string]interface{}) (*ESSearchResponse, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("at least one index is required")
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/%s/_search", c.baseURL, strings.Join(indices, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setAuth(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("elasticsearch returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var searchResp ESSearchResponse
	if err := json.Unmarshal(respBody, &searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	return &searchResp, nil
}

// Close releases idle connections held by the client
func (c *ESClient) Close() {
	c.httpClient.CloseIdleConnections()
}

func (c *ESClient) setAuth(req *http.Request) {
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}
