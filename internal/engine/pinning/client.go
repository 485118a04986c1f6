package pinning

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hlee18lee46/clearwhistlenew/internal/platform/config"
)

const (
	defaultBaseURL = "https://api.pinata.cloud"
	gatewayBaseURL = "https://gateway.pinata.cloud/ipfs"
)

// Client pins JSON documents to IPFS through Pinata. It is the only component
// that sees the API credentials. No retries: a failed pin surfaces to the
// caller, which must not have written any pointer record yet.
type Client struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
}

func NewClient(cfg config.PinataConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL:   baseURL,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type pinRequest struct {
	PinataContent interface{} `json:"pinataContent"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PinJSON uploads content via pinJSONToIPFS and returns the resulting content
// hash. Transport errors, non-2xx responses and malformed bodies are all
// reported as errors; the content is pinned only when a hash comes back.
func (c *Client) PinJSON(ctx context.Context, content interface{}) (string, error) {
	body, err := json.Marshal(pinRequest{PinataContent: content})
	if err != nil {
		return "", fmt.Errorf("encode pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("pinata_api_key", c.apiKey)
	req.Header.Set("pinata_secret_api_key", c.apiSecret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Body drained for the error message only; Pinata error bodies are small.
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pin request returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("decode pin response: %w", err)
	}

	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pin response missing hash")
	}

	return pinned.IpfsHash, nil
}

// GatewayURL returns the public gateway address for a pinned hash.
func GatewayURL(hash string) string {
	return gatewayBaseURL + "/" + hash
}
