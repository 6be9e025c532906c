// Package probe provides the public IP geolocation lookup.
package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultEndpoint is a free geolocation service returning JSON with
// ip, latitude and longitude fields.
const DefaultEndpoint = "https://ipapi.co/json/"

// DefaultTimeout bounds a single lookup request.
const DefaultTimeout = 10 * time.Second

// IPInfo is the decoded response of a geolocation lookup.
type IPInfo struct {
	IP        string  `json:"ip"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Client performs public IP geolocation lookups against a single endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a lookup client. Empty endpoint or zero timeout fall
// back to the defaults.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Lookup fetches the current public IP and its coordinates. Transport
// errors, non-2xx statuses and malformed bodies are all returned as plain
// errors; the caller records them uniformly as a failed reading.
func (c *Client) Lookup(ctx context.Context) (*IPInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ipwatch/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var info IPInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !isValidIP(info.IP) {
		return nil, fmt.Errorf("invalid IP: %q", info.IP)
	}

	return &info, nil
}

func isValidIP(ip string) bool {
	// Basic validation: contains dots (IPv4) or colons (IPv6)
	if len(ip) < 7 || len(ip) > 45 {
		return false
	}
	return strings.Contains(ip, ".") || strings.Contains(ip, ":")
}
