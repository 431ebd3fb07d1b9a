// Package actuation sends the signal change request to the traffic system.
package actuation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"signalguard/internal/dto"
	"signalguard/internal/model"
)

// DefaultTimeout bounds a single request when none is configured.
const DefaultTimeout = 2 * time.Second

// Client posts {"signal": "..."} to the endpoint. Each call is a single
// attempt; there is no retry.
type Client struct {
	endpoint string
	signal   string
	http     *http.Client
}

// NewClient creates a client whose requests are bounded by timeout.
func NewClient(endpoint, signal string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: endpoint,
		signal:   signal,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: timeout,
				}).DialContext,
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Send performs one POST. Only HTTP 200 counts as success; any other status
// or a transport error yields a failed result. Send never panics and never
// returns an error value: the outcome is the result.
func (c *Client) Send(ctx context.Context) model.ChannelResult {
	body, err := json.Marshal(dto.SignalRequest{Signal: c.signal})
	if err != nil {
		return model.Failed(model.ChannelActuation, fmt.Sprintf("encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return model.Failed(model.ChannelActuation, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		res := model.Failed(model.ChannelActuation, fmt.Sprintf("transport error: %v", err))
		res.Err = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode != http.StatusOK {
		return model.Failed(model.ChannelActuation, fmt.Sprintf("endpoint returned status %d", resp.StatusCode))
	}
	return model.Succeeded(model.ChannelActuation, fmt.Sprintf("signal %q accepted", c.signal))
}
