// Package mes talks to the plant manufacturing-execution system and decodes
// its material-search payloads.
package mes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

var (
	// ErrUnavailable indicates the MES endpoint is unreachable.
	ErrUnavailable = errors.New("mes unreachable")

	// ErrTimeout indicates the MES did not answer within the configured
	// timeout.
	ErrTimeout = errors.New("mes request timed out")
)

// Client provides access to the MES material-search endpoint.
type Client interface {
	// MaterialSearch returns the raw location payload for a SAP material.
	// The payload is relayed untouched; callers that need the structured
	// form decode it into a LocationSnapshot.
	MaterialSearch(ctx context.Context, material string) (json.RawMessage, error)
}

type httpClient struct {
	endpoint string
	plant    string
	timeout  time.Duration
	http     *http.Client
}

// NewClient creates a Client for the MES at endpoint (scheme://host:port),
// scoped to one plant.
func NewClient(endpoint, plant string, timeout time.Duration) Client {
	return &httpClient{
		endpoint: endpoint,
		plant:    plant,
		timeout:  timeout,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// searchRequest is the JSON body sent to POST /MESMaterialSearch.
type searchRequest struct {
	Plant    string `json:"plant"`
	Material string `json:"material"`
}

func (c *httpClient) MaterialSearch(ctx context.Context, material string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(searchRequest{Plant: c.plant, Material: material})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := c.endpoint + "/MESMaterialSearch"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		// Only the deadline maps to ErrTimeout; caller cancellation
		// propagates as-is.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		if isConnectionError(err) {
			return nil, ErrUnavailable
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mes returned status %d: %s", resp.StatusCode, string(data))
	}
	if !json.Valid(data) {
		return nil, &DecodeError{Path: "$", Reason: "response is not valid JSON"}
	}

	return json.RawMessage(data), nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
