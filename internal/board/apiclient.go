// Package board renders the live material-request dashboard in the
// terminal.
package board

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/domain"
	"github.com/TristoneFM/material-request-mes/internal/mes"
)

// ErrAPIUnavailable indicates the dashboard API could not be reached.
var ErrAPIUnavailable = errors.New("dashboard api unreachable")

// API is the board's view of its backend: the request list plus the two
// per-card lookups.
type API interface {
	MaterialRequests(ctx context.Context) ([]domain.MaterialRequest, error)

	// CustomerPart returns (part, true, nil) when a part exists and
	// ("", false, nil) when the lookup succeeded but found nothing.
	CustomerPart(ctx context.Context, sap string) (string, bool, error)

	// Locations returns the decoded MES snapshot for a material. The
	// snapshot may carry the MES error sentinel; transport failures are
	// returned as errors.
	Locations(ctx context.Context, sap string) (*mes.LocationSnapshot, error)
}

type httpAPI struct {
	base string
	http *http.Client
}

// NewAPI creates an API client for the serve process at base.
func NewAPI(base string) API {
	return &httpAPI{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

func (a *httpAPI) MaterialRequests(ctx context.Context) ([]domain.MaterialRequest, error) {
	data, err := a.get(ctx, "/api/material-requests")
	if err != nil {
		return nil, err
	}

	var requests []domain.MaterialRequest
	if err := json.Unmarshal(data, &requests); err != nil {
		return nil, fmt.Errorf("decoding material requests: %w", err)
	}
	return requests, nil
}

type customerPartResponse struct {
	CustPart *string `json:"custPart"`
}

func (a *httpAPI) CustomerPart(ctx context.Context, sap string) (string, bool, error) {
	data, err := a.get(ctx, "/api/customer-part?sap="+url.QueryEscape(sap))
	if err != nil {
		return "", false, err
	}

	var resp customerPartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", false, fmt.Errorf("decoding customer part: %w", err)
	}
	if resp.CustPart == nil {
		return "", false, nil
	}
	return *resp.CustPart, true, nil
}

func (a *httpAPI) Locations(ctx context.Context, sap string) (*mes.LocationSnapshot, error) {
	body, err := json.Marshal(map[string]string{"sapMaterial": sap})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	data, err := a.do(ctx, http.MethodPost, "/api/ubicaciones", body)
	if err != nil {
		return nil, err
	}

	var snap mes.LocationSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decoding ubicaciones: %w", err)
	}
	return &snap, nil
}

func (a *httpAPI) get(ctx context.Context, path string) ([]byte, error) {
	return a.do(ctx, http.MethodGet, path, nil)
}

func (a *httpAPI) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = strings.NewReader(string(body))
	}

	req, err := http.NewRequestWithContext(ctx, method, a.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.http.Do(req)
	if err != nil {
		var netErr *net.OpError
		if errors.As(err, &netErr) {
			return nil, ErrAPIUnavailable
		}
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("api returned status %d: %s", resp.StatusCode, string(data))
	}
	return data, nil
}
