// Package fetch is the engine's boundary to the page-collection layer. The
// engine sees exactly two outcomes: a payload (possibly empty) or a
// transport failure. Retry and backoff live on the other side of this
// interface.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fencetrack/fencetrack/internal/domain"
)

// Fetcher delivers one raw payload per event. A nil error with an empty
// payload means the source page had nothing; an error wraps
// domain.ErrTransportFailure and produces a gap without a merge attempt.
type Fetcher interface {
	FetchEventFragment(ctx context.Context, compKey, subEventKey string) (*domain.RawFragment, error)
}

// HTTPFetcher pulls fragments from the collector service's JSON endpoint.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

func NewHTTPFetcher(baseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *HTTPFetcher) FetchEventFragment(ctx context.Context, compKey, subEventKey string) (*domain.RawFragment, error) {
	endpoint := fmt.Sprintf("%s/results/%s/%s", f.baseURL, url.PathEscape(compKey), url.PathEscape(subEventKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// The source has no page for this sub-event; an empty payload, not
		// a failure.
		return &domain.RawFragment{CompKey: compKey, SubEventKey: subEventKey}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s: status %d", domain.ErrTransportFailure, endpoint, resp.StatusCode)
	}

	var raw domain.RawFragment
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", domain.ErrTransportFailure, endpoint, err)
	}
	if raw.CompKey == "" {
		raw.CompKey = compKey
	}
	if raw.SubEventKey == "" {
		raw.SubEventKey = subEventKey
	}
	return &raw, nil
}
