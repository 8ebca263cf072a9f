package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is the warning source consumed by the fetcher service.
type Client interface {
	// Index returns the summaries of all current travel warnings, in the
	// order the provider lists them.
	Index(ctx context.Context) ([]Summary, error)

	// Detail returns the full record for one content ID.
	Detail(ctx context.Context, contentID string) (Detail, error)
}

// HTTPClient talks to the OpenData API over HTTP with exponential-backoff
// retries on transient failures (network errors and 5xx responses).
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient constructs an HTTPClient for the given base URL,
// e.g. "https://www.auswaertiges-amt.de/opendata".
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope is the provider's outer response wrapper. The "response" object
// holds a "contentList" array of content IDs plus one warning object per ID,
// keyed by that ID.
type envelope struct {
	Response map[string]json.RawMessage `json:"response"`
}

// Index fetches and unwraps the warning index.
func (c *HTTPClient) Index(ctx context.Context) ([]Summary, error) {
	env, err := c.get(ctx, c.baseURL+"/travelwarning")
	if err != nil {
		return nil, fmt.Errorf("provider.Index: %w", err)
	}

	rawList, ok := env.Response["contentList"]
	if !ok {
		return nil, fmt.Errorf("provider.Index: %w: no content list", ErrMalformedResponse)
	}

	contentIDs, err := decodeContentList(rawList)
	if err != nil {
		return nil, fmt.Errorf("provider.Index: %w: %v", ErrMalformedResponse, err)
	}

	summaries := make([]Summary, 0, len(contentIDs))
	for _, id := range contentIDs {
		raw, ok := env.Response[id]
		if !ok {
			// The index listed an ID with no matching object — leave the
			// summary empty apart from its ID so the fetcher's per-item
			// validation can reject it without aborting the sync.
			summaries = append(summaries, Summary{ContentID: id})
			continue
		}
		var s Summary
		if err := json.Unmarshal(raw, &s); err != nil {
			summaries = append(summaries, Summary{ContentID: id})
			continue
		}
		s.ContentID = id
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// Detail fetches and unwraps the full record for one content ID.
func (c *HTTPClient) Detail(ctx context.Context, contentID string) (Detail, error) {
	env, err := c.get(ctx, c.baseURL+"/travelwarning/"+contentID)
	if err != nil {
		return Detail{}, fmt.Errorf("provider.Detail(%s): %w", contentID, err)
	}

	raw, ok := env.Response[contentID]
	if !ok {
		return Detail{}, fmt.Errorf("provider.Detail(%s): %w: no record for content id", contentID, ErrMalformedResponse)
	}

	var d Detail
	if err := json.Unmarshal(raw, &d); err != nil {
		return Detail{}, fmt.Errorf("provider.Detail(%s): %w: %v", contentID, ErrMalformedResponse, err)
	}
	d.ContentID = contentID
	return d, nil
}

// get performs a GET with retries and decodes the response envelope.
func (c *HTTPClient) get(ctx context.Context, url string) (envelope, error) {
	var env envelope

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return err // network errors are retryable
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status: %s", resp.Status))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", ErrMalformedResponse, err))
		}
		if env.Response == nil {
			return backoff.Permanent(fmt.Errorf("%w: no response object", ErrMalformedResponse))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxElapsedTime = 2 * time.Minute

	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return envelope{}, err
	}
	return env, nil
}

// decodeContentList accepts both string and numeric content IDs — the
// provider has historically served both forms.
func decodeContentList(raw json.RawMessage) ([]string, error) {
	var entries []json.Number
	if err := json.Unmarshal(raw, &entries); err == nil {
		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.String()
		}
		return ids, nil
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, fmt.Errorf("content list is not an array of ids: %w", err)
	}
	return strs, nil
}
