package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const DefaultBraveURL = "https://api.search.brave.com/res/v1/web/search"

type BraveConfig struct {
	APIKey     string
	BaseURL    string
	Count      int
	MaxRetries int
	RetryWait  time.Duration
	Timeout    time.Duration
}

type BraveClient struct {
	apiKey     string
	baseURL    string
	count      int
	maxRetries int
	retryWait  time.Duration
	httpClient *http.Client
}

func NewBraveClient(cfg BraveConfig) *BraveClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBraveURL
	}
	if cfg.Count <= 0 {
		cfg.Count = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &BraveClient{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.BaseURL,
		count:      cfg.Count,
		maxRetries: cfg.MaxRetries,
		retryWait:  cfg.RetryWait,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *BraveClient) Name() string {
	return "Brave"
}

func (c *BraveClient) Search(ctx context.Context, organization string) ([]Result, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, &SearchError{Organization: organization, Err: fmt.Errorf("invalid base URL: %w", err)}
	}

	query := BuildQuery(organization)
	q := u.Query()
	q.Set("q", query)
	q.Set("count", strconv.Itoa(c.count))
	u.RawQuery = q.Encode()

	slog.Debug("brave request", "organization", organization, "query", query, "count", c.count)

	var results []Result
	attempt := 0
	operation := func() error {
		status, body, err := c.do(ctx, u.String())
		attempt++
		if err != nil {
			slog.Error("brave request failed", "organization", organization, "error", err)
			return backoff.Permanent(&SearchError{Organization: organization, Err: err})
		}

		slog.Debug("brave response", "organization", organization, "status", status, "attempt", attempt, "body", string(body))

		if status == http.StatusTooManyRequests {
			return &SearchError{Organization: organization, StatusCode: status, Err: ErrRateLimited}
		}
		if status != http.StatusOK {
			return backoff.Permanent(&SearchError{
				Organization: organization,
				StatusCode:   status,
				Err:          fmt.Errorf("unexpected response: %s", truncate(string(body), 200)),
			})
		}

		var raw braveResponse
		if err := json.Unmarshal(body, &raw); err != nil {
			return backoff.Permanent(&SearchError{Organization: organization, StatusCode: status, Err: fmt.Errorf("brave decode: %w", err)})
		}
		results = raw.results(c.count)
		return nil
	}

	policy := backoff.WithContext(c.retryPolicy(), ctx)
	notify := func(err error, wait time.Duration) {
		slog.Warn("brave rate limit hit, waiting before retry", "organization", organization, "wait", wait, "attempt", attempt)
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		var searchErr *SearchError
		if errors.As(err, &searchErr) {
			return nil, searchErr
		}
		return nil, &SearchError{Organization: organization, Err: err}
	}
	return results, nil
}

// retryPolicy waits a constant interval between attempts; only rate-limit
// responses are retried.
func (c *BraveClient) retryPolicy() backoff.BackOff {
	maxRetries := c.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryWait), uint64(maxRetries))
}

func (c *BraveClient) do(ctx context.Context, endpoint string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("brave request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("brave fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("brave read: %w", err)
	}
	return resp.StatusCode, body, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

type braveResponse struct {
	Web struct {
		Results []braveResult `json:"results"`
	} `json:"web"`
}

type braveResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (r braveResponse) results(limit int) []Result {
	items := r.Web.Results
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	results := make([]Result, 0, len(items))
	for _, item := range items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.URL,
			Snippet: item.Description,
		})
	}
	return results
}
