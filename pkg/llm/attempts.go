package llm

import (
	"log/slog"
	"net/http"
	"time"
)

// logAttempt sends one HTTP attempt and writes it to the debug log. The SDKs
// call their middleware once per attempt, so retries are logged too.
func logAttempt(provider string, req *http.Request, send func(*http.Request) (*http.Response, error)) (*http.Response, error) {
	start := time.Now()
	res, err := send(req)

	attrs := []any{
		"provider", provider,
		"method", req.Method,
		"path", req.URL.Path,
		"retry", req.Header.Get("X-Stainless-Retry-Count"),
		"elapsed", time.Since(start),
	}
	if err != nil {
		slog.Debug("llm api attempt failed", append(attrs, "error", err)...)
		return res, err
	}
	slog.Debug("llm api attempt", append(attrs, "status", res.StatusCode)...)
	return res, nil
}
