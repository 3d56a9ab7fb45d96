// Package source reads raw syscall table documents from remote URLs or local files.
package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"
)

//go:generate mockgen -source=fetcher.go -destination=../mocks/source/mock_fetcher.go -package=mock_source

// Fetcher returns the raw bytes of the document at uri.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

type Config struct {
	RetryAttempts uint
	Timeout       time.Duration
}

// URIFetcher fetches http(s) URIs with retries and reads everything else from disk.
type URIFetcher struct {
	httpClient    *resty.Client
	retryAttempts uint
}

var _ Fetcher = (*URIFetcher)(nil)

func New(config Config) *URIFetcher {
	client := resty.New()
	if config.Timeout > 0 {
		client.SetTimeout(config.Timeout)
	}
	return &URIFetcher{
		httpClient:    client,
		retryAttempts: config.RetryAttempts,
	}
}

func (f *URIFetcher) Close() error {
	return f.httpClient.Close()
}

func (f *URIFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return f.fetchHTTP(ctx, uri)
		case "file":
			return readFile(u.Path)
		}
	}
	return readFile(uri)
}

// statusError is returned for a non-200 response.
type statusError struct {
	url        string
	statusCode int
	status     string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("failed to get %q: %s", e.url, e.status)
}

func (e *statusError) retryable() bool {
	return e.statusCode == http.StatusTooManyRequests || e.statusCode >= http.StatusInternalServerError
}

func (f *URIFetcher) fetchHTTP(ctx context.Context, uri string) ([]byte, error) {
	var body []byte
	if err := retry.Do(
		func() error {
			res, err := f.httpClient.R().
				SetContext(ctx).
				Get(uri)
			if err != nil {
				if ctx.Err() != nil {
					return retry.Unrecoverable(err)
				}
				return fmt.Errorf("client.R.Get(%s) > %w", uri, err)
			}
			if res.StatusCode() != http.StatusOK {
				statusErr := &statusError{url: uri, statusCode: res.StatusCode(), status: res.Status()}
				if !statusErr.retryable() {
					return retry.Unrecoverable(statusErr)
				}
				return statusErr
			}
			body = []byte(res.String())
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(f.retryAttempts+1),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Default().Info("retrying fetch",
				slog.String("uri", uri),
				slog.Uint64("attempt", uint64(n+1)),
				slog.Any("error", err),
			)
		}),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return nil, err
	}
	return body, nil
}

func readFile(path string) ([]byte, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("source document %s does not exist: %w", path, err)
		}
		return nil, fmt.Errorf("os.ReadFile(%s) > %w", path, err)
	}
	return contents, nil
}
