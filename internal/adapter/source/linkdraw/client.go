package linkdraw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/mosaic/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	maxRetries     = 3
	baseRetryDelay = 500 * time.Millisecond
)

// Client fetches pages from the link-draw list API
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	retryDelay time.Duration
}

// NewClient creates a new link-draw API client
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:     logger,
		retryDelay: baseRetryDelay,
	}
}

// listPath returns the API path of a feed
func listPath(kind domain.FeedKind) string {
	if kind == domain.FeedKindPhoto {
		return "/link_draw/v2/Photo/list"
	}
	return "/link_draw/v2/Doc/list"
}

// FetchPage implements domain.FeedRepository
func (c *Client) FetchPage(ctx context.Context, q domain.Query, pageNum, pageSize int) (domain.Page, error) {
	if err := q.Validate(); err != nil {
		return domain.Page{}, err
	}

	query := url.Values{}
	query.Set("category", string(q.Category))
	query.Set("type", string(q.ListType))
	query.Set("page_num", strconv.Itoa(pageNum))
	query.Set("page_size", strconv.Itoa(pageSize))

	body, err := c.doRequest(ctx, http.MethodGet, listPath(q.Kind), query)
	if err != nil {
		return domain.Page{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Page{}, fmt.Errorf("failed to decode feed page: %w", err)
	}
	if env.Code != 0 {
		return domain.Page{}, fmt.Errorf("%w: code %d: %s", domain.ErrBadResponse, env.Code, env.errorMessage())
	}

	posts := make([]domain.Post, len(env.Data.Items))
	for i, it := range env.Data.Items {
		posts[i] = mapPost(it)
	}

	return domain.Page{
		Items:      posts,
		TotalCount: env.Data.TotalCount,
		PageNum:    pageNum,
		PageSize:   pageSize,
	}, nil
}

// doRequest performs an HTTP request against the API.
// Includes retry logic with exponential backoff for 5xx server errors.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if query != nil {
		reqURL = reqURL + "?" + query.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		// Wait before retry (exponential backoff)
		if attempt > 0 {
			delay := c.retryDelay * time.Duration(1<<(attempt-1))
			c.logger.Debug("retrying request", "attempt", attempt, "delay", delay, "url", reqURL)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		c.logger.Debug("linkdraw request", "method", method, "url", reqURL, "attempt", attempt)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Error("linkdraw request failed", "error", err)
			return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, err)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		// Retry on 5xx server errors
		if resp.StatusCode >= 500 && resp.StatusCode < 600 {
			lastErr = fmt.Errorf("server error: %d - %s", resp.StatusCode, string(body))
			c.logger.Warn("linkdraw server error, will retry",
				"status", resp.StatusCode,
				"attempt", attempt,
				"maxRetries", maxRetries,
				"path", path,
			)
			continue
		}

		if resp.StatusCode != http.StatusOK {
			c.logger.Error("linkdraw request error", "status", resp.StatusCode, "body", string(body))
			return nil, fmt.Errorf("%w: unexpected status code %d", domain.ErrBadResponse, resp.StatusCode)
		}

		return body, nil
	}

	c.logger.Error("linkdraw request failed after retries", "error", lastErr, "path", path)
	return nil, fmt.Errorf("%w: %v", domain.ErrServerOffline, lastErr)
}
