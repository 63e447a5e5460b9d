// Package helpdesk implements the authenticated REST client for the upstream
// helpdesk API: single calls, cursor pagination and rate-limit backoff.
package helpdesk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"helpdesk-insights/internal/common/config"
	apierrors "helpdesk-insights/internal/common/errors"
	"helpdesk-insights/internal/common/logger"
)

// Payload is a decoded JSON object from the helpdesk API. The engine treats
// it as opaque; field extraction happens in the compressor's formatters.
type Payload = map[string]interface{}

// Client issues authenticated requests against the helpdesk API. Credentials
// and base URL are fixed at construction and shared read-only across requests.
type Client struct {
	baseURL       string
	email         string
	apiToken      string
	pageDelay     time.Duration
	maxPages      int
	retryAfterCap time.Duration
	httpClient    *http.Client
	logger        logger.Logger
}

func NewClient(cfg config.HelpdeskConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		email:         cfg.Email,
		apiToken:      cfg.APIToken,
		pageDelay:     time.Duration(cfg.PageDelay) * time.Millisecond,
		maxPages:      cfg.MaxPages,
		retryAfterCap: time.Duration(cfg.RetryAfterCap) * time.Second,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Millisecond,
		},
		logger: log.With(map[string]interface{}{
			"component": "helpdesk-client",
		}),
	}
}

// Get fetches one resource page. A 429 is retried once after the server's
// Retry-After (bounded by retry_after_cap); every other failure is returned
// as a StandardError carrying the HTTP status where one was received.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (Payload, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	return c.getURL(ctx, reqURL, true)
}

func (c *Client) getURL(ctx context.Context, reqURL string, allowRetry bool) (Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apierrors.NewAPIRequestError(err.Error())
	}

	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.email+"/token", c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.NewAPIRequestError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests && allowRetry {
		wait := c.retryAfterDelay(resp.Header.Get("Retry-After"))
		io.Copy(io.Discard, resp.Body)
		c.logger.Warn("rate limited, backing off", map[string]interface{}{
			"url":  reqURL,
			"wait": wait.String(),
		})
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, apierrors.NewAPIRequestError(ctx.Err().Error())
		}
		return c.getURL(ctx, reqURL, false)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, apierrors.NewAPIStatusError(resp.StatusCode, string(body))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apierrors.NewAPIDecodeError(err.Error())
	}

	return payload, nil
}

// GetPages fetches up to max_pages pages of a list resource, following the
// response's next_page cursor and concatenating the arrays under itemsKey.
// The merged payload keeps the final page's scalar fields.
func (c *Client) GetPages(ctx context.Context, path string, params url.Values, itemsKey string) (Payload, error) {
	reqURL := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var merged Payload
	var items []interface{}

	for page := 0; page < c.maxPages && reqURL != ""; page++ {
		if page > 0 {
			// Small pause between pages keeps us under the upstream rate limit.
			select {
			case <-time.After(c.pageDelay):
			case <-ctx.Done():
				return nil, apierrors.NewAPIRequestError(ctx.Err().Error())
			}
		}

		payload, err := c.getURL(ctx, reqURL, true)
		if err != nil {
			if merged != nil {
				// Later pages failing should not discard what we already have.
				c.logger.Warn("pagination aborted, returning partial result", map[string]interface{}{
					"path": path,
					"page": page,
					"err":  err.Error(),
				})
				break
			}
			return nil, err
		}

		merged = payload
		if pageItems, ok := payload[itemsKey].([]interface{}); ok {
			items = append(items, pageItems...)
		}

		reqURL = nextPageURL(payload)
	}

	if merged == nil {
		return nil, apierrors.NewAPIRequestError(fmt.Sprintf("no pages fetched for %s", path))
	}

	merged[itemsKey] = items
	merged["fetched_count"] = len(items)
	delete(merged, "next_page")
	return merged, nil
}

func nextPageURL(payload Payload) string {
	next, ok := payload["next_page"].(string)
	if !ok {
		return ""
	}
	if _, err := url.Parse(next); err != nil {
		return ""
	}
	return next
}

func (c *Client) retryAfterDelay(header string) time.Duration {
	wait := 2 * time.Second
	if header != "" {
		if secs, err := strconv.Atoi(header); err == nil && secs > 0 {
			wait = time.Duration(secs) * time.Second
		}
	}
	if wait > c.retryAfterCap {
		wait = c.retryAfterCap
	}
	return wait
}
