// Package asana implements a client for the Asana REST API (v1.0).
//
// The client fetches the tasks of a project together with their direct
// dependency links, following continuation cursors until every page is
// consumed. Responses are validated at this boundary: loosely-typed JSON
// maps to explicit record shapes, and missing required fields fail fast
// with a MALFORMED_DATA error instead of leaking deeper into the graph
// builder.
//
// The credential is an explicit constructor argument; the package never
// reads the environment.
package asana

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/asanagraph/asana-deps-graph/pkg/cache"
	"github.com/asanagraph/asana-deps-graph/pkg/errors"
	"github.com/asanagraph/asana-deps-graph/pkg/httputil"
)

const (
	// DefaultBaseURL is the public Asana API endpoint.
	DefaultBaseURL = "https://app.asana.com/api/1.0"

	// defaultPageSize is the page size requested from list endpoints.
	defaultPageSize = 100

	// httpTimeout bounds individual requests at the transport level.
	httpTimeout = 30 * time.Second
)

// taskOptFields selects the task fields needed to build the dependency graph.
const taskOptFields = "name,completed,resource_subtype,dependencies.gid"

// Client provides access to the Asana API.
// It handles authentication, pagination, response caching, and retries of
// transient transport failures. Requests are issued one at a time; each
// page fetch blocks until it completes before the next is issued.
type Client struct {
	http     *http.Client
	cache    cache.Cache
	baseURL  string
	token    string
	pageSize int
	cacheTTL time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint. Used by tests and proxies.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache sets the response cache. Defaults to a null cache.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithPageSize overrides the page size for list endpoints.
func WithPageSize(n int) Option {
	return func(c *Client) { c.pageSize = n }
}

// NewClient creates an Asana API client authenticated with the given
// Personal Access Token. The token is passed explicitly; resolving it from
// config or environment is the caller's concern.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: httpTimeout},
		cache:    cache.NewNullCache(),
		baseURL:  DefaultBaseURL,
		token:    token,
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// =============================================================================
// Operations
// =============================================================================

// ProjectTasks returns every task in the project, with dependency links,
// following continuation cursors until the listing is exhausted.
func (c *Client) ProjectTasks(ctx context.Context, projectGID string) ([]Task, error) {
	if projectGID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project id must not be empty")
	}

	query := url.Values{"opt_fields": {taskOptFields}}
	var tasks []Task

	err := c.getPaginated(ctx, "/projects/"+projectGID+"/tasks", query, func(data json.RawMessage) error {
		var page []taskWire
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedData, err, "decode task page")
		}
		for _, w := range page {
			t, err := w.toTask()
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Me returns the user the token authenticates as.
// Useful for verifying a credential without touching any project.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var env dataResponse
	if err := c.getJSON(ctx, c.baseURL+"/users/me", &env); err != nil {
		return nil, err
	}

	var user User
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedData, err, "decode user")
	}
	if user.GID == "" {
		return nil, errors.New(errors.ErrCodeMalformedData, "user response missing gid")
	}
	return &user, nil
}

// Workspaces lists the workspaces visible to the token.
func (c *Client) Workspaces(ctx context.Context) ([]Workspace, error) {
	var workspaces []Workspace
	err := c.getPaginated(ctx, "/workspaces", nil, func(data json.RawMessage) error {
		var page []Workspace
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedData, err, "decode workspace page")
		}
		workspaces = append(workspaces, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Projects lists the projects in a workspace.
func (c *Client) Projects(ctx context.Context, workspaceGID string) ([]Project, error) {
	if workspaceGID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "workspace id must not be empty")
	}

	query := url.Values{"workspace": {workspaceGID}}
	var projects []Project
	err := c.getPaginated(ctx, "/projects", query, func(data json.RawMessage) error {
		var page []Project
		if err := json.Unmarshal(data, &page); err != nil {
			return errors.Wrap(errors.ErrCodeMalformedData, err, "decode project page")
		}
		projects = append(projects, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// =============================================================================
// Transport
// =============================================================================

// getPaginated fetches a list endpoint page by page, invoking consume for
// the raw data array of each page until no continuation cursor remains.
func (c *Client) getPaginated(ctx context.Context, path string, query url.Values, consume func(json.RawMessage) error) error {
	offset := ""
	for {
		q := url.Values{"limit": {strconv.Itoa(c.pageSize)}}
		for k, vs := range query {
			q[k] = vs
		}
		if offset != "" {
			q.Set("offset", offset)
		}

		var page pageResponse
		if err := c.getJSON(ctx, c.baseURL+path+"?"+q.Encode(), &page); err != nil {
			return err
		}
		if page.Data == nil {
			return errors.New(errors.ErrCodeMalformedData, "response for %s missing data field", path)
		}
		if err := consume(page.Data); err != nil {
			return err
		}

		if page.NextPage == nil || page.NextPage.Offset == "" {
			return nil
		}
		offset = page.NextPage.Offset
	}
}

// getJSON performs a GET and decodes the response body into v, consulting
// the response cache first. Transient failures are retried with backoff;
// everything else surfaces unretried.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	if c.token == "" {
		return errors.New(errors.ErrCodeMissingToken, "no access token configured (set ASANA_ACCESS_TOKEN or the config file)")
	}

	if data, ok, _ := c.cache.Get(ctx, url); ok {
		if err := json.Unmarshal(data, v); err == nil {
			return nil
		}
		// Corrupt cache entry: drop it and refetch.
		_ = c.cache.Delete(ctx, url)
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		body, err = c.doRequest(ctx, url)
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(errors.ErrCodeMalformedData, err, "decode response from %s", url)
	}
	_ = c.cache.Set(ctx, url, body, c.cacheTTL)
	return nil
}

func (c *Client) doRequest(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "request %s", url))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, httputil.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "read response body"))
	}
	return body, nil
}

// checkStatus maps HTTP status codes to the error taxonomy. Rate limits
// and server errors are marked retryable for the transport-level backoff;
// if retries exhaust they surface with their original code.
func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusUnauthorized:
		return errors.New(errors.ErrCodeUnauthorized, "invalid or expired access token")
	case code == http.StatusForbidden:
		return errors.New(errors.ErrCodeForbidden, "token lacks access to this resource")
	case code == http.StatusNotFound:
		return errors.New(errors.ErrCodeNotFound, "resource not found")
	case code == http.StatusTooManyRequests:
		return httputil.Retryable(errors.New(errors.ErrCodeRateLimited, "rate limited by the Asana API"))
	case code >= 500:
		return httputil.Retryable(errors.New(errors.ErrCodeNetwork, "server error: status %d", code))
	default:
		return errors.New(errors.ErrCodeNetwork, "unexpected status %d", code)
	}
}
