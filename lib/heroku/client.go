// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package heroku

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bureau-foundation/dynofleet/lib/fleet"
	"github.com/bureau-foundation/dynofleet/lib/netutil"
	"github.com/bureau-foundation/dynofleet/lib/secret"
)

// DefaultAPIURL is the public Platform API endpoint.
const DefaultAPIURL = "https://api.heroku.com"

const (
	acceptHeader = "application/vnd.heroku+json; version=3"

	// firstPageRange asks for the largest page the API allows.
	firstPageRange = "id ..; max=1000"

	// maxPages bounds pagination against a server that never stops
	// returning 206.
	maxPages = 100

	defaultHTTPTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// App is the application name or ID. Required.
	App string

	// Token is the API token. Required. The Client reads it on every
	// request and never closes it.
	Token *secret.Buffer

	// APIURL defaults to DefaultAPIURL.
	APIURL string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Client is a Platform API client scoped to one application.
type Client struct {
	app        string
	token      *secret.Buffer
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ fleet.RemoteClient = (*Client)(nil)

// New returns a Client for config.App.
func New(config Config) (*Client, error) {
	if config.App == "" {
		return nil, errors.New("heroku: App is required")
	}
	if config.Token == nil {
		return nil, errors.New("heroku: Token is required")
	}

	baseURL := config.APIURL
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("heroku: invalid API URL %q", baseURL)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		app:        config.App,
		token:      config.Token,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger.With("app", config.App),
	}, nil
}

// dyno is the Platform API's dyno resource, reduced to the fields the
// fleet uses.
type dyno struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Command   string    `json:"command"`
	Size      string    `json:"size"`
	State     string    `json:"state"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

func (d dyno) handle() fleet.ProcessHandle {
	return fleet.ProcessHandle{
		ID:        d.ID,
		Name:      d.Name,
		Command:   d.Command,
		Size:      d.Size,
		State:     d.State,
		CreatedAt: d.CreatedAt,
	}
}

type createRequest struct {
	Command string `json:"command"`
	Size    string `json:"size,omitempty"`
	Type    string `json:"type"`
	Attach  bool   `json:"attach"`
}

// Create starts a detached run dyno.
func (c *Client) Create(ctx context.Context, spec fleet.CreateSpec) (fleet.ProcessHandle, error) {
	body := createRequest{
		Command: spec.Command,
		Size:    spec.Size,
		Type:    "run",
		Attach:  false,
	}

	response, err := c.do(ctx, http.MethodPost, c.dynosPath(), body, nil)
	if err != nil {
		return fleet.ProcessHandle{}, err
	}

	var created dyno
	if err := json.Unmarshal(response.body, &created); err != nil {
		return fleet.ProcessHandle{}, fmt.Errorf("heroku: decoding created dyno: %w", err)
	}
	if created.ID == "" {
		return fleet.ProcessHandle{}, errors.New("heroku: created dyno has no id")
	}
	c.logger.Debug("dyno created", "dyno_id", created.ID, "name", created.Name)
	return created.handle(), nil
}

// Terminate deletes the dyno with id.
func (c *Client) Terminate(ctx context.Context, id string) error {
	if id == "" {
		return errors.New("heroku: empty dyno id")
	}
	_, err := c.do(ctx, http.MethodDelete, c.dynosPath()+"/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	c.logger.Debug("dyno terminated", "dyno_id", id)
	return nil
}

// List returns every dyno of the application in the platform's order,
// across all pages.
func (c *Client) List(ctx context.Context) ([]fleet.ProcessHandle, error) {
	var handles []fleet.ProcessHandle
	pageRange := firstPageRange

	for page := 0; ; page++ {
		if page == maxPages {
			return nil, fmt.Errorf("heroku: dyno listing exceeded %d pages", maxPages)
		}

		headers := http.Header{"Range": []string{pageRange}}
		response, err := c.do(ctx, http.MethodGet, c.dynosPath(), nil, headers)
		if err != nil {
			return nil, err
		}

		var dynos []dyno
		if err := json.Unmarshal(response.body, &dynos); err != nil {
			return nil, fmt.Errorf("heroku: decoding dyno list: %w", err)
		}
		for _, d := range dynos {
			handles = append(handles, d.handle())
		}

		nextRange := response.header.Get("Next-Range")
		if response.status != http.StatusPartialContent || nextRange == "" {
			return handles, nil
		}
		pageRange = nextRange
	}
}

func (c *Client) dynosPath() string {
	return "/apps/" + url.PathEscape(c.app) + "/dynos"
}

type apiResponse struct {
	status int
	header http.Header
	body   []byte
}

// do performs one API request. requestBody, if non-nil, is sent as
// JSON. A non-2xx status returns *APIError.
func (c *Client) do(ctx context.Context, method, path string, requestBody any, headers http.Header) (*apiResponse, error) {
	// The token may already be released once the caller's context is
	// done.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("heroku: %s %s: %w", method, path, err)
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("heroku: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("heroku: creating request: %w", err)
	}
	for key, values := range headers {
		for _, value := range values {
			request.Header.Add(key, value)
		}
	}
	request.Header.Set("Accept", acceptHeader)
	request.Header.Set("Authorization", "Bearer "+c.token.String())
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("heroku: %s %s: %w", method, path, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("heroku: reading %s %s response: %w", method, path, err)
	}

	c.logger.Debug("platform API request",
		"method", method,
		"path", path,
		"status", response.StatusCode,
		"request_id", response.Header.Get("Request-Id"),
		"ratelimit_remaining", response.Header.Get("RateLimit-Remaining"),
		"duration", time.Since(started),
	)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		apiErr := &APIError{StatusCode: response.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.ID = ""
			apiErr.Message = netutil.ErrorBody(body)
		}
		return nil, apiErr
	}

	return &apiResponse{
		status: response.StatusCode,
		header: response.Header,
		body:   body,
	}, nil
}
