// Package donortrack provides a client for the DonorTrack donation-tracking
// API. It implements the REST surface the mobile and CLI front-ends consume:
// authentication, donator and donation management, aggregate summaries, and
// PDF report downloads.
package donortrack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Client defines the interface for interacting with the DonorTrack API.
// It provides methods for authentication, donator and donation management,
// aggregate summaries, and report downloads.
type Client interface {
	// Login authenticates with email and password and returns a session
	// containing a bearer token and the authenticated user record.
	Login(context.Context, string, string) (Session, error)

	// ListDonators retrieves a paginated list of donators with their nested
	// donations. The offset and limit parameters control pagination
	// (0 values disable pagination).
	ListDonators(context.Context, int, int) ([]Donator, error)

	// FindDonator retrieves a specific donator by ID.
	FindDonator(context.Context, int) (Donator, error)

	// SaveDonator creates or updates a donator record. If the donator has no
	// ID, it will be created; a new donator may carry an initial donation.
	SaveDonator(context.Context, Donator) (Donator, error)

	// SaveDonation creates or updates a donation for the given donator.
	// If the donation has no ID, it will be created.
	SaveDonation(context.Context, int, Donation) (Donation, error)

	// Summary retrieves the aggregate donation totals for the dashboard.
	Summary(context.Context) (Summary, error)

	// DownloadReport streams the generated donations report (a PDF document)
	// into w.
	DownloadReport(context.Context, io.Writer) error
}

type clientOption struct {
	token      string
	baseURL    string
	doRetry    bool
	httpClient *http.Client
	logger     zerolog.Logger
}

type donortrackClient struct {
	opts   clientOption
	client *http.Client
}

// ClientOption defines a function type for configuring client options.
type ClientOption func(*clientOption)

// APIResponse represents the standard response envelope from the DonorTrack
// API. It contains the response data and metadata including error information
// when applicable.
type APIResponse struct {
	Data      json.RawMessage `json:"data"`
	Message   string          `json:"message"`
	Code      string          `json:"code"`
	RequestID string          `json:"request_id"`
}

// WithToken returns a ClientOption that sets the bearer token used to
// authenticate requests. Login does not require a token; everything else does.
func WithToken(token string) ClientOption {
	return func(opt *clientOption) {
		opt.token = token
	}
}

// WithBaseURL returns a ClientOption that sets the base URL for the
// DonorTrack API. If not provided, defaults to "https://api.donortrack.app/v1".
func WithBaseURL(url string) ClientOption {
	return func(opt *clientOption) {
		opt.baseURL = url
	}
}

// WithRetry returns a ClientOption that enables retries (when applicable)
// for the DonorTrack API. If not provided, defaults to false.
func WithRetry() ClientOption {
	return func(opt *clientOption) {
		opt.doRetry = true
	}
}

// WithHTTPClient returns a ClientOption that sets the underlying HTTP client,
// e.g. to control timeouts.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opt *clientOption) {
		opt.httpClient = client
	}
}

// WithLogger returns a ClientOption that sets the logger used for request
// tracing. If not provided, logging is disabled.
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(opt *clientOption) {
		opt.logger = logger
	}
}

// NewClient creates a new DonorTrack API client with the provided options.
// The client uses "https://api.donortrack.app/v1" as the default base URL.
func NewClient(options ...ClientOption) (Client, error) {
	clientOptions := clientOption{
		baseURL: "https://api.donortrack.app/v1",
		logger:  zerolog.Nop(),
	}

	for _, option := range options {
		option(&clientOptions)
	}

	if clientOptions.baseURL == "" {
		return &donortrackClient{}, errors.New("missing base URL!")
	}

	httpClient := clientOptions.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &donortrackClient{
		opts:   clientOptions,
		client: httpClient,
	}, nil
}

type retryable interface {
	CanRetry() bool
}

type retryableError struct {
	Err      error
	canRetry bool
}

func (e retryableError) Error() string {
	return e.Err.Error()
}

func (e retryableError) Unwrap() error {
	return e.Err
}

func (e retryableError) CanRetry() bool {
	return e.canRetry
}

func (c *donortrackClient) makeRequest(ctx context.Context, method, endpoint string, body any) (*APIResponse, error) {
	resp, err := c.doRequest(ctx, method, endpoint, body)

	if c.opts.doRetry && err != nil {
		re, ok := err.(retryable)
		if !ok || !re.CanRetry() {
			return resp, err
		}

		operation := func() (*APIResponse, error) {
			return c.doRequest(ctx, method, endpoint, body)
		}
		resp, err = backoff.Retry(ctx, operation, backoff.WithBackOff(backoff.NewExponentialBackOff()))
	}

	return resp, err
}

func (c *donortrackClient) doRequest(ctx context.Context, method, endpoint string, body any) (*APIResponse, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := c.newRequest(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.opts.logger.Debug().
		Str("method", req.Method).
		Str("uri", req.URL.RequestURI()).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Msg("issuing request")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		rawBody := string(respBody)

		errorReturned := fmt.Errorf("failed to unmarshal response: %w", err)

		if "retry later" == strings.ToLower(strings.TrimSpace(rawBody)) {
			return nil, retryableError{Err: errorReturned, canRetry: true}
		}

		return nil, errorReturned
	}

	if apiResp.Code != "" && apiResp.Message != "" {
		return nil, fmt.Errorf("API error: %s - %s", apiResp.Code, apiResp.Message)
	}

	if resp.StatusCode >= 400 {
		errorReturned := fmt.Errorf("HTTP error: %d (Raw Response: %v)", resp.StatusCode, apiResp)

		switch resp.StatusCode {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return nil, retryableError{Err: errorReturned, canRetry: true}
		}

		return nil, errorReturned
	}

	return &apiResp, nil
}

func (c *donortrackClient) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.opts.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if c.opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	return req, nil
}

func (c *donortrackClient) Login(ctx context.Context, email, password string) (Session, error) {
	if email == "" || password == "" {
		return Session{}, errors.New("missing credentials")
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return Session{}, err
	}

	var session Session
	if err := json.Unmarshal(resp.Data, &session); err != nil {
		return Session{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return session, nil
}

func (c *donortrackClient) ListDonators(ctx context.Context, offset, limit int) ([]Donator, error) {
	params := url.Values{}

	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	endpoint := "/donators"
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	resp, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var donators []Donator
	if err := json.Unmarshal(resp.Data, &donators); err != nil {
		return nil, fmt.Errorf("failed to unmarshal donators: %w", err)
	}

	for i := range donators {
		donators[i].normalize()
	}

	return donators, nil
}

func (c *donortrackClient) FindDonator(ctx context.Context, id int) (Donator, error) {
	endpoint := fmt.Sprintf("/donators/%d", id)

	resp, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Donator{}, err
	}

	var donator Donator
	if err := json.Unmarshal(resp.Data, &donator); err != nil {
		return Donator{}, fmt.Errorf("failed to unmarshal donator: %w", err)
	}

	donator.normalize()

	return donator, nil
}

func (c *donortrackClient) SaveDonator(ctx context.Context, donator Donator) (Donator, error) {
	var endpoint string

	if donator.ID == 0 {
		endpoint = "/donators"
	} else {
		endpoint = fmt.Sprintf("/donators/%d", donator.ID)
	}

	if donator.Name == "" {
		return Donator{}, errors.New("missing donator name")
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, endpoint, donator)
	if err != nil {
		return Donator{}, err
	}

	var savedDonator Donator
	if err := json.Unmarshal(resp.Data, &savedDonator); err != nil {
		return Donator{}, fmt.Errorf("failed to unmarshal saved donator: %w", err)
	}

	savedDonator.normalize()

	return savedDonator, nil
}

func (c *donortrackClient) SaveDonation(ctx context.Context, donatorID int, donation Donation) (Donation, error) {
	var endpoint string

	if donation.ID == 0 {
		if donatorID == 0 {
			return Donation{}, errors.New("missing donator information")
		}
		endpoint = fmt.Sprintf("/donators/%d/donations", donatorID)
	} else {
		endpoint = fmt.Sprintf("/donations/%d", donation.ID)
	}

	resp, err := c.makeRequest(ctx, http.MethodPost, endpoint, donation)
	if err != nil {
		return Donation{}, err
	}

	var savedDonation Donation
	if err := json.Unmarshal(resp.Data, &savedDonation); err != nil {
		return Donation{}, fmt.Errorf("failed to unmarshal saved donation: %w", err)
	}

	return savedDonation, nil
}

func (c *donortrackClient) Summary(ctx context.Context) (Summary, error) {
	resp, err := c.makeRequest(ctx, http.MethodGet, "/summary", nil)
	if err != nil {
		return Summary{}, err
	}

	var summary Summary
	if err := json.Unmarshal(resp.Data, &summary); err != nil {
		return Summary{}, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return summary, nil
}

func (c *donortrackClient) DownloadReport(ctx context.Context, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/reports/donations", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/pdf")

	c.opts.logger.Debug().
		Str("method", req.Method).
		Str("uri", req.URL.RequestURI()).
		Msg("downloading report")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("failed to download report: %w", err)
	}

	return nil
}
