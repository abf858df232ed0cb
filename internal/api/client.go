package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/subdeck/internal/subscriber"
)

// SubscriberAPI defines the backend operations on subscriber documents.
// This interface is implemented by *Client and can be used for testing.
type SubscriberAPI interface {
	ListSubscribers(ctx context.Context) ([]subscriber.Subscriber, error)
	GetSubscriber(ctx context.Context, imsi string) (subscriber.Subscriber, error)
	CreateSubscriber(ctx context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error)
	UpdateSubscriber(ctx context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error)
	DeleteSubscriber(ctx context.Context, imsi string) error
}

// Ensure Client implements SubscriberAPI at compile time.
var _ SubscriberAPI = (*Client)(nil)

// ErrMissingIMSI is returned before any request is made for a subscriber
// operation that needs an IMSI.
var ErrMissingIMSI = errors.New("imsi required")

// Client talks to the subscriber database HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     string
}

const (
	defaultAPIBind   = "127.0.0.1:3000"
	defaultUserAgent = "subdeck/0.1"
	requestTimeout   = 5 * time.Second

	subscriberPath = "/api/db/Subscriber"
)

// NewClient builds a Client using the provided apiBind host:port value. A
// non-empty token is sent as a bearer token.
func NewClient(apiBind, token string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     strings.TrimSpace(token),
	}, nil
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// ListSubscribers retrieves every subscriber document.
func (c *Client) ListSubscribers(ctx context.Context) ([]subscriber.Subscriber, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []subscriber.Subscriber
	if err := c.do(ctx, http.MethodGet, subscriberPath, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// GetSubscriber retrieves a single subscriber by IMSI.
func (c *Client) GetSubscriber(ctx context.Context, imsi string) (subscriber.Subscriber, error) {
	if c == nil {
		return subscriber.Subscriber{}, fmt.Errorf("client is nil")
	}
	path, err := itemPath(imsi)
	if err != nil {
		return subscriber.Subscriber{}, err
	}
	var payload subscriber.Subscriber
	if err := c.do(ctx, http.MethodGet, path, nil, &payload); err != nil {
		return subscriber.Subscriber{}, err
	}
	return payload, nil
}

// CreateSubscriber stores a new subscriber and returns the saved document.
func (c *Client) CreateSubscriber(ctx context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error) {
	if c == nil {
		return subscriber.Subscriber{}, fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(sub.IMSI) == "" {
		return subscriber.Subscriber{}, ErrMissingIMSI
	}
	var payload subscriber.Subscriber
	if err := c.do(ctx, http.MethodPost, subscriberPath, sub, &payload); err != nil {
		return subscriber.Subscriber{}, err
	}
	if payload.IMSI == "" {
		payload = sub
	}
	return payload, nil
}

// UpdateSubscriber replaces the subscriber document identified by sub.IMSI.
func (c *Client) UpdateSubscriber(ctx context.Context, sub subscriber.Subscriber) (subscriber.Subscriber, error) {
	if c == nil {
		return subscriber.Subscriber{}, fmt.Errorf("client is nil")
	}
	path, err := itemPath(sub.IMSI)
	if err != nil {
		return subscriber.Subscriber{}, err
	}
	var payload subscriber.Subscriber
	if err := c.do(ctx, http.MethodPut, path, sub, &payload); err != nil {
		return subscriber.Subscriber{}, err
	}
	if payload.IMSI == "" {
		payload = sub
	}
	return payload, nil
}

// DeleteSubscriber removes the subscriber identified by imsi.
func (c *Client) DeleteSubscriber(ctx context.Context, imsi string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	path, err := itemPath(imsi)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

func itemPath(imsi string) (string, error) {
	trimmed := strings.TrimSpace(imsi)
	if trimmed == "" {
		return "", ErrMissingIMSI
	}
	return subscriberPath + "/" + url.PathEscape(trimmed), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	// path arrives escaped; keep it as RawPath so it is not escaped twice.
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	rel := &url.URL{Path: unescaped, RawPath: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return newAPIError(path, resp)
	}
	if dest == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_bind %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
