package cloud

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/hallgate/augustlink/internal/infrastructure/config"
)

const (
	apiKey    = "79fd0eb6-381d-4adf-95a0-47721289d1d9"
	userAgent = "August/2019.12.16.4708 CFNetwork/1121.2.2 Darwin/19.3.0"

	accessTokenHeader = "x-august-access-token"

	// The API throttles per install id. Ten flat-wait retries rides out
	// the burst limit without tripping it again.
	retryCount = 10
	retryWait  = 2500 * time.Millisecond
)

// Logger is the logging surface the client needs. Compatible with
// logging.Logger and slog.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Client talks to the August cloud API.
//
// All methods are safe for concurrent use. The access token is shared
// across requests and swapped atomically by setAccessToken.
type Client struct {
	rest   *resty.Client
	cfg    config.AugustConfig
	logger Logger

	tokenMu     sync.RWMutex
	accessToken string
}

// New builds a client from configuration. A nil logger disables logging.
func New(cfg config.AugustConfig, logger Logger) *Client {
	if logger == nil {
		logger = noopLogger{}
	}

	rest := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.GetRequestTimeout()).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(retryWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() == http.StatusTooManyRequests
		}).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept-Version", "0.0.1").
		SetHeader("User-Agent", userAgent).
		SetHeader("x-august-api-key", apiKey).
		SetHeader("x-kease-api-key", apiKey)

	c := &Client{
		rest:   rest,
		cfg:    cfg,
		logger: logger,
	}

	rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := c.AccessToken(); token != "" {
			req.SetHeader(accessTokenHeader, token)
		}
		return nil
	})

	return c
}

// AccessToken returns the current access token, or empty before
// authentication.
func (c *Client) AccessToken() string {
	c.tokenMu.RLock()
	defer c.tokenMu.RUnlock()
	return c.accessToken
}

// setAccessToken installs a new access token for subsequent requests.
// The API rotates the token on session and validation responses.
func (c *Client) setAccessToken(token string) {
	c.tokenMu.Lock()
	c.accessToken = token
	c.tokenMu.Unlock()
}

// checkResponse converts a non-success API response into an error.
func (c *Client) checkResponse(resp *resty.Response) error {
	if !resp.IsError() {
		return nil
	}
	c.logger.Warn("august api error",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"status", resp.StatusCode(),
	)
	return fmt.Errorf("%w: %s %s: status %d",
		ErrRequestFailed, resp.Request.Method, resp.Request.URL, resp.StatusCode())
}

// requireAuth fails fast when no token has been obtained yet.
func (c *Client) requireAuth() error {
	if c.AccessToken() == "" {
		return ErrNotAuthenticated
	}
	return nil
}
