package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthState describes the outcome of a session request.
type AuthState string

// AuthState constants.
const (
	AuthStateAuthenticated      AuthState = "authenticated"
	AuthStateBadPassword        AuthState = "bad_password"
	AuthStateRequiresValidation AuthState = "requires_validation"
)

// renewalThreshold is how close to expiry a token gets before
// ShouldRefresh reports it.
const renewalThreshold = 7 * 24 * time.Hour

// Authentication is the result of a completed session exchange.
type Authentication struct {
	State       AuthState
	InstallID   string
	AccessToken string
	ExpiresAt   time.Time
}

// sessionJSON is the wire shape of /session and /validate responses.
// The booleans report which parts of the identity the API considers
// verified for this install id.
type sessionJSON struct {
	VInstallID bool `json:"vInstallId"`
	VPassword  bool `json:"vPassword"`
	VEmail     bool `json:"vEmail"`
	VPhone     bool `json:"vPhone"`
}

// Authenticate performs the session exchange.
//
// When the account's install id has not been validated yet the returned
// Authentication carries AuthStateRequiresValidation together with
// ErrValidationRequired; call SendVerificationCode and then
// ValidateVerificationCode to finish. The install id is generated when
// the configuration leaves it empty; persist it across runs to avoid
// re-triggering two-factor validation.
func (c *Client) Authenticate(ctx context.Context) (Authentication, error) {
	installID := c.cfg.InstallID
	if installID == "" {
		installID = uuid.NewString()
	}

	var body sessionJSON
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"identifier": c.cfg.LoginMethod + ":" + c.cfg.Username,
			"password":   c.cfg.Password,
			"installId":  installID,
		}).
		SetResult(&body).
		Post("/session")
	if err != nil {
		return Authentication{}, fmt.Errorf("session request: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return Authentication{}, err
	}

	auth := Authentication{InstallID: installID}
	auth.AccessToken = resp.Header().Get(accessTokenHeader)
	if auth.AccessToken != "" {
		c.setAccessToken(auth.AccessToken)
		if at, err := tokenExpiry(auth.AccessToken); err == nil {
			auth.ExpiresAt = at
		} else {
			c.logger.Warn("access token expiry unreadable", "error", err)
		}
	}

	switch {
	case !body.VPassword:
		auth.State = AuthStateBadPassword
		return auth, ErrBadCredentials
	case !body.VInstallID:
		auth.State = AuthStateRequiresValidation
		return auth, ErrValidationRequired
	default:
		auth.State = AuthStateAuthenticated
		c.logger.Debug("authenticated", "install_id", installID,
			"expires_at", auth.ExpiresAt)
		return auth, nil
	}
}

// SendVerificationCode asks the API to send a two-factor code to the
// account's email address or phone number.
func (c *Client) SendVerificationCode(ctx context.Context) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{"value": c.cfg.Username}).
		Post("/validation/" + c.cfg.LoginMethod)
	if err != nil {
		return fmt.Errorf("send verification code: %w", err)
	}
	return c.checkResponse(resp)
}

// ValidateVerificationCode submits a received two-factor code. On
// success the API rotates the access token; the new token is installed
// on the client and returned.
func (c *Client) ValidateVerificationCode(ctx context.Context, code string) (Authentication, error) {
	var body sessionJSON
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"code":            code,
			c.cfg.LoginMethod: c.cfg.Username,
		}).
		SetResult(&body).
		Post("/validate/" + c.cfg.LoginMethod)
	if err != nil {
		return Authentication{}, fmt.Errorf("validate verification code: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return Authentication{}, err
	}

	auth := Authentication{
		State:       AuthStateAuthenticated,
		InstallID:   c.cfg.InstallID,
		AccessToken: resp.Header().Get(accessTokenHeader),
	}
	if auth.AccessToken == "" {
		return Authentication{}, fmt.Errorf("%w: validate response carried no token", ErrInvalidToken)
	}
	c.setAccessToken(auth.AccessToken)
	if at, err := tokenExpiry(auth.AccessToken); err == nil {
		auth.ExpiresAt = at
	}
	return auth, nil
}

// TokenExpiresAt reports when the current access token expires. Zero
// when unauthenticated or the token carries no readable expiry.
func (c *Client) TokenExpiresAt() time.Time {
	token := c.AccessToken()
	if token == "" {
		return time.Time{}
	}
	at, err := tokenExpiry(token)
	if err != nil {
		return time.Time{}
	}
	return at
}

// ShouldRefresh reports whether the access token is within the renewal
// threshold of expiring. False when unauthenticated or the expiry is
// unreadable; there is nothing useful to refresh in either case.
func (c *Client) ShouldRefresh() bool {
	at := c.TokenExpiresAt()
	if at.IsZero() {
		return false
	}
	return time.Until(at) < renewalThreshold
}

// RefreshAccessToken rotates the access token. The API refreshes
// tokens as a side effect of any authenticated request, returning the
// replacement in the response header; a houses fetch is the cheapest
// such request. No-op when the header carries nothing new.
func (c *Client) RefreshAccessToken(ctx context.Context) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	resp, err := c.rest.R().
		SetContext(ctx).
		Get("/users/houses/mine")
	if err != nil {
		return fmt.Errorf("refresh access token: %w", err)
	}
	if err := c.checkResponse(resp); err != nil {
		return err
	}

	token := resp.Header().Get(accessTokenHeader)
	if token == "" || token == c.AccessToken() {
		return nil
	}
	c.setAccessToken(token)
	if at, err := tokenExpiry(token); err == nil {
		c.logger.Debug("access token refreshed", "expires_at", at)
	} else {
		c.logger.Warn("refreshed token expiry unreadable", "error", err)
	}
	return nil
}

// tokenExpiry extracts the expiresAt claim from an access token. The
// token is decoded without signature verification; we hold it only to
// know when to re-authenticate, the API does its own verification.
func tokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	// Session tokens carry an RFC3339 expiresAt claim; refreshed
	// tokens carry the standard numeric exp claim instead.
	if raw, ok := claims["expiresAt"].(string); ok {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: expiresAt %q: %w", ErrInvalidToken, raw, err)
		}
		return at.UTC(), nil
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: no expiry claim", ErrInvalidToken)
}
