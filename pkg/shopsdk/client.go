package shopsdk

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTokenLifetime is how long the server keeps an access token valid.
const DefaultTokenLifetime = 30 * time.Minute

// SDKClient talks to the public endpoints and opens Sessions.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// TokenLifetime is assumed for new sessions since the token response
	// carries no expiry. Defaults to DefaultTokenLifetime.
	TokenLifetime time.Duration
}

func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		TokenLifetime: DefaultTokenLifetime,
	}
}

// Register creates an account.
func (c *SDKClient) Register(ctx context.Context, username, password string) error {
	body, headers, err := jsonBody(RegisterRequest{Username: username, Password: password})
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/register", body, headers)
	if err != nil {
		return err
	}
	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusOK)
}

// Token exchanges a username and password for an access token.
func (c *SDKClient) Token(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	resp, err := c.doRequest(ctx, http.MethodPost, "/token",
		strings.NewReader(form.Encode()),
		map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	)
	if err != nil {
		return nil, err
	}

	var tok TokenResponse
	if err := decodeJSON(resp, &tok, http.StatusOK); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Login is Token followed by NewSession.
func (c *SDKClient) Login(ctx context.Context, username, password string) (*Session, error) {
	tok, err := c.Token(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return c.NewSession(tok.AccessToken), nil
}

// ListProducts returns every product with its remaining stock.
func (c *SDKClient) ListProducts(ctx context.Context) ([]Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/products", nil, nil)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := decodeJSON(resp, &products, http.StatusOK); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
