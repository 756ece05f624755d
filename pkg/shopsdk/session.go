package shopsdk

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Session holds an access token and calls the authenticated endpoints.
type Session struct {
	client *SDKClient

	mu          sync.RWMutex
	accessToken string
	expiresAt   time.Time
}

// NewSession wraps an access token obtained elsewhere. The expiry is
// estimated from the client's TokenLifetime, less a 30 second buffer.
func (c *SDKClient) NewSession(accessToken string) *Session {
	lifetime := c.TokenLifetime
	if lifetime <= 0 {
		lifetime = DefaultTokenLifetime
	}
	return &Session{
		client:      c,
		accessToken: accessToken,
		expiresAt:   time.Now().Add(lifetime - 30*time.Second),
	}
}

// AccessToken returns the raw token without checking expiry.
func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) validToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accessToken == "" || !time.Now().Before(s.expiresAt) {
		return "", ErrSessionExpired
	}
	return s.accessToken, nil
}

func (s *Session) AddToCart(ctx context.Context, productID int64, quantity int) (*CartItem, error) {
	return s.writeCartItem(ctx, http.MethodPost, "/cart", productID, quantity)
}

func (s *Session) UpdateCartItem(ctx context.Context, itemID, productID int64, quantity int) (*CartItem, error) {
	return s.writeCartItem(ctx, http.MethodPatch, cartItemPath(itemID), productID, quantity)
}

func (s *Session) ListCart(ctx context.Context) ([]CartItem, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/cart", nil, nil)
	if err != nil {
		return nil, err
	}
	var items []CartItem
	if err := decodeJSON(resp, &items, http.StatusOK); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Session) RemoveCartItem(ctx context.Context, itemID int64) error {
	resp, err := s.doAuthRequest(ctx, http.MethodDelete, cartItemPath(itemID), nil, nil)
	if err != nil {
		return err
	}
	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusOK)
}

// Logout revokes the access token server side. The session is unusable
// afterwards whether or not the call succeeds.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/logout", nil, nil)

	s.mu.Lock()
	s.accessToken = ""
	s.mu.Unlock()

	if err != nil {
		return err
	}
	var msg MessageResponse
	return decodeJSON(resp, &msg, http.StatusOK)
}

func (s *Session) writeCartItem(ctx context.Context, method, path string, productID int64, quantity int) (*CartItem, error) {
	body, headers, err := jsonBody(CartItemRequest{ProductID: productID, Quantity: quantity})
	if err != nil {
		return nil, err
	}
	resp, err := s.doAuthRequest(ctx, method, path, body, headers)
	if err != nil {
		return nil, err
	}
	var item CartItem
	if err := decodeJSON(resp, &item, http.StatusOK); err != nil {
		return nil, err
	}
	return &item, nil
}

func cartItemPath(id int64) string {
	return "/cart/" + strconv.FormatInt(id, 10)
}
