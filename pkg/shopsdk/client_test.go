package shopsdk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoginAndCart(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("username") != "alice" || r.PostForm.Get("password") != "s3cret!" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Incorrect username or password"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(TokenResponse{AccessToken: "tok", TokenType: "bearer"})
	})
	mux.HandleFunc("POST /cart", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req CartItemRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_ = json.NewEncoder(w).Encode(CartItem{ID: 7, ProductID: req.ProductID, Quantity: req.Quantity})
	})
	mux.HandleFunc("DELETE /cart/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Cart item not found"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := NewSDKClient(srv.URL + "/")
	ctx := context.Background()

	_, err := client.Login(ctx, "alice", "wrong")
	require.True(t, IsUnauthorized(err))
	require.ErrorContains(t, err, "Incorrect username or password")

	session, err := client.Login(ctx, "alice", "s3cret!")
	require.NoError(t, err)
	require.Equal(t, "tok", session.AccessToken())

	item, err := session.AddToCart(ctx, 3, 2)
	require.NoError(t, err)
	require.Equal(t, int64(7), item.ID)
	require.Equal(t, int64(3), item.ProductID)
	require.Equal(t, 2, item.Quantity)

	err = session.RemoveCartItem(ctx, 99)
	require.True(t, IsNotFound(err))
}

func TestSessionExpired(t *testing.T) {
	t.Parallel()

	client := NewSDKClient("http://127.0.0.1:0")
	client.TokenLifetime = time.Second

	session := client.NewSession("tok")
	_, err := session.ListCart(context.Background())
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestParseErrorResponse(t *testing.T) {
	t.Parallel()

	resp := &http.Response{StatusCode: http.StatusTooManyRequests, Header: http.Header{"Retry-After": {"12"}}}
	err := parseErrorResponse(resp, []byte(`{"detail":"Rate limit exceeded: 50 per 1m0s"}`))
	require.True(t, IsRateLimited(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "12", apiErr.RetryAfter)
	require.Equal(t, "Rate limit exceeded: 50 per 1m0s", apiErr.Detail)

	resp = &http.Response{StatusCode: http.StatusBadGateway, Header: http.Header{}}
	err = parseErrorResponse(resp, []byte("upstream down\n"))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "upstream down", apiErr.Detail)
}
