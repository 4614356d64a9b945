package cart

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rishia17/ecommerceweb/pkg/backend"
	"github.com/rishia17/ecommerceweb/pkg/common/jsoncompat"
	"github.com/rishia17/ecommerceweb/pkg/session"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var (
	shopper = types.UserContext{LoginStatus: true, CurrentUser: types.User{UserName: "anna", UserType: types.RoleUser}}
	admin   = types.UserContext{LoginStatus: true, CurrentUser: types.User{UserName: "root", UserType: types.RoleAdmin}}
)

func tokenSession() *session.Context {
	return session.New(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}), shopper)
}

func TestAddToCartPostsEntry(t *testing.T) {
	var got types.CartEntry
	var path, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		assert.NoError(t, jsoncompat.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"message":"product added"}`))
	}))
	defer srv.Close()

	err := NewDispatcher(srv.URL, tokenSession(), srv.Client()).AddToCart(context.Background(), shopper, "p1")
	require.NoError(t, err)
	assert.Equal(t, "/user-api/cart", path)
	assert.Equal(t, "Bearer t", auth)
	assert.Equal(t, types.CartEntry{UserName: "anna", ProductId: "p1"}, got)
}

func TestAddToCartIgnoredForAdminAndAnonymous(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	d := NewDispatcher(srv.URL, tokenSession(), srv.Client())
	assert.NoError(t, d.AddToCart(context.Background(), admin, "p1"))
	assert.NoError(t, d.AddToCart(context.Background(), types.UserContext{}, "p1"))
	assert.Equal(t, 0, calls)
}

func TestAddToCartRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	err := NewDispatcher(srv.URL, tokenSession(), srv.Client()).AddToCart(context.Background(), shopper, "p1")
	var ce *CartError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, types.BackendRejected, ce.Kind)
	assert.Equal(t, "invalid token", Message(err))
}

func TestAddToCartTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewDispatcher(srv.URL, tokenSession(), srv.Client()).AddToCart(context.Background(), shopper, "p1")
	var ce *CartError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, types.Transport, ce.Kind)
	assert.NotEmpty(t, Message(err))
}

func TestAddToCartTwiceAppendsTwice(t *testing.T) {
	be := backend.NewServer(types.ProductList{{ProductId: "p1", Price: 10, ImageUrls: []string{"x"}}}, nil)
	srv := httptest.NewServer(be.Handler())
	defer srv.Close()

	d := NewDispatcher(srv.URL, tokenSession(), srv.Client())
	require.NoError(t, d.AddToCart(context.Background(), shopper, "p1"))
	require.NoError(t, d.AddToCart(context.Background(), shopper, "p1"))

	items, err := be.Storage.GetCart("anna")
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p1"}, items)
	assert.Equal(t, 2, be.Calls("cart"))

	err = d.AddToCart(context.Background(), shopper, "missing")
	assert.Equal(t, backend.ProductNotFoundMessage, Message(err))
}
