package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rishia17/ecommerceweb/pkg/backend"
	"github.com/rishia17/ecommerceweb/pkg/catalog"
	"github.com/rishia17/ecommerceweb/pkg/session"
	"github.com/rishia17/ecommerceweb/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func shopper() *session.Context {
	return session.New(
		oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "secret"}),
		types.UserContext{LoginStatus: true, CurrentUser: types.User{UserName: "anna", UserType: types.RoleUser}},
	)
}

var products = types.ProductList{
	{ProductId: "1", Category: "Mobile", Brand: "samsung", Price: 15000, ImageUrls: []string{"1.png"}},
	{ProductId: "2", Category: "Mobile", Brand: "iphone", Price: 70000, ImageUrls: []string{"2.png"}},
	{ProductId: "3", Category: "TV", Brand: "samsung", Price: 29999, ImageUrls: []string{"3.png"}},
	{ProductId: "4", Category: "Watch", Brand: "boat", Price: 1999, ImageUrls: []string{"4.png"}},
	{ProductId: "5", Category: "Accessories", Brand: "boat", Price: 499, ImageUrls: []string{"5.png"}},
	{ProductId: "6", Category: "Laptop", Brand: "redmi", Price: 30000, ImageUrls: []string{"6.png"}},
	{ProductId: "7", Category: "IPAD", Brand: "iphone", Price: 0, ImageUrls: []string{"7.png"}},
}

func TestFetchAllSendsBearerAndRequestId(t *testing.T) {
	var auth, requestId, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		requestId = r.Header.Get(catalog.RequestIdHeader)
		path = r.URL.Path
		w.Write([]byte(`{"message":"all products","payload":[{"productId":"a","price":1,"imageUrls":["x"]}]}`))
	}))
	defer srv.Close()

	f := catalog.NewFetcher(srv.URL, shopper(), srv.Client())
	list, err := f.FetchAll(context.Background(), types.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, list.Ids())
	assert.Equal(t, "Bearer secret", auth)
	assert.NotEmpty(t, requestId)
	assert.Equal(t, "/admin-api/products", path)
}

func TestFetchAllRejectedTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := catalog.NewFetcher(srv.URL, shopper(), srv.Client()).FetchAll(context.Background(), types.RoleUser)
	require.Error(t, err)
	var fe *catalog.FetchError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, types.BackendRejected, fe.Kind)
	assert.Equal(t, "invalid token", fe.Message)
	assert.True(t, catalog.IsBackendRejected(err))
}

func TestFetchWrongSuccessTagIsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"all products","payload":[]}`))
	}))
	defer srv.Close()

	_, err := catalog.NewFetcher(srv.URL, shopper(), srv.Client()).
		FetchFiltered(context.Background(), types.RoleUser, types.DefaultCriteria())
	assert.True(t, catalog.IsBackendRejected(err))
}

func TestFetchTransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"message":"boom"}`))
		}},
		{"not json", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>gateway</html>`))
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()
			client := srv.Client()
			client.Timeout = 50 * time.Millisecond
			_, err := catalog.NewFetcher(srv.URL, shopper(), client).FetchAll(context.Background(), types.RoleUser)
			assert.True(t, catalog.IsTransport(err), "got %v", err)
		})
	}
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	_, err := catalog.NewFetcher(url, shopper(), nil).FetchAll(context.Background(), types.RoleUser)
	assert.True(t, catalog.IsTransport(err))
}

func TestFetchUnknownRole(t *testing.T) {
	_, err := catalog.NewFetcher("http://127.0.0.1:1", shopper(), nil).FetchAll(context.Background(), types.Role("guest"))
	kind, ok := catalog.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, types.Unauthorized, kind)
}

func TestFilteredEmptyResult(t *testing.T) {
	be := backend.NewServer(products, nil)
	srv := httptest.NewServer(be.Handler())
	defer srv.Close()

	c := types.FilterCriteria{Categories: types.NewSelection("Nothing"), Price: types.PriceRange{Min: 0, Max: 10}}
	list, err := catalog.NewFetcher(srv.URL, shopper(), srv.Client()).FetchFiltered(context.Background(), types.RoleUser, c)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

// Local derivation and the server side filter agree for the same catalog.
func TestLocalAndRemoteFilteringAgree(t *testing.T) {
	be := backend.NewServer(products, nil)
	srv := httptest.NewServer(be.Handler())
	defer srv.Close()
	f := catalog.NewFetcher(srv.URL, shopper(), srv.Client())
	ctx := context.Background()

	full, err := f.FetchAll(ctx, types.RoleUser)
	require.NoError(t, err)

	criteria := []types.FilterCriteria{
		types.DefaultCriteria(),
		{Price: types.PriceRange{Min: 0, Max: 300000}},
		{Categories: types.NewSelection("Mobile"), Price: types.PriceRange{Min: 0, Max: 300000}},
		{Categories: types.NewSelection("All"), Brands: types.NewSelection("boat", "redmi"), Price: types.PriceRange{Min: 499, Max: 30000}},
		{Brands: types.NewSelection("samsung"), Price: types.PriceRange{Min: 29999, Max: 29999}},
		{Categories: types.NewSelection("TV", "IPAD"), Brands: types.NewSelection("All", "iphone"), Price: types.PriceRange{Min: 0, Max: 0}},
	}
	for _, c := range criteria {
		for _, role := range []types.Role{types.RoleUser, types.RoleAdmin} {
			remote, err := f.FetchFiltered(ctx, role, c)
			require.NoError(t, err)
			local := c.Apply(full)
			assert.ElementsMatch(t, local.Ids(), remote.Ids(), "criteria %+v role %s", c, role)
		}
	}
}
