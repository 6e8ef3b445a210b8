package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"inventory-console/config"
	"inventory-console/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTokens struct {
	token   string
	cleared bool
}

func (f *fakeTokens) Token() string { return f.token }
func (f *fakeTokens) Clear()        { f.cleared = true; f.token = "" }

func testClient(baseURL string, tokens TokenStore) *Client {
	cfg := &config.Config{}
	cfg.API.Override = baseURL
	return New(cfg, tokens)
}

func TestGetDecodesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"p1","name":"Widget","quantity":10,"price":5,"reorder_threshold":3}]`))
	}))
	defer srv.Close()

	client := testClient(srv.URL, nil)

	var products []models.Product
	err := client.Get(context.Background(), "/api/products", &products)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
}

func TestServerErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Insufficient stock available"}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL, nil)

	err := client.Post(context.Background(), "/api/orders", models.OrderInput{}, nil)
	require.Error(t, err)
	assert.True(t, IsServer(err))
	assert.False(t, IsTransport(err))

	var se *ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "Insufficient stock available", se.Message)
}

func TestTransportErrorIsTyped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := testClient(srv.URL, nil)

	err := client.Get(context.Background(), "/api/products", nil)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.False(t, IsServer(err))
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "tok-123"}
	client := testClient(srv.URL, tokens)

	require.NoError(t, client.Get(context.Background(), "/api/products", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	}))
	defer srv.Close()

	tokens := &fakeTokens{token: "stale"}
	client := testClient(srv.URL, tokens)

	err := client.Get(context.Background(), "/api/products", nil)
	require.Error(t, err)
	assert.True(t, IsServer(err))
	assert.True(t, tokens.cleared)
}

func TestBaseURLResolvedPerCall(t *testing.T) {
	hits := map[string]int{}
	newServer := func(name string) *httptest.Server {
		return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits[name]++
			w.Write([]byte(`{}`))
		}))
	}
	first := newServer("first")
	defer first.Close()
	second := newServer("second")
	defer second.Close()

	cfg := &config.Config{}
	cfg.API.Override = first.URL
	client := New(cfg, nil)

	require.NoError(t, client.Get(context.Background(), "/", nil))
	cfg.API.Override = second.URL
	require.NoError(t, client.Get(context.Background(), "/", nil))

	assert.Equal(t, 1, hits["first"])
	assert.Equal(t, 1, hits["second"])
}
