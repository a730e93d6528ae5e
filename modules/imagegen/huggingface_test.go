package imagegen

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHFProvider(serverURL string) *hfProvider {
	p := newHFProvider("test-key")
	p.baseURL = serverURL
	return p
}

func TestHFGenerateSuccess(t *testing.T) {
	payload := bytes.Repeat([]byte{0xAB}, minImageBytes+100)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/models/black-forest-labs/FLUX.1-schnell", r.URL.Path)
		w.Write(payload)
	}))
	defer server.Close()

	p := newTestHFProvider(server.URL)
	data, err := p.generate(context.Background(), "black-forest-labs/FLUX.1-schnell", ModelFluxSchnell, Request{Prompt: "a cat"})

	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestHFGenerateWarmingUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p := newTestHFProvider(server.URL)
	_, err := p.generate(context.Background(), "remote/id", ModelFluxSchnell, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "warming up")
}

func TestHFGenerateRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := newTestHFProvider(server.URL)
	_, err := p.generate(context.Background(), "remote/id", ModelFluxSchnell, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "rate limit")
}

func TestHFGenerateAuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	p := newTestHFProvider(server.URL)
	_, err := p.generate(context.Background(), "remote/id", ModelFluxSchnell, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Retryable)
	assert.NotContains(t, provErr.Error(), "test-key", "credentials must not leak into user-facing messages")
}

func TestHFGenerateUndersizedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("tiny"))
	}))
	defer server.Close()

	p := newTestHFProvider(server.URL)
	_, err := p.generate(context.Background(), "remote/id", ModelFluxSchnell, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "empty image")
}
