package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReplicateProvider(serverURL string) *replicateProvider {
	p := newReplicateProvider("test-token")
	p.baseURL = serverURL
	p.poller = Poller{Interval: time.Millisecond, MaxAttempts: 5}
	return p
}

func TestReplicateGenerateSuccess(t *testing.T) {
	payload := bytes.Repeat([]byte{0xCD}, minImageBytes+100)
	var polls atomic.Int32

	mux := http.NewServeMux()
	var serverURL string

	mux.HandleFunc("/v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		var body replicateCreateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "version-hash", body.Version)
		assert.Equal(t, "a cat", body.Input.Prompt)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-1", Status: "starting"})
	})
	mux.HandleFunc("/v1/predictions/pred-1", func(w http.ResponseWriter, r *http.Request) {
		// 2번째 poll부터 succeeded
		if polls.Add(1) < 2 {
			json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-1", Status: "processing"})
			return
		}
		output, _ := json.Marshal([]string{serverURL + "/output.png"})
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-1", Status: "succeeded", Output: output})
	})
	mux.HandleFunc("/output.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})

	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	p := newTestReplicateProvider(server.URL)
	data, err := p.generate(context.Background(), "version-hash", ModelFluxDev, Request{Prompt: "a cat"})

	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestReplicateGenerateJobFailed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-2", Status: "starting"})
	})
	mux.HandleFunc("/v1/predictions/pred-2", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-2", Status: "failed", Error: "NSFW content detected"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	p := newTestReplicateProvider(server.URL)
	_, err := p.generate(context.Background(), "version-hash", ModelFluxDev, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "NSFW content detected")
}

func TestReplicateGenerateCanceled(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-3", Status: "starting"})
	})
	mux.HandleFunc("/v1/predictions/pred-3", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-3", Status: "canceled"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	p := newTestReplicateProvider(server.URL)
	_, err := p.generate(context.Background(), "version-hash", ModelFluxDev, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "canceled")
}

func TestReplicateGeneratePollExhausted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/predictions", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-4", Status: "starting"})
	})
	mux.HandleFunc("/v1/predictions/pred-4", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(replicatePrediction{ID: "pred-4", Status: "processing"})
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	p := newTestReplicateProvider(server.URL)
	_, err := p.generate(context.Background(), "version-hash", ModelFluxDev, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.True(t, provErr.Retryable)
	assert.Contains(t, provErr.Error(), "try a faster model")
}

func TestReplicateCreateAuthRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	p := newTestReplicateProvider(server.URL)
	_, err := p.generate(context.Background(), "version-hash", ModelFluxDev, Request{Prompt: "a cat"})

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.False(t, provErr.Retryable)
}

func TestExtractOutputURL(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"string list", `["https://example.com/a.png"]`, "https://example.com/a.png", false},
		{"single string", `"https://example.com/b.png"`, "https://example.com/b.png", false},
		{"empty list", `[]`, "", true},
		{"empty raw", ``, "", true},
		{"object", `{"foo":"bar"}`, "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractOutputURL([]byte(tc.raw))
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPollerStopsOnError(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 10}

	calls := 0
	err := p.Poll(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, fmt.Errorf("boom")
	})

	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, calls, "error must stop polling immediately")
}

func TestPollerExhaustsBudget(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 3}

	calls := 0
	err := p.Poll(context.Background(), func(ctx context.Context) (bool, error) {
		calls++
		return false, nil
	})

	assert.True(t, errors.Is(err, ErrPollExhausted))
	assert.Equal(t, 3, calls)
}

func TestPollerRespectsContext(t *testing.T) {
	p := Poller{Interval: time.Second, MaxAttempts: 10}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Poll(ctx, func(ctx context.Context) (bool, error) {
		return false, nil
	})

	assert.True(t, errors.Is(err, context.Canceled))
}
