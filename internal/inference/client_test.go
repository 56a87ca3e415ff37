package inference

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Generate_PassThrough(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	var gotPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"response":"hello"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)

	resp, err := c.Generate(context.Background(), []byte(`{"model":"x","prompt":"hi"}`))
	require.NoError(t, err)

	assert.Equal(t, "/api/generate", gotPath)
	assert.JSONEq(t, `{"model":"x","prompt":"hi"}`, string(gotBody))
	assert.True(t, resp.OK())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"response":"hello"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.ContentType)
}

func TestClient_Generate_RelaysUpstreamError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)

	resp, err := c.Generate(context.Background(), []byte(`{"model":"missing"}`))
	require.NoError(t, err, "non-2xx upstream status is not a transport error")

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"model not found"}`, string(resp.Body))
}

func TestClient_Generate_TransportError(t *testing.T) {
	t.Parallel()

	// Closed server guarantees a connection failure.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	c := NewClient(upstream.URL, time.Second)

	resp, err := c.Generate(context.Background(), []byte(`{}`))
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "inference server unreachable")
}

func TestClient_ListModels(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3"}]}`))
	}))
	defer upstream.Close()

	c := NewClient(upstream.URL, 5*time.Second)

	resp, err := c.ListModels(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.JSONEq(t, `{"models":[{"name":"llama3"}]}`, string(resp.Body))
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	c := NewClient("", 0).(*client)
	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultTimeout, c.httpClient.Timeout)

	c = NewClient("http://example.com/", time.Second).(*client)
	assert.Equal(t, "http://example.com", c.baseURL)
}
