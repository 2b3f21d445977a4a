package okapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Login(t *testing.T) {
	t.Parallel()

	var seen struct {
		tenant      string
		contentType string
		username    string
		password    string
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/authn/login", r.URL.Path)

		seen.tenant = r.Header.Get(HeaderTenant)
		seen.contentType = r.Header.Get("Content-Type")

		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		seen.username = creds.Username
		seen.password = creds.Password

		w.Header().Set(HeaderToken, "session-token")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	token, err := client.Login(context.Background(), "edge_user", "edge_password")
	require.NoError(t, err)
	assert.Equal(t, "session-token", token)

	assert.Equal(t, "diku", seen.tenant)
	assert.Equal(t, "application/json", seen.contentType)
	assert.Equal(t, "edge_user", seen.username)
	assert.Equal(t, "edge_password", seen.password)

	// The session token sticks to the client.
	assert.Equal(t, "session-token", client.Token())
}

func TestClient_Login_Denied(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	// A rejected login is a result, not an error.
	token, err := client.Login(context.Background(), "edge_user", "wrong_password")
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, client.Token())
}

func TestClient_Login_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 20*time.Millisecond, nil)

	_, err := client.Login(context.Background(), "edge_user", "edge_password")
	require.Error(t, err)
	assert.True(t, IsTimeout(err))
}

func TestClient_Login_TransportError(t *testing.T) {
	t.Parallel()

	// Closed server: connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "diku", time.Second, nil)

	_, err := client.Login(context.Background(), "edge_user", "edge_password")
	require.Error(t, err)
	assert.False(t, IsTimeout(err))
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "diku", r.Header.Get(HeaderTenant))
		assert.Equal(t, "session-token", r.Header.Get(HeaderToken))
		assert.Equal(t, "application/xml", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"version":"1.0"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)
	client.SetToken("session-token")

	resp, err := client.Get(context.Background(), "/_/version",
		map[string]string{"Accept": "application/xml"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.ContentType)
	assert.Equal(t, `{"version":"1.0"}`, string(resp.Body))
}

func TestClient_Get_NoTokenHeader(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// An unset token must not produce an empty header.
		_, present := r.Header[HeaderToken]
		assert.False(t, present)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	_, err := client.Get(context.Background(), "/_/version", nil)
	require.NoError(t, err)
}

func TestClient_Post(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/some/path", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("created"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	resp, err := client.Post(context.Background(), "/some/path", []byte(`{"a":1}`), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "created", string(resp.Body))
}

func TestClient_Get_RelaysErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("no such record"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	// Backend error statuses surface in the response, not as errors.
	resp, err := client.Get(context.Background(), "/records/42", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "no such record", string(resp.Body))
}

func TestClient_Healthy(t *testing.T) {
	t.Parallel()

	var status atomic.Int32
	status.Store(http.StatusOK)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_/version", r.URL.Path)
		w.WriteHeader(int(status.Load()))
	}))
	defer server.Close()

	client := NewClient(server.URL, "diku", 5*time.Second, nil)

	assert.True(t, client.Healthy(context.Background()))

	status.Store(http.StatusServiceUnavailable)
	assert.False(t, client.Healthy(context.Background()))
}

func TestClient_Healthy_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL, "diku", time.Second, nil)
	assert.False(t, client.Healthy(context.Background()))
}

func TestClient_TrailingSlashTrimmed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/_/version", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "diku", 5*time.Second, nil)

	_, err := client.Get(context.Background(), "/_/version", nil)
	require.NoError(t, err)
}
