package httpjson_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ar "github.com/notevault/airouter"
	"github.com/notevault/airouter/provider/httpjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/process", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Operation string `json:"operation"`
			Content   string `json:"content"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "summarize", body.Operation)

		json.NewEncoder(w).Encode(map[string]string{"content": "a short summary"})
	}))
	defer srv.Close()

	p := httpjson.New("test", srv.URL, httpjson.WithAPIKey("sk-test"))
	resp, err := p.Invoke(context.Background(), ar.Request{
		Operation: "summarize",
		Payload:   []byte("long note text"),
	})
	require.NoError(t, err)
	assert.Equal(t, "a short summary", string(resp.Payload))
}

func TestInvoke_MapsStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"service unavailable", http.StatusServiceUnavailable, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ar.ErrProviderUnavailable)
		}},
		{"rate limited", http.StatusTooManyRequests, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ar.ErrProviderUnavailable)
		}},
		{"gateway timeout", http.StatusGatewayTimeout, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ar.ErrProviderTimeout)
		}},
		{"server error", http.StatusInternalServerError, func(t *testing.T, err error) {
			var pe *ar.ProviderError
			assert.ErrorAs(t, err, &pe)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := httpjson.New("test", srv.URL)
			_, err := p.Invoke(context.Background(), ar.Request{Operation: "tag", Payload: []byte("x")})
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestInvoke_EnforcesRequestDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(map[string]string{"content": "too late"})
	}))
	defer srv.Close()

	p := httpjson.New("test", srv.URL)
	_, err := p.Invoke(context.Background(), ar.Request{
		Operation:       "summarize",
		Payload:         []byte("x"),
		MaxResponseTime: 50 * time.Millisecond,
	})
	assert.ErrorIs(t, err, ar.ErrProviderTimeout)
}

func TestInvoke_BackendErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"error": "model overloaded"})
	}))
	defer srv.Close()

	p := httpjson.New("test", srv.URL)
	_, err := p.Invoke(context.Background(), ar.Request{Operation: "tag", Payload: []byte("x")})
	require.Error(t, err)

	var pe *ar.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Detail, "model overloaded")
}

func TestInvoke_ConnectionRefused(t *testing.T) {
	p := httpjson.New("test", "http://127.0.0.1:1")
	_, err := p.Invoke(context.Background(), ar.Request{Operation: "tag", Payload: []byte("x")})
	assert.ErrorIs(t, err, ar.ErrProviderUnavailable)
}
