package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rugbydata/internal/platform/logging"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	return NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		Logger:     logging.NewNop(),
	})
}

func TestGetSuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "RugbyDataBot")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	raw, err := newTestClient(t, srv).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
}

func TestGetRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	raw, err := newTestClient(t, srv).Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(raw))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetFailsFastOnClientError(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, crerr.Is(err, ErrTransient))
	assert.Equal(t, int32(1), calls.Load())
}

func TestGetExhaustsRetries(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv).Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrTransient))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetHonorsContextDuringBackoff(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		MaxRetries: 5,
		BaseDelay:  time.Hour,
		Logger:     logging.NewNop(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Get(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(ClientConfig{
		HTTPClient:    srv.Client(),
		MaxRetries:    -1,
		BaseDelay:     time.Millisecond,
		Logger:        logging.NewNop(),
		EnableBreaker: true,
	})

	ctx := context.Background()
	for i := 0; i < breakerFailures; i++ {
		_, err := c.Get(ctx, srv.URL)
		require.Error(t, err)
		require.True(t, crerr.Is(err, ErrTransient))
	}

	_, err := c.Get(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, crerr.Is(err, ErrUnavailable))
}
