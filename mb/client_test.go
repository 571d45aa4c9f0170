package mb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(base string) *Client {
	c := New(base, time.Millisecond, zap.NewNop().Sugar())
	c.retry.InitialDelay = time.Millisecond
	c.retry.MaxDelay = 5 * time.Millisecond
	return c
}

func TestGetRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"count":0,"releases":[]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	bs, err := c.get(context.Background(), "/release", url.Values{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"releases":[]}`, string(bs))
	assert.Equal(t, int32(3), calls.Load())
}

func TestGetPermanentNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"bad query"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.get(context.Background(), "/release", url.Values{})
	require.Error(t, err)

	var perm *PermanentError
	require.ErrorAs(t, err, &perm)
	assert.Equal(t, http.StatusBadRequest, perm.Status)
	assert.Contains(t, perm.Body, "bad query")
	assert.Equal(t, int32(1), calls.Load(), "4xx must not be retried")
}

func TestGetTransientExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.get(context.Background(), "/release", url.Values{})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
	assert.Equal(t, int32(c.retry.MaxAttempts), calls.Load())
}

func TestGetConnectionFailureIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	c := testClient(srv.URL)
	c.retry.MaxAttempts = 2
	_, err := c.get(context.Background(), "/release", url.Values{})
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestGetSendsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.get(context.Background(), "/release", url.Values{})
	require.NoError(t, err)
	assert.Equal(t, UserAgent, ua)
}

func TestGetHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.get(ctx, "/release", url.Values{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewDefaultsInterval(t *testing.T) {
	c := New(BaseURL, 0, zap.NewNop().Sugar())
	assert.InDelta(t, 1/DefaultInterval.Seconds(), float64(c.gate.Limit()), 0.01)
}

func TestTransientErrorUnwraps(t *testing.T) {
	inner := errors.New("boom")
	err := &TransientError{Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.True(t, IsTransient(err))
	assert.False(t, IsTransient(errors.New("plain")))
}
