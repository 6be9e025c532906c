package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ip":"93.184.216.34","latitude":42.15,"longitude":-70.82}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	info, err := c.Lookup(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "93.184.216.34", info.IP)
	assert.Equal(t, 42.15, info.Latitude)
	assert.Equal(t, -70.82, info.Longitude)
}

func TestLookupNon2xxStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Lookup(context.Background())

	assert.Error(t, err)
}

func TestLookupMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Lookup(context.Background())

	assert.Error(t, err)
}

func TestLookupRejectsBogusIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"n/a","latitude":0,"longitude":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Lookup(context.Background())

	assert.Error(t, err)
}

func TestLookupContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, time.Second)
	_, err := c.Lookup(ctx)

	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", 0)
	assert.Equal(t, DefaultEndpoint, c.endpoint)
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
}
