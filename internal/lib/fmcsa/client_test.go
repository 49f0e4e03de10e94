package fmcsa

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	logger := zerolog.Nop()
	return NewClient(config.FMCSAConfig{
		BaseURL: upstream.URL + "/carriers/",
		WebKey:  "secret-key",
		Timeout: timeout,
	}, &logger)
}

func TestLookupCarrier_Found(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("webKey")
		_, _ = w.Write([]byte(`{"content":[{"legalName":"ACME FREIGHT","dotNumber":1234567,"phyCity":"DALLAS","phyState":"TX","phyZipcode":"75201"},{"legalName":"IGNORED"}]}`))
	}, time.Second)

	carrier, err := client.LookupCarrier(context.Background(), "123456")
	require.NoError(t, err)
	require.NotNil(t, carrier)

	assert.Equal(t, "/carriers/123456", gotPath)
	assert.Equal(t, "secret-key", gotKey)
	assert.Equal(t, "ACME FREIGHT", carrier.LegalName)
	assert.Equal(t, FlexibleString("1234567"), carrier.DOTNumber)
	assert.Equal(t, "DALLAS", carrier.PhyCity)
	assert.Equal(t, "TX", carrier.PhyState)
	assert.Equal(t, "75201", carrier.PhyZipcode)
}

func TestLookupCarrier_EmptyContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}, time.Second)

	carrier, err := client.LookupCarrier(context.Background(), "123456")
	require.NoError(t, err)
	assert.Nil(t, carrier)
}

func TestLookupCarrier_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, time.Second)

	_, err := client.LookupCarrier(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupCarrier_Unavailable(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		timeout    time.Duration
		wantStatus int
	}{
		{
			name:       "server error",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			timeout:    time.Second,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "forbidden",
			handler:    func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusForbidden) },
			timeout:    time.Second,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "undecodable body",
			handler:    func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("<html>")) },
			timeout:    time.Second,
			wantStatus: http.StatusOK,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
			timeout:    50 * time.Millisecond,
			wantStatus: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			}, tt.timeout)

			_, err := client.LookupCarrier(context.Background(), "123456")

			var unavailable *UnavailableError
			require.True(t, errors.As(err, &unavailable), "got %v", err)
			assert.Equal(t, tt.wantStatus, unavailable.StatusCode)
			assert.Equal(t, int32(1), calls.Load(), "lookups are never retried")
		})
	}
}

func TestLookupCarrier_TransportFailure(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	upstream.Close()

	logger := zerolog.Nop()
	client := NewClient(config.FMCSAConfig{BaseURL: upstream.URL, Timeout: time.Second}, &logger)

	_, err := client.LookupCarrier(context.Background(), "123456")

	var unavailable *UnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Zero(t, unavailable.StatusCode)
}

func TestFlexibleString(t *testing.T) {
	tests := []struct {
		input string
		want  FlexibleString
	}{
		{`{"v":"0042"}`, "0042"},
		{`{"v":42}`, "42"},
		{`{"v":null}`, ""},
		{`{}`, ""},
	}

	for _, tt := range tests {
		var out struct {
			V FlexibleString `json:"v"`
		}
		require.NoError(t, json.Unmarshal([]byte(tt.input), &out), tt.input)
		assert.Equal(t, tt.want, out.V, tt.input)
	}

	var out struct {
		V FlexibleString `json:"v"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"v":true}`), &out))
}
