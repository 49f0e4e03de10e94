package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/lib/fmcsa"
	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// --- load search ------------------------------------------------------------

type fakeLoadRepo struct {
	byRef  [][]string
	byLane [][3]string
	loads  []model.Load
	err    error
}

func (f *fakeLoadRepo) FindByReferences(_ context.Context, refs []string) ([]model.Load, error) {
	f.byRef = append(f.byRef, refs)
	return f.loads, f.err
}

func (f *fakeLoadRepo) FindByLane(_ context.Context, origin, destination, equipment string) ([]model.Load, error) {
	f.byLane = append(f.byLane, [3]string{origin, destination, equipment})
	return f.loads, f.err
}

func TestLoadService_ReferenceTakesPrecedence(t *testing.T) {
	repo := &fakeLoadRepo{loads: []model.Load{{ReferenceNumber: "REF1"}}}
	svc := NewLoadService(repo, nopLogger())

	result, err := svc.Search(context.Background(), model.LoadQuery{
		ReferenceNumbers: []string{" ref1", "Ref2"},
		Origin:           "CHICAGO",
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"REF1", "REF2"}}, repo.byRef)
	assert.Empty(t, repo.byLane)
	assert.Equal(t, 1, result.Count)
	assert.Empty(t, result.Message)
}

func TestLoadService_LaneSearch(t *testing.T) {
	repo := &fakeLoadRepo{}
	svc := NewLoadService(repo, nopLogger())

	result, err := svc.Search(context.Background(), model.LoadQuery{
		Origin:      "Chicago",
		Destination: "Dallas",
	})
	require.NoError(t, err)

	assert.Equal(t, [][3]string{{"Chicago", "Dallas", ""}}, repo.byLane)
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Results)
	assert.Equal(t, NoMatchingLoadsMessage, result.Message)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"results":[],"message":"No matching loads found"}`, string(raw))
}

func TestLoadService_MissingLaneParams(t *testing.T) {
	tests := []struct {
		name    string
		query   model.LoadQuery
		missing []string
	}{
		{"both", model.LoadQuery{Equipment: "REEFER"}, []string{"origin", "destination"}},
		{"origin", model.LoadQuery{Destination: "DALLAS"}, []string{"origin"}},
		{"destination", model.LoadQuery{Origin: "CHICAGO"}, []string{"destination"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeLoadRepo{}
			svc := NewLoadService(repo, nopLogger())

			_, err := svc.Search(context.Background(), tt.query)

			var httpErr *errs.HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, http.StatusBadRequest, httpErr.Status)
			assert.Equal(t, "Missing required parameters", httpErr.Message)
			assert.Equal(t, tt.missing, httpErr.Details["missing"])
			assert.Empty(t, repo.byLane)
			assert.Empty(t, repo.byRef)
		})
	}
}

func TestLoadService_StoreErrorPassesThrough(t *testing.T) {
	storeErr := errors.New("connection reset")
	svc := NewLoadService(&fakeLoadRepo{err: storeErr}, nopLogger())

	_, err := svc.Search(context.Background(), model.LoadQuery{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, storeErr)
}

// --- carrier verification ---------------------------------------------------

type fakeRegistry struct {
	carrier *fmcsa.Carrier
	err     error
	calls   int
}

func (f *fakeRegistry) LookupCarrier(context.Context, string) (*fmcsa.Carrier, error) {
	f.calls++
	return f.carrier, f.err
}

type memoryCache struct {
	mu     sync.Mutex
	values map[string][]byte
	ttls   map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	m.ttls[key] = ttl
	return nil
}

func TestCarrierService_Found(t *testing.T) {
	registry := &fakeRegistry{carrier: &fmcsa.Carrier{
		LegalName:  "ACME FREIGHT",
		DOTNumber:  "1234567",
		PhyCity:    "DALLAS",
		PhyState:   "TX",
		PhyZipcode: "75201",
	}}
	svc := newCarrierService(registry, nil, 0, nopLogger())

	result, err := svc.Verify(context.Background(), "123456")
	require.NoError(t, err)

	raw, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"valid": true,
		"mc_number": "123456",
		"carrier_name": "ACME FREIGHT",
		"dot_number": "1234567",
		"address": {"city": "DALLAS", "state": "TX", "zipcode": "75201"}
	}`, string(raw))
}

func TestCarrierService_NotFoundAndEmpty(t *testing.T) {
	for name, registry := range map[string]*fakeRegistry{
		"registry 404":  {err: fmt.Errorf("lookup: %w", fmcsa.ErrNotFound)},
		"empty content": {},
	} {
		t.Run(name, func(t *testing.T) {
			svc := newCarrierService(registry, nil, 0, nopLogger())

			result, err := svc.Verify(context.Background(), "654321")
			require.NoError(t, err)

			raw, err := json.Marshal(result)
			require.NoError(t, err)
			assert.JSONEq(t, `{"valid":false,"mc_number":"654321"}`, string(raw))
		})
	}
}

func TestCarrierService_InvalidInputNeverCallsRegistry(t *testing.T) {
	inputs := map[string]string{
		"":        "Missing MC number",
		"12345":   "Invalid MC number format",
		"1234567": "Invalid MC number format",
		"12a456":  "Invalid MC number format",
		"１２３４５６":  "Invalid MC number format",
	}

	for input, message := range inputs {
		registry := &fakeRegistry{}
		svc := newCarrierService(registry, nil, 0, nopLogger())

		_, err := svc.Verify(context.Background(), input)

		var httpErr *errs.HTTPError
		require.True(t, errors.As(err, &httpErr), input)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status, input)
		assert.Equal(t, message, httpErr.Message, input)
		assert.Zero(t, registry.calls, input)
	}

	assert.Equal(t, errs.Details{"expected": "6 digits", "received": "12a456"}, InvalidMCNumberError("12a456").Details)
}

func TestCarrierService_UnavailableIsNotCached(t *testing.T) {
	registry := &fakeRegistry{err: &fmcsa.UnavailableError{StatusCode: http.StatusBadGateway, Err: errors.New("bad gateway")}}
	resultCache := newMemoryCache()
	svc := newCarrierService(registry, resultCache, time.Minute, nopLogger())

	_, err := svc.Verify(context.Background(), "123456")

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
	assert.Equal(t, CarrierUnavailableMessage, httpErr.Message)
	assert.NotContains(t, httpErr.Error(), "bad gateway")
	assert.Empty(t, resultCache.values)
}

func TestCarrierService_CachesDefinitiveAnswers(t *testing.T) {
	registry := &fakeRegistry{carrier: &fmcsa.Carrier{LegalName: "ACME", DOTNumber: "42"}}
	resultCache := newMemoryCache()
	svc := newCarrierService(registry, resultCache, time.Minute, nopLogger())

	first, err := svc.Verify(context.Background(), "123456")
	require.NoError(t, err)
	second, err := svc.Verify(context.Background(), "123456")
	require.NoError(t, err)

	assert.Equal(t, 1, registry.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Minute, resultCache.ttls["123456"])
}

// blockingRegistry holds every lookup until release is closed.
type blockingRegistry struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	mu      sync.Mutex
	calls   int
}

func (b *blockingRegistry) LookupCarrier(context.Context, string) (*fmcsa.Carrier, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	b.once.Do(func() { close(b.started) })
	<-b.release
	return &fmcsa.Carrier{LegalName: "ACME", DOTNumber: "42"}, nil
}

func TestCarrierService_ConcurrentLookupsShareOneCall(t *testing.T) {
	registry := &blockingRegistry{started: make(chan struct{}), release: make(chan struct{})}
	svc := newCarrierService(registry, nil, 0, nopLogger())

	const callers = 8
	results := make(chan *model.CarrierVerification, callers)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		res, err := svc.Verify(context.Background(), "123456")
		assert.NoError(t, err)
		results <- res
	}()

	<-registry.started

	for i := 1; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Verify(context.Background(), "123456")
			assert.NoError(t, err)
			results <- res
		}()
	}

	// Give the followers time to join the in-flight lookup.
	time.Sleep(50 * time.Millisecond)
	close(registry.release)
	wg.Wait()
	close(results)

	for res := range results {
		assert.True(t, res.Valid)
		assert.Equal(t, "123456", res.MCNumber)
	}

	registry.mu.Lock()
	defer registry.mu.Unlock()
	assert.Equal(t, 1, registry.calls)
}

// contextRegistry blocks like blockingRegistry but gives up when its context
// is cancelled, the way an HTTP call does.
type contextRegistry struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
	calls   atomic.Int32
}

func (r *contextRegistry) LookupCarrier(ctx context.Context, _ string) (*fmcsa.Carrier, error) {
	r.calls.Add(1)
	r.once.Do(func() { close(r.started) })

	select {
	case <-ctx.Done():
		return nil, &fmcsa.UnavailableError{Err: ctx.Err()}
	case <-r.release:
		return &fmcsa.Carrier{LegalName: "ACME", DOTNumber: "42"}, nil
	}
}

func TestCarrierService_CancelledCallerDoesNotFailOthers(t *testing.T) {
	registry := &contextRegistry{started: make(chan struct{}), release: make(chan struct{})}
	svc := newCarrierService(registry, nil, 0, nopLogger())

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	defer cancelFirst()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = svc.Verify(firstCtx, "123456")
	}()

	<-registry.started

	type outcome struct {
		res *model.CarrierVerification
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		res, err := svc.Verify(context.Background(), "123456")
		second <- outcome{res, err}
	}()

	// Let the second caller join the in-flight lookup, then drop the first.
	time.Sleep(50 * time.Millisecond)
	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	close(registry.release)

	got := <-second
	require.NoError(t, got.err)
	assert.True(t, got.res.Valid)
	assert.Equal(t, "ACME", *got.res.CarrierName)

	<-firstDone
	assert.Equal(t, int32(1), registry.calls.Load())
}
