package service

import (
	"context"
	"time"

	"github.com/deppfellow/freight-agent-api/internal/errs"
	"github.com/deppfellow/freight-agent-api/internal/lib/cache"
	"github.com/deppfellow/freight-agent-api/internal/lib/fmcsa"
	"github.com/deppfellow/freight-agent-api/internal/model"
	"github.com/deppfellow/freight-agent-api/internal/server"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const (
	// CarrierUnavailableMessage is returned when the registry cannot answer.
	CarrierUnavailableMessage = "Carrier service unavailable"

	carrierCachePrefix = "carrier:"
)

// CarrierRegistry looks up carriers by MC number.
type CarrierRegistry interface {
	LookupCarrier(ctx context.Context, mcNumber string) (*fmcsa.Carrier, error)
}

// ResultCache stores verification results between requests.
type ResultCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CarrierService verifies MC numbers against the registry.
type CarrierService struct {
	registry CarrierRegistry
	cache    ResultCache
	cacheTTL time.Duration
	logger   *zerolog.Logger

	// lookups collapses concurrent registry calls for the same MC number.
	lookups singleflight.Group
}

// NewCarrierService wires the FMCSA client and, when Redis is available and
// carrier.cache_ttl is positive, the result cache.
func NewCarrierService(s *server.Server) *CarrierService {
	var resultCache ResultCache
	if s.Redis != nil && s.Config.Carrier.CacheTTL > 0 {
		resultCache = cache.NewRedisCache(s.Redis, carrierCachePrefix)
	}

	return newCarrierService(
		fmcsa.NewClient(s.Config.FMCSA, s.Logger),
		resultCache,
		s.Config.Carrier.CacheTTL,
		s.Logger,
	)
}

func newCarrierService(registry CarrierRegistry, resultCache ResultCache, ttl time.Duration, logger *zerolog.Logger) *CarrierService {
	return &CarrierService{
		registry: registry,
		cache:    resultCache,
		cacheTTL: ttl,
		logger:   logger,
	}
}

// Verify resolves mcNumber to a verification result.
//
// Malformed numbers are rejected without contacting the registry. A
// registry 404 is a valid "not found" answer; every other registry failure
// becomes a 503 and is never cached.
func (cs *CarrierService) Verify(ctx context.Context, mcNumber string) (*model.CarrierVerification, error) {
	if mcNumber == "" {
		return nil, errs.NewBadRequestError("Missing MC number", nil)
	}
	if !model.IsValidMCNumber(mcNumber) {
		return nil, InvalidMCNumberError(mcNumber)
	}

	if cached, ok := cs.fromCache(ctx, mcNumber); ok {
		return cached, nil
	}

	// The shared call outlives any single caller; the client timeout bounds it.
	lookupCtx := context.WithoutCancel(ctx)
	v, err, shared := cs.lookups.Do(mcNumber, func() (any, error) {
		return cs.registry.LookupCarrier(lookupCtx, mcNumber)
	})
	if shared {
		cs.logger.Debug().Str("mc_number", mcNumber).Msg("fmcsa lookup shared with a concurrent request")
	}
	carrier, _ := v.(*fmcsa.Carrier)
	if err != nil && !errors.Is(err, fmcsa.ErrNotFound) {
		cs.logger.Error().
			Err(err).
			Str("mc_number", mcNumber).
			Msg("fmcsa lookup failed")

		return nil, errs.NewServiceUnavailableError(CarrierUnavailableMessage)
	}

	result := &model.CarrierVerification{MCNumber: mcNumber}
	if carrier != nil {
		dotNumber := string(carrier.DOTNumber)
		result.Valid = true
		result.CarrierName = &carrier.LegalName
		result.DOTNumber = &dotNumber
		result.Address = &model.CarrierAddress{
			City:    carrier.PhyCity,
			State:   carrier.PhyState,
			Zipcode: carrier.PhyZipcode,
		}
	}

	cs.toCache(ctx, result)

	return result, nil
}

// InvalidMCNumberError is the 400 returned for a malformed MC number.
func InvalidMCNumberError(received string) *errs.HTTPError {
	return errs.NewBadRequestError("Invalid MC number format", errs.Details{
		"expected": "6 digits",
		"received": received,
	})
}

func (cs *CarrierService) fromCache(ctx context.Context, mcNumber string) (*model.CarrierVerification, bool) {
	if cs.cache == nil {
		return nil, false
	}

	var cached model.CarrierVerification
	hit, err := cs.cache.GetJSON(ctx, mcNumber, &cached)
	if err != nil {
		cs.logger.Warn().Err(err).Str("mc_number", mcNumber).Msg("carrier cache read failed")
		return nil, false
	}

	return &cached, hit
}

func (cs *CarrierService) toCache(ctx context.Context, result *model.CarrierVerification) {
	if cs.cache == nil {
		return
	}

	if err := cs.cache.SetJSON(ctx, result.MCNumber, result, cs.cacheTTL); err != nil {
		cs.logger.Warn().Err(err).Str("mc_number", result.MCNumber).Msg("carrier cache write failed")
	}
}
