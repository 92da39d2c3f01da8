package logic

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/db"
	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

// Fetcher loads placements and brand configuration for one integration.
type Fetcher struct {
	Client         transport.Doer
	Endpoints      transport.Endpoints
	IntegrationKey string
	// TrackingID is stamped into SDK_TID on every placement request that
	// does not already carry one.
	TrackingID string
	Cache      db.BrandConfigStore
	CacheTTL   time.Duration
	Logger     *zap.Logger
	Metrics    observability.MetricsRegistry
}

func (f *Fetcher) logger() *zap.Logger {
	if f.Logger == nil {
		return zap.NewNop()
	}
	return f.Logger
}

func (f *Fetcher) metrics() observability.MetricsRegistry {
	if f.Metrics == nil {
		return observability.NewNoOpRegistry()
	}
	return f.Metrics
}

// Placements posts req to the placement generation endpoint.
func (f *Fetcher) Placements(ctx context.Context, req models.PlacementRequest) (*models.PlacementsResponse, error) {
	ctx, span := observability.Tracer("logic").Start(ctx, "fetch_placements")
	defer span.End()

	for i := range req.Placements {
		if req.Placements[i].Context.SDKTID == "" {
			req.Placements[i].Context.SDKTID = f.TrackingID
		}
	}
	span.SetAttributes(attribute.Int("placements.requested", len(req.Placements)))

	var resp models.PlacementsResponse
	err := f.Client.Do(ctx, transport.Request{
		Name:   "generate_placements",
		Method: http.MethodPost,
		URL:    f.Endpoints.GeneratePlacements(),
		Body:   req,
	}, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("placements.returned", len(resp.Placements)),
		attribute.Int("placements.content", len(resp.PlacementContent)),
	)
	return &resp, nil
}

// BrandConfig returns the brand configuration, consulting the cache first.
// Cache failures are logged and fall through to the network.
func (f *Fetcher) BrandConfig(ctx context.Context) (models.BrandConfig, error) {
	ctx, span := observability.Tracer("logic").Start(ctx, "brand_config")
	defer span.End()
	logger := f.logger().With(zap.String("brand_id", f.IntegrationKey))

	if f.Cache != nil {
		cfg, ok, err := f.Cache.GetBrandConfig(ctx, f.IntegrationKey)
		switch {
		case err != nil:
			logger.Warn("brand config cache read failed", zap.Error(err))
			f.metrics().IncrementBrandConfigCache("error")
		case ok:
			f.metrics().IncrementBrandConfigCache("hit")
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return cfg, nil
		default:
			f.metrics().IncrementBrandConfigCache("miss")
		}
	}

	var resp models.BrandConfigResponse
	err := f.Client.Do(ctx, transport.Request{
		Name:   "brand_config",
		Method: http.MethodGet,
		URL:    f.Endpoints.BrandConfig(f.IntegrationKey),
	}, &resp)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.BrandConfig{}, fmt.Errorf("%w: %w", ErrBrandConfigUnavailable, err)
	}

	if f.Cache != nil {
		if err := f.Cache.SetBrandConfig(ctx, f.IntegrationKey, resp.Config, f.CacheTTL); err != nil {
			logger.Warn("brand config cache write failed", zap.Error(err))
		}
	}
	return resp.Config, nil
}
