// Package analytics sends placement view and click beacons.
package analytics

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patrickwarner/partnersdk/internal/models"
	"github.com/patrickwarner/partnersdk/internal/observability"
	"github.com/patrickwarner/partnersdk/internal/transport"
)

const (
	EventViewPlacement  = "view-placement"
	EventClickPlacement = "click-placement"

	libraryName     = "bread-partners-sdk-go"
	timestampLayout = "2006-01-02T15:04:05.000Z"
)

// Service records placement interactions. Implementations must not block
// the caller on the network and must never fail a placement flow.
type Service interface {
	SendViewPlacement(ctx context.Context, resp *models.PlacementsResponse)
	SendClickPlacement(ctx context.Context, resp *models.PlacementsResponse)
}

// Beacons posts analytics payloads to the partner service in the
// background.
type Beacons struct {
	client    transport.Doer
	endpoints transport.Endpoints
	apiKey    string
	userAgent string
	sessionID string
	logger    *zap.Logger
	now       func() time.Time

	// mu orders send's wg.Add against Close; closed beacons drop new events.
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

var _ Service = (*Beacons)(nil)

// NewBeacons creates a Beacons for the integration key apiKey.
func NewBeacons(client transport.Doer, endpoints transport.Endpoints, apiKey, userAgent string, logger *zap.Logger) *Beacons {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Beacons{
		client:    client,
		endpoints: endpoints,
		apiKey:    apiKey,
		userAgent: userAgent,
		sessionID: uuid.NewString(),
		logger:    logger.Named("analytics"),
		now:       time.Now,
	}
}

// SendViewPlacement posts a view-placement beacon for resp.
func (b *Beacons) SendViewPlacement(ctx context.Context, resp *models.PlacementsResponse) {
	b.send(ctx, EventViewPlacement, b.endpoints.ViewPlacement(), resp)
}

// SendClickPlacement posts a click-placement beacon for resp.
func (b *Beacons) SendClickPlacement(ctx context.Context, resp *models.PlacementsResponse) {
	b.send(ctx, EventClickPlacement, b.endpoints.ClickPlacement(), resp)
}

// Flush waits for beacons still in flight.
func (b *Beacons) Flush() {
	b.wg.Wait()
}

// Close stops accepting beacons and waits for those in flight. Events sent
// afterwards, e.g. from a popup tapped after the session ended, are dropped.
func (b *Beacons) Close() {
	b.mu.Lock()
	b.closed = true
	b.mu.Unlock()
	b.wg.Wait()
}

func (b *Beacons) send(ctx context.Context, name, url string, resp *models.PlacementsResponse) {
	payload := b.Payload(name, resp)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		b.logger.Debug("analytics beacon dropped after close", zap.String("event", name))
		return
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		err := b.client.Do(ctx, transport.Request{
			Name:   name,
			Method: http.MethodPost,
			URL:    url,
			Body:   payload,
		}, nil)
		if err != nil {
			b.logger.Debug("analytics beacon failed", zap.String("event", name), zap.Error(err))
		}
	}()
}

// Payload builds the beacon body for the first placement in resp.
func (b *Beacons) Payload(name string, resp *models.PlacementsResponse) Payload {
	placement, _ := resp.FirstPlacement()
	content, _ := resp.FirstContent()

	return Payload{
		Name: name,
		Props: Props{
			EventProperties: EventProperties{
				Placement: Placement{
					ID:                 placement.ID,
					PlacementContentID: content.ID,
					OverlayContentID:   content.ID,
				},
				PlacementContent: PlacementContent{
					ID:          content.ID,
					ContentType: content.ContentType,
					Metadata:    content.Metadata,
				},
				Metadata: map[string]string{"location": placement.RenderContext.Location},
			},
			UserProperties: map[string]string{},
		},
		Context: Context{
			Timestamp: b.now().UTC().Format(timestampLayout),
			APIKey:    b.apiKey,
			BrowserCtx: BrowserCtx{
				Library:   Library{Name: libraryName, Version: observability.Version},
				UserAgent: b.userAgent,
			},
			TrackingInfo: TrackingInfo{
				UserTrackingID:    placement.RenderContext.SDKTID,
				SessionTrackingID: b.sessionID,
			},
		},
	}
}
