package analytics

import (
	"context"
	"sync"

	"github.com/patrickwarner/partnersdk/internal/models"
)

var _ Service = (*MockAnalytics)(nil)

// MockAnalytics records beacons instead of sending them.
type MockAnalytics struct {
	mu     sync.Mutex
	Views  []*models.PlacementsResponse
	Clicks []*models.PlacementsResponse
}

func NewMockAnalytics() *MockAnalytics {
	return &MockAnalytics{}
}

func (m *MockAnalytics) SendViewPlacement(_ context.Context, resp *models.PlacementsResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Views = append(m.Views, resp)
}

func (m *MockAnalytics) SendClickPlacement(_ context.Context, resp *models.PlacementsResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clicks = append(m.Clicks, resp)
}

// Counts returns the number of view and click beacons recorded.
func (m *MockAnalytics) Counts() (views, clicks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Views), len(m.Clicks)
}
