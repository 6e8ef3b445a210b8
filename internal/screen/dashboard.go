package screen

import (
	"context"
	"encoding/json"
	"sync"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"

	"golang.org/x/sync/errgroup"
)

// DashboardScreen is the read-only landing view: summary counters, low-stock
// alerts, and recent orders. Both fetches run concurrently on mount.
type DashboardScreen struct {
	client *apiclient.Client

	mu       sync.Mutex
	summary  models.DashboardSummary
	lowStock []models.Product
}

// NewDashboardScreen builds the dashboard.
func NewDashboardScreen(client *apiclient.Client) *DashboardScreen {
	return &DashboardScreen{client: client, lowStock: []models.Product{}}
}

// Mount fetches /api/dashboard and /api/dashboard/low-stock in parallel.
// Malformed payloads degrade to zero values so the view always renders.
func (s *DashboardScreen) Mount(ctx context.Context) error {
	var summary models.DashboardSummary
	var lowStock []models.Product

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.client.Get(ctx, "/api/dashboard", &summary)
	})
	g.Go(func() error {
		raw, err := s.client.GetRaw(ctx, "/api/dashboard/low-stock")
		if err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &lowStock); err != nil || lowStock == nil {
			lowStock = []models.Product{}
		}
		return nil
	})

	err := g.Wait()
	if summary.RecentOrders == nil {
		summary.RecentOrders = []models.Order{}
	}

	s.mu.Lock()
	s.summary = summary
	s.lowStock = lowStock
	s.mu.Unlock()
	return err
}

// Summary returns the last loaded dashboard aggregate.
func (s *DashboardScreen) Summary() models.DashboardSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// LowStock returns the products currently below their reorder threshold.
func (s *DashboardScreen) LowStock() []models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Product, len(s.lowStock))
	copy(out, s.lowStock)
	return out
}
