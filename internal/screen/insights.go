package screen

import (
	"context"
	"sync"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
)

// InsightsScreen renders precomputed analytics from the backend. It is
// strictly read-only; nothing here recomputes or caches beyond the mount.
type InsightsScreen struct {
	client *apiclient.Client

	mu       sync.Mutex
	insights models.Insights
	loaded   bool
}

// NewInsightsScreen builds the AI insights view.
func NewInsightsScreen(client *apiclient.Client) *InsightsScreen {
	return &InsightsScreen{client: client}
}

// Mount fetches /api/ai-insights. Missing sections decode to empty slices,
// which the view renders as "no insights available".
func (s *InsightsScreen) Mount(ctx context.Context) error {
	var insights models.Insights
	if err := s.client.Get(ctx, "/api/ai-insights", &insights); err != nil {
		return err
	}

	s.mu.Lock()
	s.insights = insights
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Insights returns the last loaded aggregate; ok is false before any
// successful mount.
func (s *InsightsScreen) Insights() (models.Insights, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insights, s.loaded
}

// Empty reports whether the aggregate has nothing to show.
func (s *InsightsScreen) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.insights.StockRecommendations) == 0 &&
		len(s.insights.TrendingProducts) == 0 &&
		len(s.insights.RiskAlerts) == 0 &&
		len(s.insights.OptimizationTips) == 0
}
