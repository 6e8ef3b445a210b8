package devserver

import (
	"context"
	"fmt"
	"sort"

	"inventory-console/internal/models"
)

// computeInsights derives the analytics aggregate from whatever data the
// stub holds. The rules are deliberately simple; the hosted backend runs a
// real analytics engine behind the same response shape.
func (h *Handler) computeInsights(ctx context.Context) (*models.Insights, error) {
	products, err := h.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := h.store.OrderTotalsByProduct(ctx)
	if err != nil {
		return nil, err
	}
	orderCount, revenue, err := h.store.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}

	insights := &models.Insights{
		SalesAnalysis: models.SalesAnalysis{
			TotalOrders:  orderCount,
			TotalRevenue: revenue,
			Period:       "All time",
		},
		StockRecommendations: []models.StockRecommendation{},
		TrendingProducts:     []models.TrendingProduct{},
		RiskAlerts:           []models.RiskAlert{},
		OptimizationTips:     []models.OptimizationTip{},
	}
	if orderCount > 0 {
		insights.SalesAnalysis.AverageOrderValue = revenue / float64(orderCount)
	}

	for _, p := range products {
		if !p.LowStock() {
			continue
		}
		rec := models.StockRecommendation{
			ProductName:      p.Name,
			CurrentStock:     p.Quantity,
			RecommendedStock: p.ReorderThreshold * 2,
		}
		switch {
		case p.Quantity == 0:
			rec.Priority = models.PriorityHigh
			rec.Reason = "Product is out of stock"
		case p.Quantity*2 <= p.ReorderThreshold:
			rec.Priority = models.PriorityHigh
			rec.Reason = "Stock is critically below the reorder threshold"
		default:
			rec.Priority = models.PriorityMedium
			rec.Reason = "Stock is below the reorder threshold"
		}
		insights.StockRecommendations = append(insights.StockRecommendations, rec)

		switch {
		case p.Quantity == 0:
			insights.RiskAlerts = append(insights.RiskAlerts, models.RiskAlert{
				Type:        models.AlertOutOfStock,
				ProductName: p.Name,
				Message:     fmt.Sprintf("%s is out of stock and cannot be ordered", p.Name),
			})
		case p.Quantity*2 <= p.ReorderThreshold:
			insights.RiskAlerts = append(insights.RiskAlerts, models.RiskAlert{
				Type:        models.AlertCriticalStock,
				ProductName: p.Name,
				Message:     fmt.Sprintf("%s has only %d units left", p.Name, p.Quantity),
			})
		}
	}

	trending := make([]models.TrendingProduct, 0, len(products))
	for _, p := range products {
		if ordered := totals[p.ID]; ordered > 0 {
			trending = append(trending, models.TrendingProduct{
				ProductName:  p.Name,
				TotalOrdered: ordered,
				CurrentStock: p.Quantity,
			})
		}
	}
	sort.Slice(trending, func(i, j int) bool {
		if trending[i].TotalOrdered != trending[j].TotalOrdered {
			return trending[i].TotalOrdered > trending[j].TotalOrdered
		}
		return trending[i].ProductName < trending[j].ProductName
	})
	if len(trending) > 5 {
		trending = trending[:5]
	}
	insights.TrendingProducts = trending

	if len(insights.StockRecommendations) > 0 {
		insights.OptimizationTips = append(insights.OptimizationTips, models.OptimizationTip{
			Tip:    fmt.Sprintf("Reorder the %d products flagged below their threshold", len(insights.StockRecommendations)),
			Impact: "Avoids lost sales from stockouts",
		})
	}
	slowMovers := 0
	for _, p := range products {
		if totals[p.ID] == 0 {
			slowMovers++
		}
	}
	if slowMovers > 0 && orderCount > 0 {
		insights.OptimizationTips = append(insights.OptimizationTips, models.OptimizationTip{
			Tip:    fmt.Sprintf("%d products have never been ordered; consider promotions or delisting", slowMovers),
			Impact: "Frees up capital tied in idle stock",
		})
	}

	return insights, nil
}
