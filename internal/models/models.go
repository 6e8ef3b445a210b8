package models

import "time"

// Entity is implemented by every record the backend assigns an id to.
// IDs are opaque server-assigned strings; never assume they are sequential.
type Entity interface {
	EntityID() string
}

// Product represents an item held in stock
type Product struct {
	ID               string  `db:"id" json:"id"`
	Name             string  `db:"name" json:"name"`
	Quantity         int     `db:"quantity" json:"quantity"`
	Price            float64 `db:"price" json:"price"`
	ReorderThreshold int     `db:"reorder_threshold" json:"reorder_threshold"`
}

func (p Product) EntityID() string { return p.ID }

// LowStock reports whether the product should be flagged for reordering.
func (p Product) LowStock() bool { return p.Quantity < p.ReorderThreshold }

// Order represents a confirmed sale of a single product. ProductName and
// CustomerName are joined in by the backend for display.
type Order struct {
	ID           string    `db:"id" json:"id"`
	ProductID    string    `db:"product_id" json:"product_id"`
	CustomerID   string    `db:"customer_id" json:"customer_id"`
	ProductName  string    `db:"product_name" json:"product_name,omitempty"`
	CustomerName string    `db:"customer_name" json:"customer_name,omitempty"`
	Quantity     int       `db:"quantity" json:"quantity"`
	TotalAmount  float64   `db:"total_amount" json:"total_amount"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

func (o Order) EntityID() string { return o.ID }

// Customer represents a buyer referenced by orders
type Customer struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Contact string `db:"contact" json:"contact"`
	Address string `db:"address" json:"address"`
}

func (c Customer) EntityID() string { return c.ID }

// Supplier represents a stock source
type Supplier struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Contact string `db:"contact" json:"contact"`
	Address string `db:"address" json:"address"`
}

func (s Supplier) EntityID() string { return s.ID }

// ProductInput is the payload for product create/update
type ProductInput struct {
	Name             string  `json:"name" binding:"required"`
	Quantity         int     `json:"quantity" binding:"min=0"`
	Price            float64 `json:"price" binding:"min=0"`
	ReorderThreshold int     `json:"reorder_threshold" binding:"min=0"`
}

// OrderInput is the payload for order creation
type OrderInput struct {
	ProductID  string `json:"product_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	CustomerID string `json:"customer_id" binding:"required"`
}

// ContactInput is the shared payload for customer and supplier create/update
type ContactInput struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}

// Credentials is the login request body
type Credentials struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResult is the login response. Backends in the wild answer with either
// a success flag or a bare "Login successful" message, sometimes both.
type LoginResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// OK reports whether the response counts as a successful login.
func (r LoginResult) OK() bool {
	return r.Success || r.Message == "Login successful"
}

// DashboardSummary is the /api/dashboard aggregate
type DashboardSummary struct {
	TotalProducts int     `json:"total_products"`
	LowStockCount int     `json:"low_stock_count"`
	RecentOrders  []Order `json:"recent_orders"`
}

// Insights is the /api/ai-insights aggregate, entirely server-computed.
type Insights struct {
	SalesAnalysis        SalesAnalysis         `json:"sales_analysis"`
	StockRecommendations []StockRecommendation `json:"stock_recommendations"`
	TrendingProducts     []TrendingProduct     `json:"trending_products"`
	RiskAlerts           []RiskAlert           `json:"risk_alerts"`
	OptimizationTips     []OptimizationTip     `json:"optimization_tips"`
}

type SalesAnalysis struct {
	TotalOrders       int     `json:"total_orders"`
	TotalRevenue      float64 `json:"total_revenue"`
	AverageOrderValue float64 `json:"average_order_value"`
	Period            string  `json:"period"`
}

// Recommendation priorities
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

type StockRecommendation struct {
	ProductName      string `json:"product_name"`
	Priority         string `json:"priority"`
	CurrentStock     int    `json:"current_stock"`
	RecommendedStock int    `json:"recommended_stock"`
	Reason           string `json:"reason"`
}

type TrendingProduct struct {
	ProductName  string `json:"product_name"`
	TotalOrdered int    `json:"total_ordered"`
	CurrentStock int    `json:"current_stock"`
}

// Risk alert types
const (
	AlertOutOfStock    = "Out of Stock"
	AlertCriticalStock = "Critical Stock"
)

type RiskAlert struct {
	Type        string `json:"type"`
	ProductName string `json:"product_name"`
	Message     string `json:"message"`
}

type OptimizationTip struct {
	Tip    string `json:"tip"`
	Impact string `json:"impact"`
}
