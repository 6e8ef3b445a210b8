package devserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"inventory-console/config"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler serves the full backend interface the console speaks, backed by
// the local Store. It exists so the console and the test suite run without
// the hosted backend.
type Handler struct {
	store  *Store
	cfg    *config.Config
	logger *zap.Logger

	mu     sync.Mutex
	tokens map[string]struct{}
}

// NewHandler creates the stub backend handler.
func NewHandler(store *Store, cfg *config.Config) *Handler {
	return &Handler{
		store:  store,
		cfg:    cfg,
		logger: util.GetLogger(),
		tokens: make(map[string]struct{}),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.POST("/login", h.login)

	guarded := api.Group("")
	if h.cfg.Server.AuthRequired {
		guarded.Use(h.requireToken())
	}

	guarded.GET("/products", h.listProducts)
	guarded.POST("/products", h.createProduct)
	guarded.PUT("/products/:id", h.updateProduct)
	guarded.DELETE("/products/:id", h.deleteProduct)

	guarded.GET("/orders", h.listOrders)
	guarded.POST("/orders", h.createOrder)
	guarded.DELETE("/orders/:id", h.deleteOrder)

	guarded.GET("/customers", h.listCustomers)
	guarded.POST("/customers", h.createCustomer)
	guarded.PUT("/customers/:id", h.updateCustomer)
	guarded.DELETE("/customers/:id", h.deleteCustomer)

	guarded.GET("/suppliers", h.listSuppliers)
	guarded.POST("/suppliers", h.createSupplier)
	guarded.PUT("/suppliers/:id", h.updateSupplier)
	guarded.DELETE("/suppliers/:id", h.deleteSupplier)

	guarded.GET("/dashboard", h.dashboard)
	guarded.GET("/dashboard/low-stock", h.lowStock)
	guarded.GET("/ai-insights", h.insights)
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// login checks the configured admin credentials and issues a bearer token.
func (h *Handler) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Username and password are required"})
		return
	}

	if creds.Username != h.cfg.Auth.AdminUsername || creds.Password != h.cfg.Auth.AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid username or password"})
		return
	}

	token := uuid.New().String()
	h.mu.Lock()
	h.tokens[token] = struct{}{}
	h.mu.Unlock()

	c.JSON(http.StatusOK, models.LoginResult{
		Success: true,
		Message: "Login successful",
		Token:   token,
	})
}

// requireToken rejects requests whose bearer token was not issued by login.
func (h *Handler) requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		h.mu.Lock()
		_, ok := h.tokens[token]
		h.mu.Unlock()
		if header == "" || token == header || !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

// RevokeTokens forgets every issued token. Used by tests to force 401s.
func (h *Handler) RevokeTokens() {
	h.mu.Lock()
	h.tokens = make(map[string]struct{})
	h.mu.Unlock()
}

// --- products ---

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) createProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}
	product, err := h.store.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.serverError(c, "Failed to create product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}
	product, err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to update product", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	err := h.store.DeleteProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to delete product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// --- orders ---

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.store.ListOrders(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) createOrder(c *gin.Context) {
	var in models.OrderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order data"})
		return
	}
	order, err := h.store.CreateOrder(c.Request.Context(), in)
	if errors.Is(err, ErrInsufficientStock) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient stock available"})
		return
	}
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product or customer not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to create order", err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) deleteOrder(c *gin.Context) {
	err := h.store.DeleteOrder(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to delete order", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}

// --- customers ---

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.store.ListCustomers(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load customers", err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) createCustomer(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer data"})
		return
	}
	customer, err := h.store.CreateCustomer(c.Request.Context(), in)
	if err != nil {
		h.serverError(c, "Failed to create customer", err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer data"})
		return
	}
	customer, err := h.store.UpdateCustomer(c.Request.Context(), c.Param("id"), in)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to update customer", err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	err := h.store.DeleteCustomer(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to delete customer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}

// --- suppliers ---

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.store.ListSuppliers(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load suppliers", err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) createSupplier(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier data"})
		return
	}
	supplier, err := h.store.CreateSupplier(c.Request.Context(), in)
	if err != nil {
		h.serverError(c, "Failed to create supplier", err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) updateSupplier(c *gin.Context) {
	var in models.ContactInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier data"})
		return
	}
	supplier, err := h.store.UpdateSupplier(c.Request.Context(), c.Param("id"), in)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to update supplier", err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	err := h.store.DeleteSupplier(c.Request.Context(), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	if err != nil {
		h.serverError(c, "Failed to delete supplier", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted"})
}

// --- dashboard and insights ---

func (h *Handler) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	total, lowStock, err := h.store.CountProducts(ctx)
	if err != nil {
		h.serverError(c, "Failed to load dashboard", err)
		return
	}
	recent, err := h.store.RecentOrders(ctx, 5)
	if err != nil {
		h.serverError(c, "Failed to load dashboard", err)
		return
	}
	c.JSON(http.StatusOK, models.DashboardSummary{
		TotalProducts: total,
		LowStockCount: lowStock,
		RecentOrders:  recent,
	})
}

func (h *Handler) lowStock(c *gin.Context) {
	products, err := h.store.LowStockProducts(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to load low stock products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) insights(c *gin.Context) {
	insights, err := h.computeInsights(c.Request.Context())
	if err != nil {
		h.serverError(c, "Failed to compute insights", err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

func (h *Handler) serverError(c *gin.Context, message string, err error) {
	h.logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
