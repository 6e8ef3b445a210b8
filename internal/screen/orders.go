package screen

import (
	"context"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/notify"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// OrderScreen holds three sibling collections: orders plus the product and
// customer lists that populate the order form. Order creation propagates a
// derived stock adjustment into the product cache; order deletion
// deliberately does not. The removed order already represents stock handed
// to a customer, and restoring it would create phantom inventory.
type OrderScreen struct {
	Orders    *store.ListStore[models.Order]
	Products  *store.ListStore[models.Product]
	Customers *store.ListStore[models.Customer]
	coord     *Coordinator[models.OrderInput, models.Order]
	notifier  *notify.Notifier
	logger    *zap.Logger
}

// NewOrderScreen builds the orders screen.
func NewOrderScreen(client *apiclient.Client, notifier *notify.Notifier) *OrderScreen {
	s := &OrderScreen{
		Orders:    store.NewListStore[models.Order](client, "order", "/api/orders"),
		Products:  store.NewListStore[models.Product](client, "product", "/api/products"),
		Customers: store.NewListStore[models.Customer](client, "customer", "/api/customers"),
		notifier:  notifier,
		logger:    util.GetLogger(),
	}
	s.coord = NewCoordinator[models.OrderInput, models.Order](client, s.Orders,
		EntityConfig[models.OrderInput]{
			Name:            "order",
			Path:            "/api/orders",
			PrependOnCreate: true, // newest order first
			Validate:        s.validateOrder,
		})
	return s
}

// Mount loads orders, products, and customers concurrently. Any failure
// surfaces a single "Error loading data" and leaves the failed collections
// empty; the screen stays renderable.
func (s *OrderScreen) Mount(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.Orders.Load(ctx) })
	g.Go(func() error { return s.Products.Load(ctx) })
	g.Go(func() error { return s.Customers.Load(ctx) })

	if err := g.Wait(); err != nil {
		s.notifier.Set("Error loading data")
		return err
	}
	return nil
}

// Unmount discards all three caches.
func (s *OrderScreen) Unmount() {
	s.Orders.Close()
	s.Products.Close()
	s.Customers.Close()
}

// Create submits a new order. On confirmation the order is prepended and the
// referenced product's cached quantity is decremented by the ordered amount,
// without re-fetching products. An unmatched product id is a silent no-op.
func (s *OrderScreen) Create(ctx context.Context, in models.OrderInput) (models.Order, error) {
	created, err := s.coord.Create(ctx, in)
	if err != nil {
		if msg := serverMessage(err); msg != "" {
			s.notifier.Set(msg)
		} else {
			s.notifier.Set("Error creating order")
		}
		return created, err
	}

	if s.Products.Adjust(in.ProductID, func(p *models.Product) {
		p.Quantity -= in.Quantity
	}) {
		util.StockAdjustmentsTotal.Inc()
	}

	s.notifier.Set("Order created successfully")
	return created, nil
}

// Delete removes an order. Product quantities are left alone on purpose:
// the goods already left the building.
func (s *OrderScreen) Delete(ctx context.Context, id string) error {
	removed, err := s.coord.Delete(ctx, id)
	if err != nil {
		s.notifier.Set("Error deleting order")
		return err
	}

	s.logger.Info("Order deleted, stock not restored",
		zap.String("order_id", id),
		zap.String("product_id", removed.ProductID),
		zap.Int("quantity", removed.Quantity))
	s.notifier.Set("Order deleted successfully")
	return nil
}

// Notifier exposes the screen's transient message slot for rendering.
func (s *OrderScreen) Notifier() *notify.Notifier {
	return s.notifier
}

// validateOrder checks the form against the cached product list: a product
// and customer must be selected and the quantity must be a positive integer
// within the product's current stock.
func (s *OrderScreen) validateOrder(in models.OrderInput) error {
	if in.ProductID == "" {
		return &ValidationError{Message: "a product must be selected"}
	}
	if in.CustomerID == "" {
		return &ValidationError{Message: "a customer must be selected"}
	}
	if in.Quantity < 1 {
		return &ValidationError{Message: "quantity must be a positive integer"}
	}
	product, ok := s.Products.Find(in.ProductID)
	if !ok {
		return &ValidationError{Message: "unknown product"}
	}
	if in.Quantity > product.Quantity {
		return &ValidationError{Message: "quantity exceeds available stock"}
	}
	return nil
}
