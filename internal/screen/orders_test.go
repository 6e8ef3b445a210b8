package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"inventory-console/internal/models"
	"inventory-console/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotifier() *notify.Notifier {
	return notify.NewWithTTL(time.Minute, time.Minute)
}

// ordersBackend is a minimal fake for the three collections the orders
// screen mounts plus order mutations.
type ordersBackend struct {
	mux       *http.ServeMux
	orders    []models.Order
	products  []models.Product
	customers []models.Customer

	createStatus int
	createBody   string
	created      models.Order
	deleteStatus int
	orderPosts   int
}

func newOrdersBackend() *ordersBackend {
	b := &ordersBackend{
		mux: http.NewServeMux(),
		products: []models.Product{
			{ID: "1", Name: "Widget", Quantity: 10, Price: 5.00, ReorderThreshold: 3},
			{ID: "2", Name: "Gadget", Quantity: 7, Price: 12.00, ReorderThreshold: 2},
		},
		customers: []models.Customer{{ID: "c1", Name: "Acme"}},
		orders:    []models.Order{},
	}
	b.mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.products)
	})
	b.mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(b.customers)
	})
	b.mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b.orderPosts++
			if b.createStatus != 0 {
				w.WriteHeader(b.createStatus)
				w.Write([]byte(b.createBody))
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(b.created)
			return
		}
		json.NewEncoder(w).Encode(b.orders)
	})
	b.mux.HandleFunc("/api/orders/", func(w http.ResponseWriter, r *http.Request) {
		if b.deleteStatus != 0 {
			w.WriteHeader(b.deleteStatus)
			w.Write([]byte(`{"error":"Order not found"}`))
			return
		}
		w.Write([]byte(`{"message":"Order deleted"}`))
	})
	return b
}

func mountedOrderScreen(t *testing.T, b *ordersBackend) *OrderScreen {
	t.Helper()
	client := newTestClient(t, b.mux)
	s := NewOrderScreen(client, testNotifier())
	require.NoError(t, s.Mount(context.Background()))
	return s
}

func TestMountLoadsThreeCollections(t *testing.T) {
	b := newOrdersBackend()
	b.orders = []models.Order{{ID: "o0", ProductID: "2", Quantity: 1, TotalAmount: 12.00}}

	s := mountedOrderScreen(t, b)

	assert.Equal(t, 1, s.Orders.Len())
	assert.Equal(t, 2, s.Products.Len())
	assert.Equal(t, 1, s.Customers.Len())
}

func TestCreateOrderDecrementsSiblingProductCache(t *testing.T) {
	b := newOrdersBackend()
	b.created = models.Order{
		ID:          "o1",
		ProductID:   "1",
		CustomerID:  "c1",
		ProductName: "Widget",
		Quantity:    4,
		TotalAmount: 20.00,
		CreatedAt:   time.Now().UTC(),
	}
	s := mountedOrderScreen(t, b)

	created, err := s.Create(context.Background(), models.OrderInput{
		ProductID: "1", CustomerID: "c1", Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 20.00, created.TotalAmount)

	// Order prepended.
	require.Equal(t, 1, s.Orders.Len())
	assert.Equal(t, "o1", s.Orders.Items()[0].ID)

	// Referenced product decremented locally, without a refetch.
	widget, _ := s.Products.Find("1")
	assert.Equal(t, 6, widget.Quantity)

	// Any other product is untouched.
	gadget, _ := s.Products.Find("2")
	assert.Equal(t, 7, gadget.Quantity)

	msg, level, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Order created successfully", msg)
	assert.Equal(t, notify.LevelSuccess, level)
}

func TestDeleteOrderDoesNotRestoreStock(t *testing.T) {
	b := newOrdersBackend()
	b.created = models.Order{ID: "o1", ProductID: "1", CustomerID: "c1", Quantity: 4, TotalAmount: 20.00}
	s := mountedOrderScreen(t, b)

	_, err := s.Create(context.Background(), models.OrderInput{ProductID: "1", CustomerID: "c1", Quantity: 4})
	require.NoError(t, err)
	widget, _ := s.Products.Find("1")
	require.Equal(t, 6, widget.Quantity)

	require.NoError(t, s.Delete(context.Background(), "o1"))

	// The order is gone but the goods already left the building: the
	// cached quantity stays at 6, not back at 10.
	assert.Equal(t, 0, s.Orders.Len())
	widget, _ = s.Products.Find("1")
	assert.Equal(t, 6, widget.Quantity)
	gadget, _ := s.Products.Find("2")
	assert.Equal(t, 7, gadget.Quantity)

	msg, _, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Order deleted successfully", msg)
}

func TestCreateOrderValidatesAgainstProductCache(t *testing.T) {
	b := newOrdersBackend()
	s := mountedOrderScreen(t, b)

	cases := []struct {
		name  string
		input models.OrderInput
	}{
		{"no product selected", models.OrderInput{CustomerID: "c1", Quantity: 1}},
		{"no customer selected", models.OrderInput{ProductID: "1", Quantity: 1}},
		{"zero quantity", models.OrderInput{ProductID: "1", CustomerID: "c1", Quantity: 0}},
		{"negative quantity", models.OrderInput{ProductID: "1", CustomerID: "c1", Quantity: -2}},
		{"exceeds cached stock", models.OrderInput{ProductID: "1", CustomerID: "c1", Quantity: 11}},
		{"unknown product", models.OrderInput{ProductID: "nope", CustomerID: "c1", Quantity: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.Create(context.Background(), tc.input)
			require.Error(t, err)
			assert.True(t, IsValidation(err))
		})
	}

	// None of the invalid submissions may have reached the network or
	// touched the caches.
	assert.Equal(t, 0, b.orderPosts)
	assert.Equal(t, 0, s.Orders.Len())
	widget, _ := s.Products.Find("1")
	assert.Equal(t, 10, widget.Quantity)
}

func TestCreateOrderFailureSurfacesServerMessage(t *testing.T) {
	b := newOrdersBackend()
	b.createStatus = http.StatusBadRequest
	b.createBody = `{"error":"Insufficient stock available"}`
	s := mountedOrderScreen(t, b)

	productsBefore := s.Products.Items()

	_, err := s.Create(context.Background(), models.OrderInput{ProductID: "1", CustomerID: "c1", Quantity: 4})
	require.Error(t, err)

	assert.Equal(t, 0, s.Orders.Len())
	assert.Equal(t, productsBefore, s.Products.Items())

	msg, level, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Insufficient stock available", msg)
	// The backend's own text carries no "Error" substring, yet the screen
	// still renders it; classification stays substring-based on purpose.
	assert.Equal(t, notify.LevelSuccess, level)
}

func TestDeleteOrderFailureLeavesEverythingAlone(t *testing.T) {
	b := newOrdersBackend()
	b.orders = []models.Order{{ID: "o1", ProductID: "1", Quantity: 4, TotalAmount: 20.00}}
	b.deleteStatus = http.StatusNotFound
	s := mountedOrderScreen(t, b)

	ordersBefore := s.Orders.Items()

	err := s.Delete(context.Background(), "o1")
	require.Error(t, err)
	assert.Equal(t, ordersBefore, s.Orders.Items())

	msg, _, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Error deleting order", msg)
}

func TestMountFailureSetsLoadErrorMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Product{})
	})
	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Customer{})
	})
	mux.HandleFunc("/api/orders", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})

	client := newTestClient(t, mux)
	s := NewOrderScreen(client, testNotifier())

	err := s.Mount(context.Background())
	require.Error(t, err)

	msg, level, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Error loading data", msg)
	assert.Equal(t, notify.LevelDanger, level)
	assert.Equal(t, 0, s.Orders.Len())
}

func TestUnmountDiscardsAllCaches(t *testing.T) {
	b := newOrdersBackend()
	s := mountedOrderScreen(t, b)
	require.Equal(t, 2, s.Products.Len())

	s.Unmount()

	assert.Equal(t, 0, s.Orders.Len())
	assert.Equal(t, 0, s.Products.Len())
	assert.Equal(t, 0, s.Customers.Len())
}
