package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"inventory-console/internal/models"
	"inventory-console/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductScreenLifecycleMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(models.Product{ID: "p1", Name: "Widget", Quantity: 10, Price: 5, ReorderThreshold: 3})
		default:
			json.NewEncoder(w).Encode([]models.Product{})
		}
	})
	mux.HandleFunc("/api/products/p1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			json.NewEncoder(w).Encode(models.Product{ID: "p1", Name: "Widget v2", Quantity: 8, Price: 5, ReorderThreshold: 3})
		case http.MethodDelete:
			w.Write([]byte(`{"message":"Product deleted"}`))
		}
	})

	client := newTestClient(t, mux)
	s := NewProductScreen(client, testNotifier())
	require.NoError(t, s.Mount(context.Background()))

	_, err := s.Add(context.Background(), models.ProductInput{Name: "Widget", Quantity: 10, Price: 5, ReorderThreshold: 3})
	require.NoError(t, err)
	msg, _, _ := s.Notifier().Message()
	assert.Equal(t, "Product added successfully", msg)
	assert.Equal(t, 1, s.Store.Len())

	_, err = s.Edit(context.Background(), "p1", models.ProductInput{Name: "Widget v2", Quantity: 8, Price: 5, ReorderThreshold: 3})
	require.NoError(t, err)
	msg, _, _ = s.Notifier().Message()
	assert.Equal(t, "Product updated successfully", msg)

	got, ok := s.Store.Find("p1")
	require.True(t, ok)
	assert.Equal(t, "Widget v2", got.Name)

	_, err = s.Delete(context.Background(), "p1")
	require.NoError(t, err)
	msg, _, _ = s.Notifier().Message()
	assert.Equal(t, "Product deleted successfully", msg)
	assert.Equal(t, 0, s.Store.Len())
}

func TestProductScreenMountFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	})

	client := newTestClient(t, mux)
	s := NewProductScreen(client, testNotifier())

	err := s.Mount(context.Background())
	require.Error(t, err)

	msg, level, ok := s.Notifier().Message()
	require.True(t, ok)
	assert.Equal(t, "Error loading products", msg)
	assert.Equal(t, notify.LevelDanger, level)
	assert.Empty(t, s.Store.Items())
}

func TestCustomerScreenSaveErrorMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/customers", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
			return
		}
		json.NewEncoder(w).Encode([]models.Customer{})
	})

	client := newTestClient(t, mux)
	s := NewCustomerScreen(client, testNotifier())
	require.NoError(t, s.Mount(context.Background()))

	_, err := s.Add(context.Background(), models.ContactInput{Name: "Acme"})
	require.Error(t, err)

	msg, level, _ := s.Notifier().Message()
	assert.Equal(t, "Error saving customer", msg)
	assert.Equal(t, notify.LevelDanger, level)
	assert.Equal(t, 0, s.Store.Len())
}

func TestLowStockFlag(t *testing.T) {
	assert.True(t, models.Product{Quantity: 2, ReorderThreshold: 3}.LowStock())
	assert.False(t, models.Product{Quantity: 3, ReorderThreshold: 3}.LowStock())
	assert.False(t, models.Product{Quantity: 10, ReorderThreshold: 3}.LowStock())
}
