package screen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-console/config"
	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{}
	cfg.API.Override = srv.URL
	return apiclient.New(cfg, nil)
}

func customerConfig() EntityConfig[models.ContactInput] {
	return EntityConfig[models.ContactInput]{
		Name:     "customer",
		Path:     "/api/customers",
		Validate: validateContact,
	}
}

func preloadCustomers(s *store.ListStore[models.Customer]) []models.Customer {
	seed := []models.Customer{
		{ID: "c1", Name: "Acme", Contact: "a@example.com", Address: "1 Main"},
		{ID: "c2", Name: "Bright", Contact: "b@example.com", Address: "2 Main"},
		{ID: "c3", Name: "Corve", Contact: "c@example.com", Address: "3 Main"},
	}
	for _, c := range seed {
		s.Append(c)
	}
	return seed
}

func TestCreateAppendsConfirmedEntity(t *testing.T) {
	returned := models.Customer{ID: "c9", Name: "New Co", Contact: "n@example.com"}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var in models.ContactInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "New Co", in.Name)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(returned)
	})

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	before := preloadCustomers(st)
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	created, err := coord.Create(context.Background(), models.ContactInput{Name: "New Co"})
	require.NoError(t, err)

	// The collection grows by exactly one and the new element is the
	// server's payload, not the submitted form.
	assert.Equal(t, returned, created)
	items := st.Items()
	require.Len(t, items, len(before)+1)
	assert.Equal(t, returned, items[len(items)-1])
	assert.Equal(t, before, items[:len(before)])
}

func TestCreateFailureLeavesCollectionUntouched(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"boom"}`))
		},
	}

	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, handler)
			st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
			before := preloadCustomers(st)
			coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

			_, err := coord.Create(context.Background(), models.ContactInput{Name: "New Co"})

			require.Error(t, err)
			assert.Equal(t, before, st.Items())
		})
	}
}

func TestCreateTransportFailureLeavesCollectionUntouched(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // simulate an unreachable backend

	cfg := &config.Config{}
	cfg.API.Override = srv.URL
	client := apiclient.New(cfg, nil)

	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	before := preloadCustomers(st)
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	_, err := coord.Create(context.Background(), models.ContactInput{Name: "New Co"})

	require.Error(t, err)
	assert.True(t, apiclient.IsTransport(err))
	assert.Equal(t, before, st.Items())
}

func TestUpdateReplacesOnlyTheMatch(t *testing.T) {
	updated := models.Customer{ID: "c2", Name: "Bright Retail", Contact: "new@example.com", Address: "2 Main"}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/customers/c2", r.URL.Path)
		json.NewEncoder(w).Encode(updated)
	})

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	before := preloadCustomers(st)
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	got, err := coord.Update(context.Background(), "c2", models.ContactInput{Name: "Bright Retail"})
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	items := st.Items()
	require.Len(t, items, len(before))
	assert.Equal(t, before[0], items[0])
	assert.Equal(t, updated, items[1]) // position preserved
	assert.Equal(t, before[2], items[2])
}

func TestDeleteRemovesExactlyTheMatch(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/customers/c2", r.URL.Path)
		w.Write([]byte(`{"message":"deleted"}`))
	})

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	before := preloadCustomers(st)
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	removed, err := coord.Delete(context.Background(), "c2")
	require.NoError(t, err)
	assert.Equal(t, "c2", removed.EntityID())

	items := st.Items()
	require.Len(t, items, len(before)-1)
	assert.Equal(t, before[0], items[0])
	assert.Equal(t, before[2], items[1])
}

func TestDeleteFailureLeavesCollectionUntouched(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Customer not found"}`))
	})

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	before := preloadCustomers(st)
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	_, err := coord.Delete(context.Background(), "c2")

	require.Error(t, err)
	assert.Equal(t, before, st.Items())
}

func TestValidationFailureNeverReachesNetwork(t *testing.T) {
	hits := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { hits++ })

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	_, err := coord.Create(context.Background(), models.ContactInput{Name: "   "})

	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, 0, hits)
	assert.Empty(t, st.Items())
}

func TestSubmissionGuardRejectsConcurrentMutation(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		json.NewEncoder(w).Encode(models.Customer{ID: "c9", Name: "Slow"})
	})

	client := newTestClient(t, handler)
	st := store.NewListStore[models.Customer](client, "customer", "/api/customers")
	coord := NewCoordinator[models.ContactInput, models.Customer](client, st, customerConfig())

	done := make(chan error, 1)
	go func() {
		_, err := coord.Create(context.Background(), models.ContactInput{Name: "Slow"})
		done <- err
	}()

	select {
	case <-arrived:
	case <-time.After(2 * time.Second):
		t.Fatal("first submission never reached the server")
	}

	_, err := coord.Create(context.Background(), models.ContactInput{Name: "Fast"})
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, st.Len())
}
