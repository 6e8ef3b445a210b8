package screen

import (
	"context"
	"errors"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/notify"
	"inventory-console/internal/store"
)

// Messages are the notification strings a CRUD screen emits. Classification
// keys off the word "Error", so the phrasing matters.
type Messages struct {
	LoadError     string
	Added         string
	Updated       string
	Deleted       string
	SaveError     string
	DeleteError   string
	UseServerMsg  bool // surface the backend's own error text when present
	GenericCreate string
}

// CRUDScreen is one list screen: a store, a coordinator, and a notifier,
// configured per entity. Products, customers, and suppliers are all
// instances of this; orders add cross-store side effects on top.
type CRUDScreen[Req any, T models.Entity] struct {
	Store    *store.ListStore[T]
	coord    *Coordinator[Req, T]
	notifier *notify.Notifier
	msgs     Messages
}

// NewCRUDScreen assembles a screen from an entity configuration.
func NewCRUDScreen[Req any, T models.Entity](
	client *apiclient.Client,
	notifier *notify.Notifier,
	cfg EntityConfig[Req],
	msgs Messages,
) *CRUDScreen[Req, T] {
	st := store.NewListStore[T](client, cfg.Name, cfg.Path)
	return &CRUDScreen[Req, T]{
		Store:    st,
		coord:    NewCoordinator[Req, T](client, st, cfg),
		notifier: notifier,
		msgs:     msgs,
	}
}

// Mount loads the collection. A failed load surfaces the screen's load-error
// message and leaves the collection empty; the screen still renders.
func (s *CRUDScreen[Req, T]) Mount(ctx context.Context) error {
	if err := s.Store.Load(ctx); err != nil {
		s.notifier.Set(s.msgs.LoadError)
		return err
	}
	return nil
}

// Unmount discards the cache; late responses become no-ops.
func (s *CRUDScreen[Req, T]) Unmount() {
	s.Store.Close()
}

// Add creates an entity and reconciles the collection from the response.
func (s *CRUDScreen[Req, T]) Add(ctx context.Context, req Req) (T, error) {
	created, err := s.coord.Create(ctx, req)
	if err != nil {
		s.notifier.Set(s.saveErrorMessage(err))
		return created, err
	}
	s.notifier.Set(s.msgs.Added)
	return created, nil
}

// Edit updates the entity with the given id in place.
func (s *CRUDScreen[Req, T]) Edit(ctx context.Context, id string, req Req) (T, error) {
	updated, err := s.coord.Update(ctx, id, req)
	if err != nil {
		s.notifier.Set(s.msgs.SaveError)
		return updated, err
	}
	s.notifier.Set(s.msgs.Updated)
	return updated, nil
}

// Delete removes the entity with the given id.
func (s *CRUDScreen[Req, T]) Delete(ctx context.Context, id string) (T, error) {
	removed, err := s.coord.Delete(ctx, id)
	if err != nil {
		s.notifier.Set(s.msgs.DeleteError)
		return removed, err
	}
	s.notifier.Set(s.msgs.Deleted)
	return removed, nil
}

// Notifier exposes the screen's transient message slot for rendering.
func (s *CRUDScreen[Req, T]) Notifier() *notify.Notifier {
	return s.notifier
}

func (s *CRUDScreen[Req, T]) saveErrorMessage(err error) string {
	if s.msgs.UseServerMsg {
		if se := serverMessage(err); se != "" {
			return se
		}
		if s.msgs.GenericCreate != "" {
			return s.msgs.GenericCreate
		}
	}
	return s.msgs.SaveError
}

// serverMessage extracts the backend's own error text, if any.
func serverMessage(err error) string {
	var se *apiclient.ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return ""
}
