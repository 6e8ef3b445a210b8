package screen

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// ErrSubmissionInFlight is returned when a mutation is attempted while a
// previous one on the same coordinator has not resolved. Every entity gets
// this guard, mirroring the submit-button lock on the orders screen.
var ErrSubmissionInFlight = errors.New("a submission is already in flight")

// ValidationError is a local check that failed before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err was caught before reaching the network.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// EntityConfig parametrizes the one CRUD reconciliation pattern per entity:
// endpoint path, insertion side, and local validation.
type EntityConfig[Req any] struct {
	Name            string // singular, lower case, for logs and metrics
	Path            string // collection path, e.g. "/api/products"
	PrependOnCreate bool   // orders render newest-first
	Validate        func(Req) error
}

// Coordinator applies the mutation pattern shared by every screen: validate
// locally, submit, then reconcile the local collection from the confirmed
// server response (or the known id for deletes). The collection is never
// touched speculatively, and a failed call leaves it exactly as it was.
// There is no automatic retry and no re-fetch after a mutation.
type Coordinator[Req any, T models.Entity] struct {
	cfg      EntityConfig[Req]
	client   *apiclient.Client
	store    *store.ListStore[T]
	inflight atomic.Bool
	logger   *zap.Logger
}

// NewCoordinator wires a coordinator to one entity's store and endpoint.
func NewCoordinator[Req any, T models.Entity](
	client *apiclient.Client,
	st *store.ListStore[T],
	cfg EntityConfig[Req],
) *Coordinator[Req, T] {
	return &Coordinator[Req, T]{
		cfg:    cfg,
		client: client,
		store:  st,
		logger: util.GetLogger(),
	}
}

// Create submits req and, on success, inserts the server-returned entity.
func (c *Coordinator[Req, T]) Create(ctx context.Context, req Req) (T, error) {
	var zero T
	if !c.inflight.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer c.inflight.Store(false)

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(req); err != nil {
			util.MutationsTotal.WithLabelValues(c.cfg.Name, "create", "invalid").Inc()
			return zero, err
		}
	}

	var created T
	if err := c.client.Post(ctx, c.cfg.Path, req, &created); err != nil {
		util.MutationsTotal.WithLabelValues(c.cfg.Name, "create", "error").Inc()
		return zero, fmt.Errorf("failed to create %s: %w", c.cfg.Name, err)
	}

	if c.cfg.PrependOnCreate {
		c.store.Prepend(created)
	} else {
		c.store.Append(created)
	}

	util.MutationsTotal.WithLabelValues(c.cfg.Name, "create", "success").Inc()
	c.logger.Info("Entity created",
		zap.String("entity", c.cfg.Name),
		zap.String("id", created.EntityID()))
	return created, nil
}

// Update submits req for id and, on success, swaps the matching element for
// the server-returned entity, keeping its position.
func (c *Coordinator[Req, T]) Update(ctx context.Context, id string, req Req) (T, error) {
	var zero T
	if !c.inflight.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer c.inflight.Store(false)

	if c.cfg.Validate != nil {
		if err := c.cfg.Validate(req); err != nil {
			util.MutationsTotal.WithLabelValues(c.cfg.Name, "update", "invalid").Inc()
			return zero, err
		}
	}

	var updated T
	if err := c.client.Put(ctx, c.cfg.Path+"/"+id, req, &updated); err != nil {
		util.MutationsTotal.WithLabelValues(c.cfg.Name, "update", "error").Inc()
		return zero, fmt.Errorf("failed to update %s %s: %w", c.cfg.Name, id, err)
	}

	if !c.store.Replace(id, updated) {
		// The row vanished locally while the call was in flight. The cache
		// stays as-is until the next full reload.
		c.logger.Warn("Updated entity not found in local collection",
			zap.String("entity", c.cfg.Name),
			zap.String("id", id))
	}

	util.MutationsTotal.WithLabelValues(c.cfg.Name, "update", "success").Inc()
	return updated, nil
}

// Delete removes id remotely and, on success, drops the matching element.
// The removed element is returned so callers can inspect what went away.
func (c *Coordinator[Req, T]) Delete(ctx context.Context, id string) (T, error) {
	var zero T
	if !c.inflight.CompareAndSwap(false, true) {
		return zero, ErrSubmissionInFlight
	}
	defer c.inflight.Store(false)

	if err := c.client.Delete(ctx, c.cfg.Path+"/"+id); err != nil {
		util.MutationsTotal.WithLabelValues(c.cfg.Name, "delete", "error").Inc()
		return zero, fmt.Errorf("failed to delete %s %s: %w", c.cfg.Name, id, err)
	}

	removed, ok := c.store.Remove(id)
	if !ok {
		c.logger.Warn("Deleted entity not found in local collection",
			zap.String("entity", c.cfg.Name),
			zap.String("id", id))
	}

	util.MutationsTotal.WithLabelValues(c.cfg.Name, "delete", "success").Inc()
	return removed, nil
}
