// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/dilutionwise/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for delivery log operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateDelivery persists a delivery record.
	// The ID and CreatedAt fields are populated by the store when empty.
	CreateDelivery(ctx context.Context, d *models.Delivery) error

	// GetDelivery retrieves a delivery by ID, or ErrNotFound.
	GetDelivery(ctx context.Context, id string) (*models.Delivery, error)

	// ListDeliveries returns the most recent deliveries, newest first.
	// A limit <= 0 returns every record.
	ListDeliveries(ctx context.Context, limit int) ([]*models.Delivery, error)

	// DeleteDeliveriesBefore removes deliveries created before cutoff and
	// reports how many were deleted.
	DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
