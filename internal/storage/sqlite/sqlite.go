// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/dilutionwise/internal/models"
	"github.com/mmynk/dilutionwise/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; serialise through one connection.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateDelivery persists a delivery record.
func (s *SQLiteStore) CreateDelivery(ctx context.Context, d *models.Delivery) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.CreatedAt == 0 {
		d.CreatedAt = time.Now().Unix()
	}

	var errMsg interface{} = nil
	if d.Error != "" {
		errMsg = d.Error
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO deliveries (id, recipient, subject, status, error, notifier, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Recipient, d.Subject, string(d.Status), errMsg, d.Notifier, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert delivery: %w", err)
	}

	return nil
}

// GetDelivery retrieves a delivery by ID.
func (s *SQLiteStore) GetDelivery(ctx context.Context, id string) (*models.Delivery, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, recipient, subject, status, error, notifier, created_at
		 FROM deliveries WHERE id = ?`,
		id,
	)

	d, err := scanDelivery(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delivery %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}

	return d, nil
}

// ListDeliveries returns the most recent deliveries, newest first.
func (s *SQLiteStore) ListDeliveries(ctx context.Context, limit int) ([]*models.Delivery, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, recipient, subject, status, error, notifier, created_at
		 FROM deliveries ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	defer rows.Close()

	var deliveries []*models.Delivery
	for rows.Next() {
		d, err := scanDelivery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate deliveries: %w", err)
	}

	return deliveries, nil
}

// DeleteDeliveriesBefore removes deliveries older than cutoff.
func (s *SQLiteStore) DeleteDeliveriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM deliveries WHERE created_at < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete deliveries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted deliveries: %w", err)
	}

	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDelivery(sc scanner) (*models.Delivery, error) {
	d := &models.Delivery{}
	var status string
	var errMsg sql.NullString

	if err := sc.Scan(&d.ID, &d.Recipient, &d.Subject, &status, &errMsg, &d.Notifier, &d.CreatedAt); err != nil {
		return nil, err
	}

	d.Status = models.DeliveryStatus(status)
	if errMsg.Valid {
		d.Error = errMsg.String
	}

	return d, nil
}
