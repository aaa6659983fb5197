package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmynk/dilutionwise/internal/models"
	"github.com/mmynk/dilutionwise/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "dilutionwise-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("CreateDelivery generates ID and timestamp", func(t *testing.T) {
		d := &models.Delivery{
			Recipient: "alice@example.com",
			Subject:   "Equity Dilution Calculation Results",
			Status:    models.DeliverySent,
			Notifier:  "log",
		}

		if err := store.CreateDelivery(ctx, d); err != nil {
			t.Fatalf("CreateDelivery failed: %v", err)
		}
		if d.ID == "" {
			t.Error("Expected delivery ID to be generated")
		}
		if d.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetDelivery round trips failed deliveries", func(t *testing.T) {
		original := &models.Delivery{
			Recipient: "bob@example.com",
			Subject:   "Round A",
			Status:    models.DeliveryFailed,
			Error:     "dial tcp: connection refused",
			Notifier:  "smtp",
		}
		if err := store.CreateDelivery(ctx, original); err != nil {
			t.Fatalf("CreateDelivery failed: %v", err)
		}

		got, err := store.GetDelivery(ctx, original.ID)
		if err != nil {
			t.Fatalf("GetDelivery failed: %v", err)
		}
		if *got != *original {
			t.Errorf("GetDelivery = %+v, want %+v", got, original)
		}
	})

	t.Run("GetDelivery unknown ID", func(t *testing.T) {
		_, err := store.GetDelivery(ctx, "does-not-exist")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("CreateDelivery rejects unknown status", func(t *testing.T) {
		err := store.CreateDelivery(ctx, &models.Delivery{
			Recipient: "carol@example.com",
			Subject:   "x",
			Status:    "queued",
			Notifier:  "log",
		})
		if err == nil {
			t.Error("expected constraint violation for unknown status")
		}
	})
}

func TestSQLiteStore_ListAndPrune(t *testing.T) {
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	now := time.Now()

	ages := []time.Duration{72 * time.Hour, 48 * time.Hour, time.Hour, 0}
	for i, age := range ages {
		d := &models.Delivery{
			Recipient: "user@example.com",
			Subject:   string(rune('A' + i)),
			Status:    models.DeliverySent,
			Notifier:  "log",
			CreatedAt: now.Add(-age).Unix(),
		}
		if err := store.CreateDelivery(ctx, d); err != nil {
			t.Fatalf("CreateDelivery failed: %v", err)
		}
	}

	all, err := store.ListDeliveries(ctx, 0)
	if err != nil {
		t.Fatalf("ListDeliveries failed: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 deliveries, got %d", len(all))
	}
	if all[0].Subject != "D" || all[3].Subject != "A" {
		t.Errorf("expected newest first, got %s..%s", all[0].Subject, all[3].Subject)
	}

	limited, err := store.ListDeliveries(ctx, 2)
	if err != nil {
		t.Fatalf("ListDeliveries failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 deliveries, got %d", len(limited))
	}

	deleted, err := store.DeleteDeliveriesBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteDeliveriesBefore failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}

	remaining, _ := store.ListDeliveries(ctx, 0)
	if len(remaining) != 2 {
		t.Errorf("expected 2 remaining, got %d", len(remaining))
	}
}
