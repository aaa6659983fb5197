package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/dilutionwise/internal/models"
	"github.com/mmynk/dilutionwise/internal/storage"
	"github.com/mmynk/dilutionwise/pkg/api"
	"github.com/mmynk/dilutionwise/pkg/api/apiconnect"
)

const (
	defaultDeliveryLimit = 50
	maxDeliveryLimit     = 500
)

// DeliveryService implements the Connect DeliveryService.
// It is mounted behind middleware.RequireAdmin.
type DeliveryService struct {
	apiconnect.UnimplementedDeliveryServiceHandler
	store storage.Store
}

// NewDeliveryService creates a new DeliveryService with the given storage backend.
func NewDeliveryService(store storage.Store) *DeliveryService {
	return &DeliveryService{store: store}
}

// ListDeliveries returns the most recent report deliveries, newest first
func (s *DeliveryService) ListDeliveries(ctx context.Context, req *connect.Request[api.ListDeliveriesRequest]) (*connect.Response[api.ListDeliveriesResponse], error) {
	limit := int(req.Msg.Limit)
	switch {
	case limit < 0:
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("limit must not be negative"))
	case limit == 0:
		limit = defaultDeliveryLimit
	case limit > maxDeliveryLimit:
		limit = maxDeliveryLimit
	}

	deliveries, err := s.store.ListDeliveries(ctx, limit)
	if err != nil {
		slog.Error("ListDeliveries failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to list deliveries: %w", err))
	}

	resp := &api.ListDeliveriesResponse{
		Deliveries: make([]*api.Delivery, len(deliveries)),
	}
	for i, d := range deliveries {
		resp.Deliveries[i] = toAPIDelivery(d)
	}

	return connect.NewResponse(resp), nil
}

func toAPIDelivery(d *models.Delivery) *api.Delivery {
	return &api.Delivery{
		Id:        d.ID,
		Recipient: d.Recipient,
		Subject:   d.Subject,
		Status:    string(d.Status),
		Error:     d.Error,
		Notifier:  d.Notifier,
		CreatedAt: time.Unix(d.CreatedAt, 0).UTC(),
	}
}
