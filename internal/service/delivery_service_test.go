package service

import (
	"context"
	"fmt"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/dilutionwise/internal/models"
	"github.com/mmynk/dilutionwise/pkg/api"
	"github.com/mmynk/dilutionwise/pkg/api/apiconnect"
)

var _ apiconnect.DeliveryServiceHandler = (*DeliveryService)(nil)

func TestListDeliveries(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := ts.dilution.SendReport(ctx, connect.NewRequest(&api.SendReportRequest{
			To:    fmt.Sprintf("user%d@example.com", i),
			Input: defaultRequest(),
		}))
		require.NoError(t, err)
	}

	t.Run("newest first", func(t *testing.T) {
		resp, err := ts.deliveries.ListDeliveries(ctx, adminRequest(&api.ListDeliveriesRequest{}, testAdminUser, testAdminPassword))
		require.NoError(t, err)
		require.Len(t, resp.Msg.Deliveries, 3)

		assert.Equal(t, "user2@example.com", resp.Msg.Deliveries[0].Recipient)
		assert.Equal(t, "user0@example.com", resp.Msg.Deliveries[2].Recipient)
		for _, d := range resp.Msg.Deliveries {
			assert.Equal(t, string(models.DeliverySent), d.Status)
			assert.Equal(t, "test", d.Notifier)
			assert.False(t, d.CreatedAt.IsZero())
		}
	})

	t.Run("limit", func(t *testing.T) {
		resp, err := ts.deliveries.ListDeliveries(ctx, adminRequest(&api.ListDeliveriesRequest{Limit: 2}, testAdminUser, testAdminPassword))
		require.NoError(t, err)
		assert.Len(t, resp.Msg.Deliveries, 2)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := ts.deliveries.ListDeliveries(ctx, adminRequest(&api.ListDeliveriesRequest{Limit: -1}, testAdminUser, testAdminPassword))
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestListDeliveries_RequiresAdmin(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *connect.Request[api.ListDeliveriesRequest]
	}{
		{"no credentials", connect.NewRequest(&api.ListDeliveriesRequest{})},
		{"wrong password", adminRequest(&api.ListDeliveriesRequest{}, testAdminUser, "not the password")},
		{"wrong user", adminRequest(&api.ListDeliveriesRequest{}, "root", testAdminPassword)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.deliveries.ListDeliveries(ctx, tt.req)
			assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
		})
	}
}

func TestUnimplementedDeliveryServiceHandler(t *testing.T) {
	var h apiconnect.UnimplementedDeliveryServiceHandler
	_, err := h.ListDeliveries(context.Background(), connect.NewRequest(&api.ListDeliveriesRequest{}))
	require.Error(t, err)
	assert.Equal(t, connect.CodeUnimplemented, connect.CodeOf(err))
}
