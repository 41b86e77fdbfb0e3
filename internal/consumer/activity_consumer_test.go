package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourismoam/backoffice/internal/models"
	"go.uber.org/zap"
)

// --- Mock ActivityRepository ---

type mockActivityRepo struct {
	createFn func(ctx context.Context, a *models.Activity) error
	created  []models.Activity
}

func (m *mockActivityRepo) Create(ctx context.Context, a *models.Activity) error {
	if m.createFn != nil {
		if err := m.createFn(ctx, a); err != nil {
			return err
		}
	}
	a.ID = uint(len(m.created) + 1)
	m.created = append(m.created, *a)
	return nil
}

func (m *mockActivityRepo) Recent(ctx context.Context, limit int) ([]models.Activity, error) {
	return m.created, nil
}

// --- Mock Acknowledger ---

type ackRecorder struct {
	acked   int
	nacked  int
	requeue bool
}

func (a *ackRecorder) Ack(tag uint64, multiple bool) error {
	a.acked++
	return nil
}

func (a *ackRecorder) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *ackRecorder) Reject(tag uint64, requeue bool) error {
	return a.Nack(tag, false, requeue)
}

func delivery(ack *ackRecorder, routingKey, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: ack, RoutingKey: routingKey, Body: []byte(body)}
}

// --- Tests ---

func TestHandleMessage_StoresActivity(t *testing.T) {
	repo := &mockActivityRepo{}
	ack := &ackRecorder{}
	ac := NewActivityConsumer(repo, zap.NewNop())

	ac.handleMessage(delivery(ack, "payment.recorded",
		`{"routing_key":"payment.recorded","package_id":4,"guest_id":2,"summary":"Payment of 500.00 recorded","occurred_at":"2025-03-01T10:00:00Z"}`))

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	assert.Equal(t, "payment.recorded", got.RoutingKey)
	require.NotNil(t, got.PackageID)
	assert.Equal(t, uint(4), *got.PackageID)
	assert.Equal(t, "Payment of 500.00 recorded", got.Summary)
	assert.Equal(t, time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), got.OccurredAt)
	assert.Equal(t, 1, ack.acked)
}

func TestHandleMessage_FallsBackToDeliveryRoutingKey(t *testing.T) {
	repo := &mockActivityRepo{}
	ack := &ackRecorder{}
	ac := NewActivityConsumer(repo, zap.NewNop())

	ac.handleMessage(delivery(ack, "guest.promoted", `{"summary":"Guest became a client"}`))

	require.Len(t, repo.created, 1)
	assert.Equal(t, "guest.promoted", repo.created[0].RoutingKey)
	assert.False(t, repo.created[0].OccurredAt.IsZero())
}

func TestHandleMessage_InvalidJSON_Discarded(t *testing.T) {
	repo := &mockActivityRepo{}
	ack := &ackRecorder{}
	ac := NewActivityConsumer(repo, zap.NewNop())

	ac.handleMessage(delivery(ack, "package.created", `not-json`))

	assert.Empty(t, repo.created)
	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleMessage_StoreFailure_Requeued(t *testing.T) {
	repo := &mockActivityRepo{
		createFn: func(ctx context.Context, a *models.Activity) error {
			return errors.New("db down")
		},
	}
	ack := &ackRecorder{}
	ac := NewActivityConsumer(repo, zap.NewNop())

	ac.handleMessage(delivery(ack, "package.created", `{"routing_key":"package.created","summary":"x"}`))

	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestStart_DrainsChannel(t *testing.T) {
	repo := &mockActivityRepo{}
	ack := &ackRecorder{}
	ac := NewActivityConsumer(repo, zap.NewNop())

	msgs := make(chan amqp.Delivery, 2)
	msgs <- delivery(ack, "package.created", `{"summary":"a"}`)
	msgs <- delivery(ack, "package.deleted", `{"summary":"b"}`)
	close(msgs)

	ac.Start(msgs)
	select {
	case <-ac.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}

	assert.Len(t, repo.created, 2)
	assert.Equal(t, 2, ack.acked)
}
