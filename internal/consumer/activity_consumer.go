package consumer

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/tourismoam/backoffice/internal/models"
	"github.com/tourismoam/backoffice/internal/repository"
	"go.uber.org/zap"
)

const storeTimeout = 5 * time.Second

type ActivityConsumer struct {
	repo repository.ActivityRepository
	log  *zap.Logger
	done chan struct{}
}

func NewActivityConsumer(repo repository.ActivityRepository, log *zap.Logger) *ActivityConsumer {
	return &ActivityConsumer{repo: repo, log: log, done: make(chan struct{})}
}

// Start records every delivered domain event in the activity feed until msgs is closed.
func (ac *ActivityConsumer) Start(msgs <-chan amqp.Delivery) {
	go func() {
		defer close(ac.done)
		for msg := range msgs {
			ac.handleMessage(msg)
		}
		ac.log.Info("[ActivityConsumer] channel closed, stopping consumer")
	}()
}

// Done is closed once the delivery channel has been drained.
func (ac *ActivityConsumer) Done() <-chan struct{} {
	return ac.done
}

func (ac *ActivityConsumer) handleMessage(msg amqp.Delivery) {
	var event models.DomainEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		ac.log.Warn("[ActivityConsumer] failed to unmarshal", zap.Error(err))
		msg.Nack(false, false)
		return
	}
	if event.RoutingKey == "" {
		event.RoutingKey = msg.RoutingKey
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	activity := &models.Activity{
		RoutingKey: event.RoutingKey,
		PackageID:  event.PackageID,
		GuestID:    event.GuestID,
		Summary:    event.Summary,
		OccurredAt: event.OccurredAt.UTC(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	if err := ac.repo.Create(ctx, activity); err != nil {
		ac.log.Error("[ActivityConsumer] failed to store activity",
			zap.String("routing_key", activity.RoutingKey),
			zap.Error(err),
		)
		msg.Nack(false, true) // requeue
		return
	}

	ac.log.Debug("[ActivityConsumer] recorded",
		zap.Uint("activity_id", activity.ID),
		zap.String("routing_key", activity.RoutingKey),
	)
	msg.Ack(false)
}
