package service

import (
	"time"

	"github.com/tourismoam/backoffice/internal/models"
	"go.uber.org/zap"
)

const (
	EventPackageCreated     = "package.created"
	EventPackageUpdated     = "package.updated"
	EventPackageDeleted     = "package.deleted"
	EventPaymentRecorded    = "payment.recorded"
	EventQuotationGenerated = "quotation.generated"
	EventQuotationSent      = "quotation.sent"
	EventContractSent       = "contract.sent"
	EventContractConfirmed  = "contract.confirmed"
	EventGuestPromoted      = "guest.promoted"
)

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}

// notifier publishes domain events after a commit. A nil publisher skips publishing;
// failures are logged and never returned to the caller.
type notifier struct {
	publisher EventPublisher
	log       *zap.Logger
}

func newNotifier(publisher EventPublisher, log *zap.Logger) notifier {
	if log == nil {
		log = zap.NewNop()
	}
	return notifier{publisher: publisher, log: log}
}

func (n notifier) notify(routingKey string, packageID, guestID uint, summary string) {
	if n.publisher == nil {
		return
	}
	event := models.DomainEvent{
		RoutingKey: routingKey,
		Summary:    summary,
		OccurredAt: time.Now().UTC(),
	}
	if packageID != 0 {
		event.PackageID = &packageID
	}
	if guestID != 0 {
		event.GuestID = &guestID
	}
	if err := n.publisher.Publish(routingKey, event); err != nil {
		n.log.Warn("publish domain event failed",
			zap.String("routing_key", routingKey),
			zap.Uint("package_id", packageID),
			zap.Error(err),
		)
	}
}
