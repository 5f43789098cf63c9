package sheets

import (
	"context"

	domainevents "realty_site_backend/internal/events"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/logger"
)

// Enqueuer defers a sync to the task queue instead of posting inline.
// Implemented by the scheduler client; nil when Redis is not configured.
type Enqueuer interface {
	EnqueueSheetsSync(ctx context.Context, row LeadRow) error
}

// Subscriber forwards captured leads to the spreadsheet webhook, either
// through the task queue or directly when no queue is configured.
type Subscriber struct {
	client   *Client
	enqueuer Enqueuer
	log      *logger.Logger
}

// NewSubscriber creates the sheets event subscriber.
func NewSubscriber(client *Client, enqueuer Enqueuer, log *logger.Logger) *Subscriber {
	return &Subscriber{client: client, enqueuer: enqueuer, log: log}
}

// Register subscribes to the lead-captured event.
func (s *Subscriber) Register(bus events.Bus) {
	bus.Subscribe(domainevents.LeadCapturedName, s)
}

// Handle processes a lead-captured event. Errors are returned for the bus
// to log; they never affect the original submission.
func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	captured, ok := event.(domainevents.LeadCaptured)
	if !ok {
		return nil
	}

	row := LeadRow{
		ID:                   captured.LeadID,
		Name:                 captured.Name,
		Email:                captured.Email,
		Phone:                captured.Phone,
		PreferredContactTime: captured.PreferredContactTime,
		Interest:             captured.Interest,
		HeardFrom:            captured.HeardFrom,
		Message:              captured.Message,
		Status:               captured.Status,
		SubmittedAt:          captured.SubmittedAt,
	}

	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueSheetsSync(ctx, row); err != nil {
			s.log.Error("failed to enqueue sheets sync", "lead_id", row.ID, "error", err)
			return err
		}
		return nil
	}

	if s.client == nil || !s.client.Enabled() {
		return nil
	}

	if err := s.client.SyncLead(ctx, row); err != nil {
		s.log.Error("sheets sync failed", "lead_id", row.ID, "error", err)
		return err
	}

	return nil
}
