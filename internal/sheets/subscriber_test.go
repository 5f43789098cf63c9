package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainevents "realty_site_backend/internal/events"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/logger"
)

type fakeEnqueuer struct {
	rows []LeadRow
	err  error
}

func (f *fakeEnqueuer) EnqueueSheetsSync(ctx context.Context, row LeadRow) error {
	f.rows = append(f.rows, row)
	return f.err
}

func capturedEvent() domainevents.LeadCaptured {
	return domainevents.LeadCaptured{
		BaseEvent:            events.NewBaseEvent(),
		LeadID:               "6a1f0e9c-0000-0000-0000-000000000001",
		Name:                 "Asha Patel",
		Email:                "asha@example.com",
		Phone:                "+91 98765 43210",
		PreferredContactTime: "morning",
		Interest:             "ongoing_project",
		Status:               "new",
		SubmittedAt:          time.Now(),
	}
}

func TestSubscriber_PrefersQueue(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	sub := NewSubscriber(nil, enqueuer, logger.New("development"))

	if err := sub.Handle(context.Background(), capturedEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(enqueuer.rows) != 1 {
		t.Fatalf("expected 1 enqueued row, got %d", len(enqueuer.rows))
	}
	if enqueuer.rows[0].ID != "6a1f0e9c-0000-0000-0000-000000000001" {
		t.Errorf("row id = %q", enqueuer.rows[0].ID)
	}
}

func TestSubscriber_EnqueueFailureIsReturned(t *testing.T) {
	enqueuer := &fakeEnqueuer{err: errors.New("redis down")}
	sub := NewSubscriber(nil, enqueuer, logger.New("development"))

	if err := sub.Handle(context.Background(), capturedEvent()); err == nil {
		t.Fatal("expected enqueue error to propagate to the bus")
	}
}

func TestSubscriber_DirectSyncWithoutQueue(t *testing.T) {
	synced := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var row LeadRow
		if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
			t.Errorf("decode: %v", err)
		}
		synced <- struct{}{}
	}))
	defer srv.Close()

	client := NewClient(sheetsTestConfig{url: srv.URL}, logger.New("development"))
	sub := NewSubscriber(client, nil, logger.New("development"))

	if err := sub.Handle(context.Background(), capturedEvent()); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	select {
	case <-synced:
	default:
		t.Fatal("expected webhook to be called")
	}
}

func TestSubscriber_IgnoresOtherEvents(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	sub := NewSubscriber(nil, enqueuer, logger.New("development"))

	if err := sub.Handle(context.Background(), otherEvent{}); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if len(enqueuer.rows) != 0 {
		t.Error("unrelated events must not be synced")
	}
}

type otherEvent struct{}

func (otherEvent) EventName() string     { return "other.event" }
func (otherEvent) OccurredAt() time.Time { return time.Now() }
