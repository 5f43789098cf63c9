package service

import (
	"context"
	"errors"
	"testing"
	"time"

	domainevents "realty_site_backend/internal/events"
	"realty_site_backend/internal/leads/repository"
	"realty_site_backend/internal/leads/transport"
	"realty_site_backend/platform/apperr"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	emailCount    int
	emailCountErr error
	ipCount       int
	ipCountErr    error
	insertErr     error
	inserted      *repository.NewLead
	gotEmail      string
	gotIP         string
}

func (f *fakeRepo) Insert(ctx context.Context, lead repository.NewLead) (repository.Lead, error) {
	f.inserted = &lead
	if f.insertErr != nil {
		return repository.Lead{}, f.insertErr
	}
	now := time.Now()
	return repository.Lead{
		ID:                   uuid.New(),
		Name:                 lead.Name,
		Email:                lead.Email,
		Phone:                lead.Phone,
		PhoneE164:            lead.PhoneE164,
		PreferredContactTime: lead.PreferredContactTime,
		Interest:             lead.Interest,
		HeardFrom:            lead.HeardFrom,
		Message:              lead.Message,
		Status:               "new",
		SourceIP:             lead.SourceIP,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}

func (f *fakeRepo) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	f.gotEmail = email
	return f.emailCount, f.emailCountErr
}

func (f *fakeRepo) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	f.gotIP = ip
	return f.ipCount, f.ipCountErr
}

type fakeVerifier struct {
	err      error
	gotToken string
	gotIP    string
	called   bool
}

func (f *fakeVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	f.called = true
	f.gotToken = token
	f.gotIP = remoteIP
	return f.err
}

type fakeBus struct {
	published []events.Event
}

func (f *fakeBus) Publish(ctx context.Context, event events.Event) {
	f.published = append(f.published, event)
}

func (f *fakeBus) PublishSync(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func (f *fakeBus) Subscribe(eventName string, handler events.Handler) {}

type fakeLimits struct {
	emailMax    int
	emailWindow time.Duration
	ipMax       int
	ipWindow    time.Duration
}

func (f fakeLimits) GetEmailWindowMax() int          { return f.emailMax }
func (f fakeLimits) GetEmailWindow() time.Duration   { return f.emailWindow }
func (f fakeLimits) GetIPWindowMax() int             { return f.ipMax }
func (f fakeLimits) GetIPWindow() time.Duration      { return f.ipWindow }

func defaultLimits() fakeLimits {
	return fakeLimits{emailMax: 3, emailWindow: 24 * time.Hour, ipMax: 5, ipWindow: time.Hour}
}

func validSubmitRequest() transport.SubmitLeadRequest {
	return transport.SubmitLeadRequest{
		Name:                 "  Asha Patel  ",
		Email:                "  Asha@Example.COM ",
		Phone:                " +91 98765 43210 ",
		PreferredContactTime: "morning",
		Interest:             "ongoing_project",
		TurnstileToken:       "tok-123",
	}
}

func newService(repo *fakeRepo, verifier *fakeVerifier, bus *fakeBus, limits fakeLimits) *Service {
	return New(repo, verifier, bus, limits, logger.New("development"))
}

func TestSubmit_Success(t *testing.T) {
	repo := &fakeRepo{}
	verifier := &fakeVerifier{}
	bus := &fakeBus{}
	svc := newService(repo, verifier, bus, defaultLimits())

	req := validSubmitRequest()
	msg := "  Looking for a 3BHK.  "
	req.Message = &msg
	heard := "site_visit"
	req.HeardFrom = &heard

	lead, err := svc.Submit(context.Background(), req, "203.0.113.7")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if repo.inserted == nil {
		t.Fatal("expected insert")
	}
	if repo.inserted.Name != "Asha Patel" {
		t.Errorf("name = %q, want trimmed", repo.inserted.Name)
	}
	if repo.inserted.Email != "asha@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", repo.inserted.Email)
	}
	if repo.inserted.Phone != "+91 98765 43210" {
		t.Errorf("phone = %q, want trimmed", repo.inserted.Phone)
	}
	if repo.inserted.PhoneE164 == nil || *repo.inserted.PhoneE164 != "+919876543210" {
		t.Errorf("phone_e164 = %v, want +919876543210", repo.inserted.PhoneE164)
	}
	if repo.inserted.Message == nil || *repo.inserted.Message != "Looking for a 3BHK." {
		t.Errorf("message = %v, want trimmed", repo.inserted.Message)
	}
	if repo.inserted.HeardFrom == nil || *repo.inserted.HeardFrom != "site_visit" {
		t.Errorf("heard_from = %v", repo.inserted.HeardFrom)
	}
	if repo.inserted.SourceIP == nil || *repo.inserted.SourceIP != "203.0.113.7" {
		t.Errorf("source_ip = %v", repo.inserted.SourceIP)
	}
	if lead.Status != "new" {
		t.Errorf("status = %q, want new", lead.Status)
	}

	if verifier.gotToken != "tok-123" || verifier.gotIP != "203.0.113.7" {
		t.Errorf("verifier got (%q, %q)", verifier.gotToken, verifier.gotIP)
	}
	if repo.gotEmail != "asha@example.com" {
		t.Errorf("rate limit checked email %q, want normalized", repo.gotEmail)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(bus.published))
	}
	captured, ok := bus.published[0].(domainevents.LeadCaptured)
	if !ok {
		t.Fatalf("published event has type %T", bus.published[0])
	}
	if captured.EventName() != domainevents.LeadCapturedName {
		t.Errorf("event name = %q", captured.EventName())
	}
	if captured.LeadID != lead.ID.String() {
		t.Errorf("event lead id = %q, want %q", captured.LeadID, lead.ID)
	}
	if captured.HeardFrom != "site_visit" {
		t.Errorf("event heard_from = %q", captured.HeardFrom)
	}
}

func TestSubmit_OptionalFieldsStoredAsNull(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	req := validSubmitRequest()
	empty := ""
	blank := "   "
	req.HeardFrom = &empty
	req.Message = &blank

	if _, err := svc.Submit(context.Background(), req, ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if repo.inserted.HeardFrom != nil {
		t.Errorf("heard_from = %v, want nil", repo.inserted.HeardFrom)
	}
	if repo.inserted.Message != nil {
		t.Errorf("message = %v, want nil", repo.inserted.Message)
	}
	if repo.inserted.SourceIP != nil {
		t.Errorf("source_ip = %v, want nil for unknown caller", repo.inserted.SourceIP)
	}
}

func TestSubmit_VerificationFailureStopsIntake(t *testing.T) {
	repo := &fakeRepo{}
	verifier := &fakeVerifier{err: apperr.Forbidden("Security verification failed. Please try again.")}
	bus := &fakeBus{}
	svc := newService(repo, verifier, bus, defaultLimits())

	_, err := svc.Submit(context.Background(), validSubmitRequest(), "203.0.113.7")
	if !apperr.Is(err, apperr.KindForbidden) {
		t.Fatalf("expected forbidden error, got %v", err)
	}
	if repo.inserted != nil {
		t.Error("lead must not be inserted when verification fails")
	}
	if len(bus.published) != 0 {
		t.Error("no event should be published when verification fails")
	}
}

func TestSubmit_EmailWindowLimit(t *testing.T) {
	repo := &fakeRepo{emailCount: 3}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	_, err := svc.Submit(context.Background(), validSubmitRequest(), "203.0.113.7")
	if !apperr.Is(err, apperr.KindRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}

	want := "You have already submitted 3 enquiries in the last 24 hours. Please try again later or contact us directly."
	if domainErr := err.(*apperr.Error); domainErr.Message != want {
		t.Errorf("message = %q, want %q", domainErr.Message, want)
	}
	if repo.inserted != nil {
		t.Error("lead must not be inserted when rate limited")
	}
}

func TestSubmit_IPWindowLimit(t *testing.T) {
	repo := &fakeRepo{ipCount: 5}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	_, err := svc.Submit(context.Background(), validSubmitRequest(), "203.0.113.7")
	if !apperr.Is(err, apperr.KindRateLimited) {
		t.Fatalf("expected rate limited error, got %v", err)
	}

	want := "Too many submissions from your connection. Please wait an hour before trying again."
	if domainErr := err.(*apperr.Error); domainErr.Message != want {
		t.Errorf("message = %q, want %q", domainErr.Message, want)
	}
}

func TestSubmit_IPWindowSkippedWithoutClientIP(t *testing.T) {
	repo := &fakeRepo{ipCount: 100}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	if _, err := svc.Submit(context.Background(), validSubmitRequest(), ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if repo.gotIP != "" {
		t.Errorf("IP window should not be checked without a client IP, got query for %q", repo.gotIP)
	}
}

func TestSubmit_CountErrorsDoNotBlockIntake(t *testing.T) {
	repo := &fakeRepo{
		emailCountErr: errors.New("db down"),
		ipCountErr:    errors.New("db down"),
	}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	if _, err := svc.Submit(context.Background(), validSubmitRequest(), "203.0.113.7"); err != nil {
		t.Fatalf("Submit() error = %v, count failures must not block intake", err)
	}
	if repo.inserted == nil {
		t.Error("expected insert despite count failures")
	}
}

func TestSubmit_InsertFailure(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("connection reset")}
	bus := &fakeBus{}
	svc := newService(repo, &fakeVerifier{}, bus, defaultLimits())

	_, err := svc.Submit(context.Background(), validSubmitRequest(), "203.0.113.7")
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if domainErr := err.(*apperr.Error); domainErr.Message != "Failed to save your enquiry. Please try again." {
		t.Errorf("message = %q", domainErr.Message)
	}
	if len(bus.published) != 0 {
		t.Error("no event should be published when insert fails")
	}
}

func TestSubmit_InvalidPhoneSkipsE164(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo, &fakeVerifier{}, &fakeBus{}, defaultLimits())

	req := validSubmitRequest()
	req.Phone = "0000000"

	if _, err := svc.Submit(context.Background(), req, ""); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if repo.inserted.PhoneE164 != nil {
		t.Errorf("phone_e164 = %v, want nil for unparseable number", repo.inserted.PhoneE164)
	}
}
