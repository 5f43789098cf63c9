// Package service implements the lead submission workflow: bot verification,
// persisted submission windows, insert and downstream notification.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	domainevents "realty_site_backend/internal/events"
	"realty_site_backend/internal/leads/repository"
	"realty_site_backend/internal/leads/transport"
	"realty_site_backend/internal/leads/turnstile"
	"realty_site_backend/platform/apperr"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/phone"
)

const (
	msgInsertFailed = "Failed to save your enquiry. Please try again."
	msgIPLimited    = "Too many submissions from your connection. Please wait an hour before trying again."
)

// Service orchestrates lead submissions.
type Service struct {
	repo     repository.LeadsRepository
	verifier turnstile.Verifier
	bus      events.Bus
	limits   config.RateLimitConfig
	log      *logger.Logger
	now      func() time.Time
}

// New creates the leads service.
func New(repo repository.LeadsRepository, verifier turnstile.Verifier, bus events.Bus, limits config.RateLimitConfig, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		verifier: verifier,
		bus:      bus,
		limits:   limits,
		log:      log,
		now:      time.Now,
	}
}

// Submit runs the full intake workflow for an already-validated request.
// The returned error is always a typed domain error; the caller maps it to
// an HTTP status.
func (s *Service) Submit(ctx context.Context, req transport.SubmitLeadRequest, clientIP string) (repository.Lead, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.verifier.Verify(ctx, req.TurnstileToken, clientIP); err != nil {
		return repository.Lead{}, err
	}

	if err := s.checkSubmissionWindows(ctx, email, clientIP); err != nil {
		return repository.Lead{}, err
	}

	trimmedPhone := strings.TrimSpace(req.Phone)
	newLead := repository.NewLead{
		Name:                 strings.TrimSpace(req.Name),
		Email:                email,
		Phone:                trimmedPhone,
		PreferredContactTime: req.PreferredContactTime,
		Interest:             req.Interest,
		HeardFrom:            optionalString(req.HeardFrom),
		Message:              optionalTrimmedString(req.Message),
		SourceIP:             nilIfEmpty(clientIP),
	}
	if e164, ok := phone.NormalizeE164(trimmedPhone); ok {
		newLead.PhoneE164 = &e164
	}

	lead, err := s.repo.Insert(ctx, newLead)
	if err != nil {
		s.log.DatabaseError("insert lead", err)
		return repository.Lead{}, apperr.Wrap(apperr.KindInternal, msgInsertFailed, err)
	}

	s.publishCaptured(ctx, lead)

	return lead, nil
}

// checkSubmissionWindows enforces the persisted per-email and per-IP
// submission limits. Count failures are logged and treated as zero so a
// degraded database read never blocks intake.
func (s *Service) checkSubmissionWindows(ctx context.Context, email, clientIP string) error {
	emailMax := s.limits.GetEmailWindowMax()
	emailWindow := s.limits.GetEmailWindow()

	emailCount, err := s.repo.CountByEmailSince(ctx, email, s.now().Add(-emailWindow))
	if err != nil {
		s.log.DatabaseError("count leads by email", err)
		emailCount = 0
	}
	if emailCount >= emailMax {
		s.log.RateLimitExceeded(clientIP, "leads:email")
		return apperr.RateLimited(fmt.Sprintf(
			"You have already submitted %d enquiries in the last %d hours. Please try again later or contact us directly.",
			emailMax, int(emailWindow.Hours())))
	}

	if clientIP == "" {
		return nil
	}

	ipCount, err := s.repo.CountByIPSince(ctx, clientIP, s.now().Add(-s.limits.GetIPWindow()))
	if err != nil {
		s.log.DatabaseError("count leads by ip", err)
		ipCount = 0
	}
	if ipCount >= s.limits.GetIPWindowMax() {
		s.log.RateLimitExceeded(clientIP, "leads:ip")
		return apperr.RateLimited(msgIPLimited)
	}

	return nil
}

// publishCaptured emits the captured event for downstream consumers
// (spreadsheet sync). Handlers run detached from the request.
func (s *Service) publishCaptured(ctx context.Context, lead repository.Lead) {
	if s.bus == nil {
		return
	}

	s.bus.Publish(ctx, domainevents.LeadCaptured{
		BaseEvent:            events.NewBaseEvent(),
		LeadID:               lead.ID.String(),
		Name:                 lead.Name,
		Email:                lead.Email,
		Phone:                lead.Phone,
		PreferredContactTime: lead.PreferredContactTime,
		Interest:             lead.Interest,
		HeardFrom:            derefString(lead.HeardFrom),
		Message:              derefString(lead.Message),
		Status:               lead.Status,
		SubmittedAt:          lead.CreatedAt,
	})
}

func optionalString(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func optionalTrimmedString(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nilIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
