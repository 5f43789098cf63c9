// Package events defines domain events shared between modules.
package events

import (
	"time"

	"realty_site_backend/platform/events"
)

// Event names for subscription.
const (
	LeadCapturedName = "lead.captured"
)

// LeadCaptured is published after an enquiry has been persisted. Handlers
// run detached from the request, so the event carries everything a
// downstream consumer needs.
type LeadCaptured struct {
	events.BaseEvent
	LeadID               string    `json:"lead_id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                string    `json:"phone"`
	PreferredContactTime string    `json:"preferred_contact_time"`
	Interest             string    `json:"interest"`
	HeardFrom            string    `json:"heard_from"`
	Message              string    `json:"message"`
	Status               string    `json:"status"`
	SubmittedAt          time.Time `json:"submitted_at"`
}

// EventName returns the unique event identifier.
func (e LeadCaptured) EventName() string { return LeadCapturedName }
