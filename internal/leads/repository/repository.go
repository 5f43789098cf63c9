// Package repository provides data access for the leads bounded context.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Lead represents a stored enquiry.
type Lead struct {
	ID                   uuid.UUID
	Name                 string
	Email                string
	Phone                string
	PhoneE164            *string
	PreferredContactTime string
	Interest             string
	HeardFrom            *string
	Message              *string
	Status               string
	SourceIP             *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// NewLead carries the fields for inserting a fresh enquiry.
// Status is always set to "new" by the insert.
type NewLead struct {
	Name                 string
	Email                string
	Phone                string
	PhoneE164            *string
	PreferredContactTime string
	Interest             string
	HeardFrom            *string
	Message              *string
	SourceIP             *string
}

// LeadsRepository is the data-access contract consumed by the service layer.
type LeadsRepository interface {
	Insert(ctx context.Context, lead NewLead) (Lead, error)
	CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error)
	CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error)
}

// Repository is the pgx-backed implementation of LeadsRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new enquiry and returns the full row.
func (r *Repository) Insert(ctx context.Context, lead NewLead) (Lead, error) {
	var stored Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (name, email, phone, phone_e164, preferred_contact_time, interest, heard_from, message, status, source_ip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new', $9)
		RETURNING id, name, email, phone, phone_e164, preferred_contact_time, interest, heard_from, message, status, source_ip, created_at, updated_at
	`, lead.Name, lead.Email, lead.Phone, lead.PhoneE164, lead.PreferredContactTime,
		lead.Interest, lead.HeardFrom, lead.Message, lead.SourceIP).Scan(
		&stored.ID, &stored.Name, &stored.Email, &stored.Phone, &stored.PhoneE164,
		&stored.PreferredContactTime, &stored.Interest, &stored.HeardFrom, &stored.Message,
		&stored.Status, &stored.SourceIP, &stored.CreatedAt, &stored.UpdatedAt,
	)
	return stored, err
}

// CountByEmailSince returns how many enquiries the email address submitted
// at or after the given instant. The email is matched as stored (lowercased).
func (r *Repository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE email = $1 AND created_at >= $2
	`, email, since).Scan(&count)
	return count, err
}

// CountByIPSince returns how many enquiries arrived from the source IP at
// or after the given instant.
func (r *Repository) CountByIPSince(ctx context.Context, ip string, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM leads
		WHERE source_ip = $1 AND created_at >= $2
	`, ip, since).Scan(&count)
	return count, err
}
