// Package repository provides read-only data access for the public site
// content: projects, project images, customer reviews and site settings.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrSettingNotFound = errors.New("site setting not found")
)

// Project is a development project shown on the marketing site.
type Project struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Tagline       *string   `json:"tagline"`
	Description   *string   `json:"description"`
	Location      string    `json:"location"`
	Status        string    `json:"status"`
	ExternalURL   *string   `json:"external_url"`
	HeroImageURL  string    `json:"hero_image_url"`
	YearCompleted *int      `json:"year_completed"`
	TotalUnits    *int      `json:"total_units"`
	TotalArea     *string   `json:"total_area"`
	ReraNumber    *string   `json:"rera_number"`
	FlatConfig    *string   `json:"flat_config"`
	BuiltupArea   *string   `json:"builtup_area"`
	Towers        *string   `json:"towers"`
	DisplayOrder  int       `json:"display_order"`
	IsFeatured    bool      `json:"is_featured"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ProjectImage is a gallery image attached to a project.
type ProjectImage struct {
	ID           uuid.UUID `json:"id"`
	ProjectID    uuid.UUID `json:"project_id"`
	ImageURL     string    `json:"image_url"`
	Category     *string   `json:"category"`
	DisplayOrder int       `json:"display_order"`
	Caption      *string   `json:"caption"`
	CreatedAt    time.Time `json:"created_at"`
}

// CustomerReview is a testimonial shown on the site.
type CustomerReview struct {
	ID           uuid.UUID `json:"id"`
	CustomerName string    `json:"customer_name"`
	ReviewText   string    `json:"review_text"`
	Rating       *int      `json:"rating"`
	IsFeatured   bool      `json:"is_featured"`
	DisplayOrder int       `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SiteSetting is a keyed JSON document (hero, metrics, about, contact).
type SiteSetting struct {
	ID        uuid.UUID       `json:"id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProjectFilter narrows the project listing.
type ProjectFilter struct {
	Status       string
	FeaturedOnly bool
	Limit        int
}

// Repository is the pgx-backed content reader.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new content repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const projectColumns = `id, name, slug, tagline, description, location, status, external_url, hero_image_url,
		year_completed, total_units, total_area, rera_number, flat_config, builtup_area, towers,
		display_order, is_featured, created_at, updated_at`

func scanProject(row pgx.Row) (Project, error) {
	var p Project
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Tagline, &p.Description, &p.Location, &p.Status,
		&p.ExternalURL, &p.HeroImageURL, &p.YearCompleted, &p.TotalUnits, &p.TotalArea,
		&p.ReraNumber, &p.FlatConfig, &p.BuiltupArea, &p.Towers,
		&p.DisplayOrder, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// ListProjects returns projects ordered by display_order.
func (r *Repository) ListProjects(ctx context.Context, filter ProjectFilter) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE 1=1`
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		query += ` AND status = $1`
	}
	if filter.FeaturedOnly {
		query += ` AND is_featured = true`
	}
	query += ` ORDER BY display_order ASC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// GetProjectBySlug returns a single project or ErrProjectNotFound.
func (r *Repository) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	p, err := scanProject(r.pool.QueryRow(ctx, `
		SELECT `+projectColumns+` FROM projects WHERE slug = $1
	`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, ErrProjectNotFound
	}
	return p, err
}

// ListProjectImages returns a project's gallery ordered by display_order.
func (r *Repository) ListProjectImages(ctx context.Context, projectID uuid.UUID) ([]ProjectImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, project_id, image_url, category, display_order, caption, created_at
		FROM project_images
		WHERE project_id = $1
		ORDER BY display_order ASC
	`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []ProjectImage
	for rows.Next() {
		var img ProjectImage
		if err := rows.Scan(&img.ID, &img.ProjectID, &img.ImageURL, &img.Category,
			&img.DisplayOrder, &img.Caption, &img.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// ListReviews returns customer reviews ordered by display_order.
func (r *Repository) ListReviews(ctx context.Context, featuredOnly bool) ([]CustomerReview, error) {
	query := `
		SELECT id, customer_name, review_text, rating, is_featured, display_order, created_at, updated_at
		FROM customer_reviews`
	if featuredOnly {
		query += ` WHERE is_featured = true`
	}
	query += ` ORDER BY display_order ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []CustomerReview
	for rows.Next() {
		var rev CustomerReview
		if err := rows.Scan(&rev.ID, &rev.CustomerName, &rev.ReviewText, &rev.Rating,
			&rev.IsFeatured, &rev.DisplayOrder, &rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// GetSetting returns a site setting by key or ErrSettingNotFound.
func (r *Repository) GetSetting(ctx context.Context, key string) (SiteSetting, error) {
	var setting SiteSetting
	err := r.pool.QueryRow(ctx, `
		SELECT id, key, value, updated_at FROM site_settings WHERE key = $1
	`, key).Scan(&setting.ID, &setting.Key, &setting.Value, &setting.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SiteSetting{}, ErrSettingNotFound
	}
	return setting, err
}
