// Package handler exposes the public read-only content API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"realty_site_backend/internal/content/repository"
	"realty_site_backend/platform/httpkit"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// featuredHomeProjects caps the featured strip on the landing page.
const featuredHomeProjects = 3

// ContentReader is the data-access contract the handler depends on.
type ContentReader interface {
	ListProjects(ctx context.Context, filter repository.ProjectFilter) ([]repository.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (repository.Project, error)
	ListProjectImages(ctx context.Context, projectID uuid.UUID) ([]repository.ProjectImage, error)
	ListReviews(ctx context.Context, featuredOnly bool) ([]repository.CustomerReview, error)
	GetSetting(ctx context.Context, key string) (repository.SiteSetting, error)
}

// Handler serves the public content endpoints.
type Handler struct {
	repo ContentReader
	val  *validator.Validator
	log  *logger.Logger
}

// New creates a new content handler.
func New(repo ContentReader, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, val: val, log: log}
}

// HandleListProjects lists projects, optionally filtered by status and
// featured flag.
// GET /api/v1/projects
func (h *Handler) HandleListProjects(c *gin.Context) {
	filter := repository.ProjectFilter{
		FeaturedOnly: c.Query("featured") == "true",
	}

	if status := c.Query("status"); status != "" {
		if err := h.val.Var(status, "oneof=ongoing completed"); err != nil {
			httpkit.Error(c, http.StatusBadRequest, "Invalid status filter.", nil)
			return
		}
		filter.Status = status
	}

	projects, err := h.repo.ListProjects(c.Request.Context(), filter)
	if err != nil {
		h.log.DatabaseError("list projects", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load projects.", nil)
		return
	}
	if projects == nil {
		projects = []repository.Project{}
	}

	httpkit.OK(c, gin.H{"projects": projects})
}

// HandleGetProject returns a single project with its gallery.
// GET /api/v1/projects/:slug
func (h *Handler) HandleGetProject(c *gin.Context) {
	slug := c.Param("slug")

	project, err := h.repo.GetProjectBySlug(c.Request.Context(), slug)
	if errors.Is(err, repository.ErrProjectNotFound) {
		httpkit.Error(c, http.StatusNotFound, "Project not found.", nil)
		return
	}
	if err != nil {
		h.log.DatabaseError("get project", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load project.", nil)
		return
	}

	images, err := h.repo.ListProjectImages(c.Request.Context(), project.ID)
	if err != nil {
		h.log.DatabaseError("list project images", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load project.", nil)
		return
	}
	if images == nil {
		images = []repository.ProjectImage{}
	}

	httpkit.OK(c, gin.H{"project": project, "images": images})
}

// HandleListReviews lists customer reviews.
// GET /api/v1/reviews
func (h *Handler) HandleListReviews(c *gin.Context) {
	reviews, err := h.repo.ListReviews(c.Request.Context(), c.Query("featured") == "true")
	if err != nil {
		h.log.DatabaseError("list reviews", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load reviews.", nil)
		return
	}
	if reviews == nil {
		reviews = []repository.CustomerReview{}
	}

	httpkit.OK(c, gin.H{"reviews": reviews})
}

// HandleGetSetting returns one site setting document.
// GET /api/v1/settings/:key
func (h *Handler) HandleGetSetting(c *gin.Context) {
	key := c.Param("key")
	if err := h.val.Var(key, "required,max=64,setting_key"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid setting key.", nil)
		return
	}

	setting, err := h.repo.GetSetting(c.Request.Context(), key)
	if errors.Is(err, repository.ErrSettingNotFound) {
		httpkit.Error(c, http.StatusNotFound, "Setting not found.", nil)
		return
	}
	if err != nil {
		h.log.DatabaseError("get setting", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load setting.", nil)
		return
	}

	httpkit.OK(c, gin.H{"key": setting.Key, "value": setting.Value, "updated_at": setting.UpdatedAt})
}

// settingValueOrNull unwraps a setting fetch where absence is not an error.
func settingValueOrNull(setting repository.SiteSetting, err error) (json.RawMessage, error) {
	if errors.Is(err, repository.ErrSettingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting.Value, nil
}
