package handler

import (
	"encoding/json"
	"net/http"

	"realty_site_backend/internal/content/repository"
	"realty_site_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// HomeResponse aggregates everything the landing page needs in one call.
type HomeResponse struct {
	Hero             json.RawMessage             `json:"hero"`
	Metrics          json.RawMessage             `json:"metrics"`
	FeaturedProjects []repository.Project        `json:"featured_projects"`
	FeaturedReviews  []repository.CustomerReview `json:"featured_reviews"`
}

// HandleHome fetches the landing-page aggregate. The four reads run
// concurrently; missing hero or metrics settings render as null rather
// than failing the whole page.
// GET /api/v1/home
func (h *Handler) HandleHome(c *gin.Context) {
	var resp HomeResponse

	group, ctx := errgroup.WithContext(c.Request.Context())

	group.Go(func() error {
		value, err := settingValueOrNull(h.repo.GetSetting(ctx, "hero"))
		resp.Hero = value
		return err
	})

	group.Go(func() error {
		value, err := settingValueOrNull(h.repo.GetSetting(ctx, "metrics"))
		resp.Metrics = value
		return err
	})

	group.Go(func() error {
		projects, err := h.repo.ListProjects(ctx, repository.ProjectFilter{
			FeaturedOnly: true,
			Limit:        featuredHomeProjects,
		})
		resp.FeaturedProjects = projects
		return err
	})

	group.Go(func() error {
		reviews, err := h.repo.ListReviews(ctx, true)
		resp.FeaturedReviews = reviews
		return err
	})

	if err := group.Wait(); err != nil {
		h.log.DatabaseError("home aggregate", err)
		httpkit.Error(c, http.StatusInternalServerError, "Failed to load page content.", nil)
		return
	}

	if resp.FeaturedProjects == nil {
		resp.FeaturedProjects = []repository.Project{}
	}
	if resp.FeaturedReviews == nil {
		resp.FeaturedReviews = []repository.CustomerReview{}
	}

	httpkit.OK(c, resp)
}
