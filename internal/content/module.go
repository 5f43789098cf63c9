// Package content provides the public read-only content bounded context
// module: projects, reviews and site settings for the marketing site.
package content

import (
	"regexp"
	"time"

	"realty_site_backend/internal/content/handler"
	"realty_site_backend/internal/content/repository"
	apphttp "realty_site_backend/internal/http"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	playground "github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

var settingKeyRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// Module is the content bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	cors    gin.HandlerFunc
}

// NewModule creates and initializes the content module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.HTTPConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	err := val.RegisterValidation("setting_key", func(fl playground.FieldLevel) bool {
		return settingKeyRegex.MatchString(fl.Field().String())
	})
	if err != nil {
		return nil, err
	}

	previewMatch, err := previewOriginFunc(cfg.GetPreviewOriginPattern())
	if err != nil {
		return nil, err
	}

	corsMiddleware := cors.New(cors.Config{
		AllowOrigins:    cfg.GetCORSOrigins(),
		AllowOriginFunc: previewMatch,
		AllowMethods: []string{"GET", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization", "X-Client-Info", "Apikey"},
		MaxAge:       24 * time.Hour,
	})

	repo := repository.New(pool)

	return &Module{
		handler: handler.New(repo, val, log),
		cors:    corsMiddleware,
	}, nil
}

// previewOriginFunc builds the preview-deployment origin matcher. An empty
// pattern admits no preview origins; it must never match everything.
func previewOriginFunc(pattern string) (func(origin string) bool, error) {
	if pattern == "" {
		return func(string) bool { return false }, nil
	}

	preview, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return preview.MatchString, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "content"
}

// RegisterRoutes mounts the content routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("")
	group.Use(m.cors)

	group.GET("/projects", m.handler.HandleListProjects)
	group.GET("/projects/:slug", m.handler.HandleGetProject)
	group.GET("/reviews", m.handler.HandleListReviews)
	group.GET("/settings/:key", m.handler.HandleGetSetting)
	group.GET("/home", m.handler.HandleHome)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
