// Package leads provides the lead-intake bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"net/http"

	apphttp "realty_site_backend/internal/http"
	"realty_site_backend/internal/leads/handler"
	"realty_site_backend/internal/leads/repository"
	"realty_site_backend/internal/leads/service"
	"realty_site_backend/internal/leads/transport"
	"realty_site_backend/internal/leads/turnstile"
	"realty_site_backend/platform/config"
	"realty_site_backend/platform/events"
	"realty_site_backend/platform/httpkit"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig combines the config interfaces the leads module needs.
type ModuleConfig interface {
	config.HTTPConfig
	config.TurnstileConfig
	config.RateLimitConfig
}

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	cors    *handler.CORSPolicy
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg ModuleConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := transport.RegisterLeadValidations(val); err != nil {
		return nil, err
	}

	cors, err := handler.NewCORSPolicy(cfg)
	if err != nil {
		return nil, err
	}

	repo := repository.New(pool)
	verifier := turnstile.NewClient(cfg, log)
	svc := service.New(repo, verifier, eventBus, cfg, log)

	return &Module{
		handler: handler.New(svc, val, log),
		cors:    cors,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the public enquiry routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/leads")
	group.Use(m.cors.Middleware())
	group.POST("", m.handler.HandleSubmitLead)
	// Preflight is answered by the CORS middleware; the handler is a no-op.
	group.OPTIONS("", func(c *gin.Context) {})

	// Disallowed methods still answer with the computed CORS headers so
	// browsers surface the 405 instead of a CORS failure.
	ctx.Engine.NoMethod(m.cors.Middleware(), func(c *gin.Context) {
		httpkit.Error(c, http.StatusMethodNotAllowed, "Method not allowed.", nil)
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
