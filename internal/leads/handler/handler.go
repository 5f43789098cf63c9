// Package handler exposes the public HTTP surface of the leads bounded context.
package handler

import (
	"context"
	"net/http"
	"strings"

	"realty_site_backend/internal/leads/repository"
	"realty_site_backend/internal/leads/transport"
	"realty_site_backend/platform/apperr"
	"realty_site_backend/platform/httpkit"
	"realty_site_backend/platform/logger"
	"realty_site_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// LeadSubmitter is the service contract the handler depends on.
type LeadSubmitter interface {
	Submit(ctx context.Context, req transport.SubmitLeadRequest, clientIP string) (repository.Lead, error)
}

// Handler handles public lead submissions.
type Handler struct {
	service LeadSubmitter
	val     *validator.Validator
	log     *logger.Logger
}

// New creates a new leads handler.
func New(service LeadSubmitter, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{service: service, val: val, log: log}
}

// HandleSubmitLead processes a public enquiry.
// POST /api/v1/leads
func (h *Handler) HandleSubmitLead(c *gin.Context) {
	var req transport.SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "Invalid JSON payload.", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusUnprocessableEntity, "Validation failed.", transport.MapFieldErrors(err))
		return
	}

	lead, err := h.service.Submit(c.Request.Context(), req, ClientIP(c.Request))
	if err != nil {
		if domainErr, ok := err.(*apperr.Error); ok {
			httpkit.Error(c, domainErr.HTTPStatus(), domainErr.Message, domainErr.Details)
			return
		}
		h.log.Error("unexpected error submitting lead", "error", err)
		httpkit.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again.", nil)
		return
	}

	httpkit.Created(c, gin.H{"success": true, "id": lead.ID})
}

// ClientIP extracts the caller's address from proxy headers: the first
// X-Forwarded-For entry, then X-Real-Ip. Returns "" when neither is set.
func ClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
		if first != "" {
			return first
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Real-Ip"))
}
