package handler

import (
	"net/http"
	"regexp"

	"realty_site_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// CORSPolicy decides the Access-Control-Allow-Origin value for the public
// enquiry endpoint. Known origins are reflected; preview deployments are
// matched by pattern; anything else gets the first allow-listed origin so
// the browser rejects the response without a wildcard ever being sent.
type CORSPolicy struct {
	origins []string
	preview *regexp.Regexp
}

// NewCORSPolicy builds the policy from HTTP configuration.
func NewCORSPolicy(cfg config.HTTPConfig) (*CORSPolicy, error) {
	policy := &CORSPolicy{origins: cfg.GetCORSOrigins()}

	if pattern := cfg.GetPreviewOriginPattern(); pattern != "" {
		preview, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		policy.preview = preview
	}

	return policy, nil
}

// AllowOrigin returns the origin to reflect for the given request origin.
func (p *CORSPolicy) AllowOrigin(origin string) string {
	if origin != "" {
		for _, allowed := range p.origins {
			if allowed == origin {
				return origin
			}
		}
		if p.preview != nil && p.preview.MatchString(origin) {
			return origin
		}
	}
	return p.origins[0]
}

// Middleware applies the CORS headers to every response on the route and
// short-circuits preflight requests with an empty 200.
func (p *CORSPolicy) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", p.AllowOrigin(c.GetHeader("Origin")))
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Client-Info, Apikey")
		c.Header("Access-Control-Max-Age", "86400")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}
