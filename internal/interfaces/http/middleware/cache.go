package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OverviewInvalidator drops the cached dashboard overview.
type OverviewInvalidator interface {
	InvalidateOverview(ctx context.Context)
}

// InvalidateOverviewOnWrite drops the cached overview after any successful
// mutating request. Every write in this back office can move the dashboard
// numbers, so the cache is invalidated wholesale rather than per route.
func InvalidateOverviewOnWrite(inv OverviewInvalidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}
		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		inv.InvalidateOverview(c.Request.Context())
	}
}
