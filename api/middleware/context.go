package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/markwize/quotewizard-backend/pkg/logger"
)

type contextKey string

const (
	ctxVisitorID contextKey = "visitor_id"

	visitorIDHeader = "X-Visitor-Id"
)

func VisitorIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxVisitorID).(string); ok {
		return v
	}
	return ""
}

// WithVisitorID injects the visitor identifier into the context.
func WithVisitorID(ctx context.Context, visitorID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxVisitorID, visitorID)
}

// VisitorID extracts the anonymous visitor identifier from the request
// header. Referral attribution is keyed by this value.
func VisitorID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			vid := strings.TrimSpace(r.Header.Get(visitorIDHeader))
			if vid == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithVisitorID(r.Context(), vid)
			if logg != nil {
				ctx = logg.WithField(ctx, "visitor_id", vid)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
