package controllers

import (
	"net/http"

	"github.com/markwize/quotewizard-backend/api/responses"
	"github.com/markwize/quotewizard-backend/api/validators"
	"github.com/markwize/quotewizard-backend/internal/company"
	"github.com/markwize/quotewizard-backend/pkg/logger"
)

// CompanySuggest proxies the registry lookup used on the company step.
func CompanySuggest(svc *company.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := validators.RequireQuery(r, "q", svc.MinQueryLen())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		suggestions, err := svc.Suggest(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if suggestions == nil {
			suggestions = []company.Suggestion{}
		}
		responses.WriteSuccess(w, map[string]any{"suggestions": suggestions})
	}
}
