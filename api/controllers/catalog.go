package controllers

import (
	"net/http"

	"github.com/markwize/quotewizard-backend/api/responses"
	"github.com/markwize/quotewizard-backend/api/validators"
	"github.com/markwize/quotewizard-backend/internal/catalog"
	"github.com/markwize/quotewizard-backend/internal/search"
	"github.com/markwize/quotewizard-backend/pkg/logger"
)

// CatalogTree serves the loaded product catalog with its stats.
func CatalogTree(svc *catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tree, err := svc.Tree()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tree)
	}
}

// CatalogSearch runs a classification code search through the
// coordinator. Responses superseded by a newer query are dropped and
// the client is told to retry with its current input.
func CatalogSearch(coordinator *search.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := validators.RequireQuery(r, "q", coordinator.MinQueryLen())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		hits, err := coordinator.Search(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"results": hits})
	}
}
