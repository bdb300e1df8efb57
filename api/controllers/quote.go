package controllers

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markwize/quotewizard-backend/api/responses"
	"github.com/markwize/quotewizard-backend/api/validators"
	"github.com/markwize/quotewizard-backend/internal/quote"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/markwize/quotewizard-backend/pkg/logger"
)

// WizardSubmit turns a completed session into a persisted quote.
func WizardSubmit(svc *quote.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt, err := svc.Submit(r.Context(), chi.URLParam(r, "sessionID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, receipt)
	}
}

// QuoteDocument streams the generated quote PDF. The token issued at
// submission is the only credential accepted.
func QuoteDocument(docs quote.DocumentClient, tokens *quote.TokenIssuer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := validators.RequireQuery(r, "token", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quoteID := chi.URLParam(r, "quoteID")

		claims, err := tokens.Verify(raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if claims.QuoteID != quoteID {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "token does not match the requested quote"))
			return
		}

		body, err := docs.QuotePDF(r.Context(), quoteID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		defer body.Close()

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="quote-`+claims.Number+`.pdf"`)
		if _, err := io.Copy(w, body); err != nil && logg != nil {
			logg.Error(r.Context(), "quote.document_stream_failed", err)
		}
	}
}
