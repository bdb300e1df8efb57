package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/markwize/quotewizard-backend/api/middleware"
	"github.com/markwize/quotewizard-backend/api/responses"
	"github.com/markwize/quotewizard-backend/api/validators"
	"github.com/markwize/quotewizard-backend/internal/wizard"
	pkgerrors "github.com/markwize/quotewizard-backend/pkg/errors"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/types"
)

type createSessionRequest struct {
	EntryURL   string   `json:"entry_url,omitempty"`
	ProductIDs []string `json:"product_ids,omitempty"`
}

type addProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type patchProductRequest struct {
	ToggleSource *string `json:"toggle_source,omitempty" validate:"omitempty,oneof=produced imported resold"`
	Volume       *string `json:"volume,omitempty"`
}

type toggleFlatRequest struct {
	ServiceID string `json:"service_id" validate:"required"`
}

type flatQuantityRequest struct {
	Quantity *int `json:"quantity,omitempty" validate:"omitempty,min=1"`
	Delta    *int `json:"delta,omitempty"`
}

type toggleTieredRequest struct {
	CategoryID string `json:"category_id" validate:"required"`
}

type tieredQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0"`
}

type setCompanyRequest struct {
	RegistrationNumber string `json:"registration_number" validate:"required"`
	Name               string `json:"name" validate:"required"`
	Address            string `json:"address,omitempty"`
	Status             string `json:"status,omitempty"`
}

type setContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required,e164"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Consent bool   `json:"consent" validate:"required"`
}

func sessionID(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

func requireVisitor(r *http.Request) (string, error) {
	visitorID := middleware.VisitorIDFromContext(r.Context())
	if visitorID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Visitor-Id header is required")
	}
	return visitorID, nil
}

// WizardCreate opens a quoting session. Pre-supplied products select
// the shortened flow; check forces the stand-alone compliance check.
func WizardCreate(svc *wizard.Service, check bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		visitorID, err := requireVisitor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createSessionRequest
		if r.ContentLength > 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		snap, err := svc.Create(r.Context(), wizard.CreateInput{
			VisitorID:  visitorID,
			EntryURL:   req.EntryURL,
			ProductIDs: req.ProductIDs,
			Check:      check,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snap)
	}
}

// WizardGet returns the current session snapshot.
func WizardGet(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Get(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardNext advances the session one step.
func WizardNext(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Next(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardBack steps backwards; at the first step the snapshot reports
// an exit signal.
func WizardBack(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Back(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardReset starts the session over while keeping the visitor's
// referral attribution.
func WizardReset(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Reset(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardAddProduct appends a catalog product to the selection.
func WizardAddProduct(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.AddProduct(r.Context(), sessionID(r), req.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardRemoveProduct drops a product from the selection.
func WizardRemoveProduct(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.RemoveProduct(r.Context(), sessionID(r), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardPatchProduct updates provenance tags or monthly volume on a
// selected product.
func WizardPatchProduct(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchProductRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if req.ToggleSource == nil && req.Volume == nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "toggle_source or volume is required"))
			return
		}

		id := sessionID(r)
		productID := chi.URLParam(r, "productID")
		var snap *wizard.Snapshot
		var err error
		if req.ToggleSource != nil {
			snap, err = svc.ToggleProductSource(r.Context(), id, productID, *req.ToggleSource)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if req.Volume != nil {
			snap, err = svc.SetProductVolume(r.Context(), id, productID, *req.Volume)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardToggleFlatService toggles a flat service in the cart.
func WizardToggleFlatService(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleFlatRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.ToggleFlatService(r.Context(), sessionID(r), req.ServiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardFlatQuantity sets or shifts a flat selection's quantity.
func WizardFlatQuantity(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req flatQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SetFlatQuantity(r.Context(), sessionID(r), chi.URLParam(r, "serviceID"), req.Quantity, req.Delta)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardToggleTieredCategory flips a tiered category's active flag.
func WizardToggleTieredCategory(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req toggleTieredRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.ToggleTieredCategory(r.Context(), sessionID(r), req.CategoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardTieredQuantity sets a tiered category's quantity.
func WizardTieredQuantity(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tieredQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SetTieredQuantity(r.Context(), sessionID(r), chi.URLParam(r, "categoryID"), *req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardSetCompany attaches the registry-resolved company.
func WizardSetCompany(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setCompanyRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SetCompany(r.Context(), sessionID(r), types.Company{
			RegistrationNumber: req.RegistrationNumber,
			Name:               req.Name,
			Address:            req.Address,
			Status:             req.Status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardClearCompany removes the selected company.
func WizardClearCompany(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.ClearCompany(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardSetContact stores the contact details.
func WizardSetContact(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req setContactRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap, err := svc.SetContact(r.Context(), sessionID(r), types.Contact{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Consent: req.Consent,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}

// WizardAssess runs the batch compliance check for a check-flow
// session and moves it to the result step.
func WizardAssess(svc *wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := svc.Assess(r.Context(), sessionID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snap)
	}
}
