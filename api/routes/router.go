package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markwize/quotewizard-backend/api/controllers"
	"github.com/markwize/quotewizard-backend/api/middleware"
	"github.com/markwize/quotewizard-backend/internal/catalog"
	"github.com/markwize/quotewizard-backend/internal/company"
	"github.com/markwize/quotewizard-backend/internal/quote"
	"github.com/markwize/quotewizard-backend/internal/search"
	"github.com/markwize/quotewizard-backend/internal/wizard"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/db"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/markwize/quotewizard-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    db.Pinger
	RedisPinger redis.Pinger
	Registry    *prometheus.Registry

	Catalog     *catalog.Service
	Search      *search.Coordinator
	Companies   *company.Service
	Wizard      *wizard.Service
	Quotes      *quote.Service
	Docs        quote.DocumentClient
	TokenIssuer *quote.TokenIssuer
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.VisitorID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/tree", controllers.CatalogTree(deps.Catalog, logg))
			r.Get("/search", controllers.CatalogSearch(deps.Search, logg))
		})

		r.Get("/companies/suggest", controllers.CompanySuggest(deps.Companies, logg))

		r.Route("/wizard/sessions", func(r chi.Router) {
			r.Post("/", controllers.WizardCreate(deps.Wizard, false, logg))
			r.Route("/{sessionID}", func(r chi.Router) {
				mountSessionRoutes(r, deps, logg)
				r.Post("/submit", controllers.WizardSubmit(deps.Quotes, logg))
			})
		})

		r.Route("/check/sessions", func(r chi.Router) {
			r.Post("/", controllers.WizardCreate(deps.Wizard, true, logg))
			r.Route("/{sessionID}", func(r chi.Router) {
				mountSessionRoutes(r, deps, logg)
				r.Post("/assess", controllers.WizardAssess(deps.Wizard, logg))
			})
		})

		if deps.Docs != nil && deps.TokenIssuer != nil {
			r.Get("/quotes/{quoteID}/document", controllers.QuoteDocument(deps.Docs, deps.TokenIssuer, logg))
		}
	})

	return r
}

// mountSessionRoutes registers the step and cart operations shared by
// the quoting flows and the stand-alone compliance check.
func mountSessionRoutes(r chi.Router, deps Deps, logg *logger.Logger) {
	r.Get("/", controllers.WizardGet(deps.Wizard, logg))
	r.Post("/next", controllers.WizardNext(deps.Wizard, logg))
	r.Post("/back", controllers.WizardBack(deps.Wizard, logg))
	r.Post("/reset", controllers.WizardReset(deps.Wizard, logg))

	r.Route("/products", func(r chi.Router) {
		r.Post("/", controllers.WizardAddProduct(deps.Wizard, logg))
		r.Delete("/{productID}", controllers.WizardRemoveProduct(deps.Wizard, logg))
		r.Patch("/{productID}", controllers.WizardPatchProduct(deps.Wizard, logg))
	})

	r.Route("/services", func(r chi.Router) {
		r.Post("/flat", controllers.WizardToggleFlatService(deps.Wizard, logg))
		r.Patch("/flat/{serviceID}", controllers.WizardFlatQuantity(deps.Wizard, logg))
		r.Post("/tiered", controllers.WizardToggleTieredCategory(deps.Wizard, logg))
		r.Patch("/tiered/{categoryID}", controllers.WizardTieredQuantity(deps.Wizard, logg))
	})

	r.Put("/company", controllers.WizardSetCompany(deps.Wizard, logg))
	r.Delete("/company", controllers.WizardClearCompany(deps.Wizard, logg))
	r.Put("/contact", controllers.WizardSetContact(deps.Wizard, logg))
}
