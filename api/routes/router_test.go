package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/markwize/quotewizard-backend/internal/assessment"
	"github.com/markwize/quotewizard-backend/internal/catalog"
	"github.com/markwize/quotewizard-backend/internal/company"
	"github.com/markwize/quotewizard-backend/internal/pricing"
	"github.com/markwize/quotewizard-backend/internal/referral"
	"github.com/markwize/quotewizard-backend/internal/search"
	"github.com/markwize/quotewizard-backend/internal/selection"
	"github.com/markwize/quotewizard-backend/internal/wizard"
	"github.com/markwize/quotewizard-backend/pkg/config"
	"github.com/markwize/quotewizard-backend/pkg/db/models"
	"github.com/markwize/quotewizard-backend/pkg/enums"
	"github.com/markwize/quotewizard-backend/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type staticTreeRepo struct{}

func (staticTreeRepo) LoadTree(ctx context.Context) ([]models.CatalogCategory, error) {
	return []models.CatalogCategory{
		{
			ID:   "apparel",
			Name: "Apparel",
			Subcategories: []models.CatalogSubcategory{
				{
					ID:   "footwear",
					Name: "Footwear",
					Products: []models.CatalogProduct{
						{ID: "p1", Name: "Leather shoes", TariffCode: "6403", MarkingStatus: enums.MarkingStatusMandatory},
					},
				},
			},
		},
	}, nil
}

type staticIndex struct{}

func (staticIndex) Search(ctx context.Context, query string, limit int) ([]search.Hit, error) {
	return []search.Hit{{Code: "6403", Name: "Leather footwear", MarkingStatus: enums.MarkingStatusMandatory}}, nil
}

type staticRegistry struct{}

func (staticRegistry) Suggest(ctx context.Context, query string) ([]company.Suggestion, error) {
	return []company.Suggestion{{Name: "Acme LLC", RegistrationNumber: "1157746000000"}}, nil
}

type noopBatch struct{}

func (noopBatch) AssessAll(ctx context.Context, entries []selection.Entry) (assessment.BatchResult, error) {
	return assessment.BatchResult{}, nil
}

func testBook() *pricing.Book {
	return pricing.NewBook(
		[]models.ServiceCategory{{ID: "registration", Name: "Registration", Unit: "order", Position: 1}},
		[]models.Service{{ID: "reg", CategoryID: "registration", Name: "Turnkey registration", Price: decimal.NewFromInt(5000), Unit: "order"}},
		nil,
	)
}

type staticBooks struct{}

func (staticBooks) Book() (*pricing.Book, error) { return testBook(), nil }

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: io.Discard})

	catalogSvc, err := catalog.NewService(staticTreeRepo{})
	require.NoError(t, err)
	require.NoError(t, catalogSvc.Load(context.Background()))

	coordinator, err := search.NewCoordinator(staticIndex{}, config.SearchConfig{
		MinQueryLen: 2,
		Debounce:    time.Millisecond,
		ResultLimit: 20,
	}, nil, logg)
	require.NoError(t, err)

	companySvc, err := company.NewService(staticRegistry{}, config.RegistryConfig{MinQueryLen: 3})
	require.NoError(t, err)

	attributor, err := referral.NewAttributor(referral.NewMemoryStore())
	require.NoError(t, err)

	wizardSvc, err := wizard.NewService(wizard.NewMemoryStore(), catalogSvc, staticBooks{}, attributor, noopBatch{}, nil, logg)
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Catalog:   catalogSvc,
		Search:    coordinator,
		Companies: companySvc,
		Wizard:    wizardSvc,
	})
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "test", rec.Header().Get("X-Markwize-Env"))
}

func TestCatalogTreeServed(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/v1/catalog/tree", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data catalog.Tree `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data.Groups, 1)
	require.Equal(t, 1, envelope.Data.Stats.Products)
}

func TestCatalogSearchRejectsShortQuery(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/v1/catalog/search?q=x", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanySuggest(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/v1/companies/suggest?q=acme", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Acme LLC")
}

func TestSessionCreateRequiresVisitorHeader(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodPost, "/v1/wizard/sessions", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{"X-Visitor-Id": "v1"}

	rec := doRequest(t, router, http.MethodPost, "/v1/wizard/sessions", "", headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data wizard.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, enums.FlowVariantFull, created.Data.Variant)
	id := created.Data.ID

	rec = doRequest(t, router, http.MethodPut, "/v1/wizard/sessions/"+id+"/company",
		`{"registration_number":"1157746000000","name":"Acme LLC"}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/v1/wizard/sessions/"+id+"/next", "", headers)
	require.Equal(t, http.StatusOK, rec.Code)

	var advanced struct {
		Data wizard.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &advanced))
	require.Equal(t, wizard.StepProducts, advanced.Data.Step)
}

func TestBlockedNextReturnsStepDetails(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{"X-Visitor-Id": "v1"}

	rec := doRequest(t, router, http.MethodPost, "/v1/wizard/sessions", "", headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data wizard.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(t, router, http.MethodPost, "/v1/wizard/sessions/"+created.Data.ID+"/next", "", headers)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Contains(t, rec.Body.String(), "select a company to continue")
}

func TestCheckFlowCreate(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{"X-Visitor-Id": "v1"}

	rec := doRequest(t, router, http.MethodPost, "/v1/check/sessions", "", headers)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data wizard.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Equal(t, enums.FlowVariantCheck, created.Data.Variant)
	require.Equal(t, wizard.StepProducts, created.Data.Step)
}

func TestUnknownRouteIs404(t *testing.T) {
	router := newTestRouter(t)
	rec := doRequest(t, router, http.MethodGet, "/v1/unknown", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}
