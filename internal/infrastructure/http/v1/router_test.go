package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contractor/internal/core/apperror"
	appctx "contractor/internal/core/context"
	"contractor/internal/core/security"
	"contractor/internal/domain/catalogs/country"
	"contractor/internal/domain/catalogs/industry"
	"contractor/internal/domain/contractor"
	"contractor/internal/infrastructure/http/v1/dto"
	"contractor/internal/infrastructure/http/v1/handlers"
	"contractor/pkg/logger"
)

func init() {
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// tokenValidator treats the bearer token as a comma separated role list.
type tokenValidator struct{}

func (tokenValidator) ValidateToken(token string) (*appctx.UserContext, error) {
	if token == "bad" {
		return nil, errors.New("signature is invalid")
	}
	return &appctx.UserContext{UserID: "u1", Roles: strings.Split(token, ",")}, nil
}

type searchCall struct {
	strategy string
	roles    security.RoleSet
	criteria contractor.SearchCriteria
	page     contractor.Page
}

type fakeContractors struct {
	searches []searchCall
	result   []contractor.Contractor
	byID     map[string]*contractor.Contractor
	getErr   error
	saved    *contractor.Contractor
	updates  []contractor.MainBorrowerUpdate
	deleted  []string
	actor    string
}

func (f *fakeContractors) Search(_ context.Context, roles security.RoleSet, c contractor.SearchCriteria, page contractor.Page) ([]contractor.Contractor, error) {
	f.searches = append(f.searches, searchCall{"orm", roles, c, page})
	return f.result, nil
}

func (f *fakeContractors) SearchSQL(_ context.Context, roles security.RoleSet, c contractor.SearchCriteria, page contractor.Page) ([]contractor.Contractor, error) {
	f.searches = append(f.searches, searchCall{"sql", roles, c, page})
	return f.result, nil
}

func (f *fakeContractors) SaveOrUpdate(ctx context.Context, c *contractor.Contractor) (*contractor.Contractor, error) {
	f.actor = security.Actor(ctx)
	if c.ID == "" {
		c.ID = "generated"
	}
	f.saved = c
	return c, nil
}

func (f *fakeContractors) GetByID(_ context.Context, contractorID string) (*contractor.Contractor, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if c, ok := f.byID[contractorID]; ok {
		return c, nil
	}
	return nil, apperror.NewNotFound("contractor", contractorID)
}

func (f *fakeContractors) Delete(_ context.Context, contractorID string) error {
	f.deleted = append(f.deleted, contractorID)
	return nil
}

func (f *fakeContractors) UpdateMainBorrower(_ context.Context, upd contractor.MainBorrowerUpdate) error {
	f.updates = append(f.updates, upd)
	if c, ok := f.byID[upd.ContractorID]; ok {
		c.ActiveMainBorrower = upd.HasMainDeals
	}
	return nil
}

type fakeLookups[T any, K comparable] struct {
	items map[K]T
	saved []T
}

func (f *fakeLookups[T, K]) Save(_ context.Context, entity T) (T, error) {
	f.saved = append(f.saved, entity)
	return entity, nil
}

func (f *fakeLookups[T, K]) GetByID(_ context.Context, key K) (T, error) {
	if v, ok := f.items[key]; ok {
		return v, nil
	}
	var zero T
	return zero, apperror.NewNotFound("lookup", key)
}

func (f *fakeLookups[T, K]) ListActive(_ context.Context) ([]T, error) {
	out := make([]T, 0, len(f.items))
	for _, v := range f.items {
		out = append(out, v)
	}
	return out, nil
}

func (f *fakeLookups[T, K]) Delete(_ context.Context, _ K) error { return nil }

type env struct {
	contractors *fakeContractors
	countries   *fakeLookups[*country.Country, string]
	industries  *fakeLookups[*industry.Industry, int64]
	router      http.Handler
}

func newEnv(health *handlers.HealthHandler) *env {
	e := &env{
		contractors: &fakeContractors{byID: map[string]*contractor.Contractor{}},
		countries: &fakeLookups[*country.Country, string]{items: map[string]*country.Country{
			"RUS": {ID: "RUS", Name: "Russia", IsActive: true},
		}},
		industries: &fakeLookups[*industry.Industry, int64]{items: map[int64]*industry.Industry{}},
	}
	e.router = NewRouter(RouterConfig{
		Logger:       logger.Nop(),
		JWTValidator: tokenValidator{},
		Contractors:  e.contractors,
		Countries:    e.countries,
		Industries:   e.industries,
		Health:       health,
	})
	return e
}

func (e *env) do(method, target, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestSearch_RoleGate(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"invalid token", "bad", http.StatusUnauthorized},
		{"plain user", "USER", http.StatusForbidden},
		{"restricted", "CONTRACTOR_RUS", http.StatusOK},
		{"superuser", "SUPERUSER", http.StatusOK},
		{"contractor superuser", "CONTRACTOR_SUPERUSER", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newEnv(nil).do(http.MethodPost, "/api/v1/contractor/search", tt.token, "")
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestSearch_BindsCriteria(t *testing.T) {
	e := newEnv(nil)
	e.contractors.result = []contractor.Contractor{{ID: "1", Name: "TechCorp Inc", IsActive: true}}

	w := e.do(http.MethodPost,
		"/api/v1/contractor/search/sql?id=1&name=TechCorp&orgForm=Limited%20Liability%20Company&inn=&industryName=Banking&page=2&size=5",
		"SUPERUSER,USER", "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, e.contractors.searches, 1)
	call := e.contractors.searches[0]
	assert.Equal(t, "sql", call.strategy)
	assert.True(t, call.roles.Has(security.RoleSuperuser))
	assert.Equal(t, contractor.Page{Number: 2, Size: 5}, call.page)
	assert.Equal(t, "1", *call.criteria.ID)
	assert.Equal(t, "TechCorp", *call.criteria.Name)
	assert.Equal(t, "Limited Liability Company", *call.criteria.OrgForm)
	assert.Nil(t, call.criteria.TaxNumber, "empty value is absent")
	require.NotNil(t, call.criteria.Industry)
	assert.Nil(t, call.criteria.Industry.ID)
	assert.Equal(t, "Banking", *call.criteria.Industry.Name)

	body := decode(t, w)
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "TechCorp Inc", items[0].(map[string]any)["name"])
}

func TestSearch_DefaultsAndEmptyResult(t *testing.T) {
	e := newEnv(nil)

	w := e.do(http.MethodPost, "/api/v1/contractor/search", "CONTRACTOR_RUS", "")
	require.Equal(t, http.StatusOK, w.Code)

	call := e.contractors.searches[0]
	assert.Equal(t, "orm", call.strategy)
	assert.Equal(t, contractor.Page{Number: 0, Size: 10}, call.page)
	assert.True(t, call.criteria.IsEmpty())

	assert.JSONEq(t, `{"items":[],"page":0,"size":10}`, w.Body.String())
}

func TestSearch_RejectsBadPage(t *testing.T) {
	e := newEnv(nil)

	for _, q := range []string{"page=-1", "size=0", "page=abc"} {
		w := e.do(http.MethodPost, "/api/v1/contractor/search?"+q, "SUPERUSER", "")
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
	assert.Empty(t, e.contractors.searches)
}

func TestGetContractor(t *testing.T) {
	e := newEnv(nil)
	e.contractors.byID["c1"] = &contractor.Contractor{
		ID:      "c1",
		Name:    "ACME",
		Country: &contractor.CountryRef{ID: "RUS", Name: "Russia"},
	}

	w := e.do(http.MethodGet, "/api/v1/contractor/c1", "CREDIT_USER", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ACME", body["name"])
	assert.Equal(t, map[string]any{"id": "RUS", "name": "Russia"}, body["country"])

	w = e.do(http.MethodGet, "/api/v1/contractor/missing", "CREDIT_USER", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotFound, decode(t, w)["code"])

	e.contractors.getErr = apperror.NewNotActive("contractor", "c1")
	w = e.do(http.MethodGet, "/api/v1/contractor/c1", "CREDIT_USER", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperror.CodeNotActive, decode(t, w)["code"])

	w = e.do(http.MethodGet, "/api/v1/contractor/c1", "GUEST", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSaveContractor(t *testing.T) {
	e := newEnv(nil)

	w := e.do(http.MethodPut, "/api/v1/contractor/save", "SUPERUSER",
		`{"name":"ACME","inn":"7701234567","country":"RUS","industry":3}`)
	require.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, e.contractors.saved)
	assert.Equal(t, "ACME", e.contractors.saved.Name)
	assert.True(t, e.contractors.saved.IsActive)
	assert.Equal(t, "RUS", *e.contractors.saved.CountryID)
	assert.Equal(t, int64(3), *e.contractors.saved.IndustryID)
	assert.Equal(t, "u1", e.contractors.actor)
	assert.Equal(t, "generated", decode(t, w)["id"])
}

func TestSaveContractor_Validation(t *testing.T) {
	e := newEnv(nil)

	tests := map[string]string{
		"missing name":   `{"inn":"7701234567"}`,
		"non digit inn":  `{"name":"ACME","inn":"77O1"}`,
		"non digit ogrn": `{"name":"ACME","ogrn":"x"}`,
		"malformed json": `{"name":`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			w := e.do(http.MethodPut, "/api/v1/contractor/save", "SUPERUSER", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, apperror.CodeValidation, decode(t, w)["code"])
		})
	}
	assert.Nil(t, e.contractors.saved)

	w := e.do(http.MethodPut, "/api/v1/contractor/save", "CONTRACTOR_RUS", `{"name":"ACME"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMainBorrower(t *testing.T) {
	e := newEnv(nil)
	e.contractors.byID["c1"] = &contractor.Contractor{ID: "c1", Name: "ACME", IsActive: true}

	w := e.do(http.MethodPatch, "/api/v1/contractor/main-borrower", "CONTRACTOR_SUPERUSER",
		`{"contractorId":"c1","hasMainDeals":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, []contractor.MainBorrowerUpdate{{ContractorID: "c1", HasMainDeals: true}}, e.contractors.updates)
	assert.Equal(t, true, decode(t, w)["activeMainBorrower"])

	w = e.do(http.MethodPatch, "/api/v1/contractor/main-borrower", "CONTRACTOR_SUPERUSER", `{"contractorId":"c1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteContractor(t *testing.T) {
	e := newEnv(nil)

	w := e.do(http.MethodDelete, "/api/v1/contractor/delete/c1", "SUPERUSER", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"c1"}, e.contractors.deleted)
}

func TestLookupRoutes(t *testing.T) {
	e := newEnv(nil)

	w := e.do(http.MethodGet, "/api/v1/country/all", "USER", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"RUS","name":"Russia","isActive":true}]`, w.Body.String())

	w = e.do(http.MethodGet, "/api/v1/country/RUS", "USER", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/v1/industry/abc", "USER", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodGet, "/api/v1/industry/7", "USER", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(http.MethodPut, "/api/v1/industry/save", "USER", `{"name":"Banking"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(http.MethodPut, "/api/v1/industry/save", "SUPERUSER", `{"name":"Banking"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, e.industries.saved, 1)
	assert.Equal(t, &industry.Industry{Name: "Banking", IsActive: true}, e.industries.saved[0])

	w = e.do(http.MethodPut, "/api/v1/country/save", "SUPERUSER", `{"id":"RUSSIA","name":"Russia"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealth(t *testing.T) {
	health := handlers.NewHealthHandler("test", map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(context.Context) error { return nil }),
		"redis":    handlers.PingFunc(func(context.Context) error { return errors.New("connection refused") }),
	}, nil)
	e := newEnv(health)

	w := e.do(http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	body := decode(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, map[string]any{
		"database": "healthy",
		"redis":    "unhealthy: connection refused",
	}, body["checks"])

	w = e.do(http.MethodGet, "/health/info", "", "")
	assert.Equal(t, "test", decode(t, w)["version"])
}
