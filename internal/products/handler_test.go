package products_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/stockroom/internal/auth"
	"github.com/odyssey-erp/stockroom/internal/products"
	"github.com/odyssey-erp/stockroom/internal/rbac"
	"github.com/odyssey-erp/stockroom/internal/security"
	"github.com/odyssey-erp/stockroom/internal/shared"
	_ "github.com/odyssey-erp/stockroom/testing"
)

type stubRepo struct {
	mu       sync.Mutex
	nextID   int64
	items    map[int64]products.Product
	lastName string
}

func newStubRepo() *stubRepo {
	return &stubRepo{nextID: 1, items: make(map[int64]products.Product)}
}

func (s *stubRepo) List(ctx context.Context, f products.ListFilters) ([]products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastName = f.Name
	out := []products.Product{}
	for id := int64(1); id < s.nextID; id++ {
		p, ok := s.items[id]
		if ok && strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) Create(ctx context.Context, p products.Product) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Code == p.Code {
			return products.Product{}, shared.ErrDuplicate
		}
	}
	p.ID = s.nextID
	s.items[p.ID] = p
	s.nextID++
	return p, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, p products.Product) (products.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[id]
	if !ok {
		return products.Product{}, shared.ErrNotFound
	}
	existing.Name, existing.Description, existing.Quantity, existing.Price = p.Name, p.Description, p.Quantity, p.Price
	s.items[id] = existing
	return existing, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

type accountStore map[int64]*auth.Account

func (a accountStore) FindByID(ctx context.Context, id int64) (*auth.Account, error) {
	acc, ok := a[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return acc, nil
}

func (a accountStore) RoleIDForAccount(ctx context.Context, id int64) (int64, error) {
	acc, ok := a[id]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return acc.RoleID, nil
}

type fixture struct {
	router http.Handler
	repo   *stubRepo
	tokens map[int64]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	accounts := accountStore{
		1: {ID: 1, Username: "admin", RoleID: rbac.RoleSuperAdmin},
		2: {ID: 2, Username: "auditor", RoleID: rbac.RoleAuditor},
		3: {ID: 3, Username: "registrar", RoleID: rbac.RoleRegistrar},
	}
	codec, err := security.NewCodec([]byte("products-test-secret"))
	require.NoError(t, err)
	tokens := make(map[int64]string)
	for id := range accounts {
		tok, err := codec.Issue(id)
		require.NoError(t, err)
		tokens[id] = tok.Value
	}

	repo := newStubRepo()
	authGate := auth.NewGate(nil, codec, accounts)
	roleGate := rbac.NewGate(nil, accounts, nil, nil)
	h := products.NewHandler(nil, products.NewService(repo), authGate.Require, roleGate)
	r := chi.NewRouter()
	r.Route("/api/products", h.MountRoutes)
	return &fixture{router: r, repo: repo, tokens: tokens}
}

func (f *fixture) do(method, target, body string, accountID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if accountID != 0 {
		req.Header.Set("Authorization", "Bearer "+f.tokens[accountID])
	}
	res := httptest.NewRecorder()
	f.router.ServeHTTP(res, req)
	return res
}

const widget = `{"code":"W-1","name":"Widget","description":"blue","quantity":5,"price":9.5}`

func TestListIsPublic(t *testing.T) {
	f := newFixture(t)
	res := f.do(http.MethodGet, "/api/products", "", 0)
	require.Equal(t, http.StatusOK, res.Code)
	require.JSONEq(t, `[]`, res.Body.String())
}

func TestSearchFiltersByName(t *testing.T) {
	f := newFixture(t)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/products", widget, 1).Code)
	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/products", `{"code":"G-1","name":"Gadget"}`, 1).Code)

	res := f.do(http.MethodGet, "/api/products?name=widg", "", 0)
	require.Equal(t, http.StatusOK, res.Code)
	var list []products.Product
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &list))
	require.Len(t, list, 1)
	require.Equal(t, "Widget", list[0].Name)
}

func TestSearchScreening(t *testing.T) {
	f := newFixture(t)

	for _, term := range []string{"x' OR 1=1", "a; DROP TABLE products", "name--", "union select", "Or"} {
		res := f.do(http.MethodGet, "/api/products?name="+url.QueryEscape(term), "", 0)
		require.Equal(t, http.StatusBadRequest, res.Code, term)
		require.JSONEq(t, `{"error":"Invalid search parameter"}`, res.Body.String())
	}
	require.Empty(t, f.repo.lastName)

	for _, term := range []string{"Orange", "Android", "selection", "dropper"} {
		res := f.do(http.MethodGet, "/api/products?name="+url.QueryEscape(term), "", 0)
		require.Equal(t, http.StatusOK, res.Code, term)
	}
}

func TestSearchScreeningRunsBeforeGates(t *testing.T) {
	f := newFixture(t)
	res := f.do(http.MethodPost, "/api/products?name="+url.QueryEscape("1;"), widget, 0)
	require.Equal(t, http.StatusBadRequest, res.Code)
}

func TestCreateRequiresAuthenticationBeforeRole(t *testing.T) {
	f := newFixture(t)
	res := f.do(http.MethodPost, "/api/products", widget, 0)
	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Empty(t, f.repo.items)
}

func TestMutationsByRole(t *testing.T) {
	f := newFixture(t)

	res := f.do(http.MethodPost, "/api/products", widget, 2)
	require.Equal(t, http.StatusForbidden, res.Code)
	require.JSONEq(t, `{"error":"Forbidden"}`, res.Body.String())
	require.Empty(t, f.repo.items)

	res = f.do(http.MethodPost, "/api/products", widget, 3)
	require.Equal(t, http.StatusCreated, res.Code)
	var created products.Product
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))
	require.Equal(t, "W-1", created.Code)

	require.Equal(t, http.StatusForbidden, f.do(http.MethodPut, "/api/products/1", widget, 2).Code)
	require.Equal(t, http.StatusForbidden, f.do(http.MethodDelete, "/api/products/1", "", 2).Code)

	res = f.do(http.MethodPut, "/api/products/1", `{"name":"Widget XL","quantity":7,"price":12}`, 1)
	require.Equal(t, http.StatusOK, res.Code)
	require.Contains(t, res.Body.String(), `"message":"Product updated"`)
	require.Equal(t, "Widget XL", f.repo.items[1].Name)

	require.Equal(t, http.StatusOK, f.do(http.MethodDelete, "/api/products/1", "", 3).Code)
	res = f.do(http.MethodDelete, "/api/products/1", "", 3)
	require.Equal(t, http.StatusNotFound, res.Code)
	require.JSONEq(t, `{"error":"Product not found"}`, res.Body.String())
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	for _, body := range []string{
		`{"name":"No code"}`,
		`{"code":"X"}`,
		`{"code":"X","name":"Neg","quantity":-1}`,
		`{"code":"X","name":"Neg","price":-2}`,
		`[`,
	} {
		require.Equal(t, http.StatusBadRequest, f.do(http.MethodPost, "/api/products", body, 1).Code, body)
	}

	require.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/api/products", widget, 1).Code)
	require.Equal(t, http.StatusConflict, f.do(http.MethodPost, "/api/products", widget, 1).Code)
}

func TestValidSearchTerm(t *testing.T) {
	require.True(t, products.ValidSearchTerm("bolt"))
	require.True(t, products.ValidSearchTerm("Ordinary"))
	require.False(t, products.ValidSearchTerm("it's"))
	require.False(t, products.ValidSearchTerm("a AND b"))
	require.False(t, products.ValidSearchTerm("SeLeCt"))
}
