package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
	checkoutsvc "pos-terminal/internal/service/checkout"
)

type stubCatalog struct {
	products   []domain.Product
	refreshErr error
	refreshes  int
}

func (s *stubCatalog) List(search string) []domain.Product {
	var out []domain.Product
	for _, p := range s.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			out = append(out, p)
		}
	}
	return out
}

func (s *stubCatalog) Categories() []string { return []string{"Coffee"} }

func (s *stubCatalog) Refresh(context.Context) error {
	s.refreshes++
	return s.refreshErr
}

func (s *stubCatalog) Get(id int64) (domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, domain.ErrNotFound
}

type stubSales struct {
	err error
}

func (s *stubSales) Create(context.Context, domain.SaleRequest) (*domain.Sale, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sale{ID: 77}, nil
}

type stubInventory struct {
	products []domain.Product
	err      error
	created  []domain.ProductInput
}

func (s *stubInventory) List(context.Context) ([]domain.Product, error) { return s.products, s.err }

func (s *stubInventory) Get(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubInventory) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	return &domain.Product{ID: 10, Name: in.Name, Category: in.Category, Price: in.Price, Status: in.Status}, nil
}

func (s *stubInventory) Update(_ context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubInventory) Delete(context.Context, int64) error { return s.err }

type stubAccount struct {
	user     *domain.User
	loginErr error
	meErr    error
	loggedIn bool
}

func (s *stubAccount) Login(context.Context, string, string) (*domain.User, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	s.loggedIn = true
	return s.user, nil
}

func (s *stubAccount) Register(_ context.Context, reg domain.Registration) (*domain.User, error) {
	return &domain.User{ID: 2, Email: reg.Email, FullName: reg.FullName, Role: domain.RoleUser}, nil
}

func (s *stubAccount) Logout(context.Context) error {
	s.loggedIn = false
	return nil
}

func (s *stubAccount) Me(context.Context) (*domain.User, error) { return s.user, s.meErr }

func (s *stubAccount) Profile(context.Context) (*domain.User, error) { return s.user, s.meErr }

func (s *stubAccount) UpdateProfile(_ context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	return &domain.User{ID: s.user.ID, FullName: upd.FullName}, nil
}

func (s *stubAccount) ChangePassword(context.Context, domain.PasswordChange) error { return nil }

type stubBackend struct{ up bool }

func (s stubBackend) Available() bool { return s.up }

type testEnv struct {
	router    *gin.Engine
	catalog   *stubCatalog
	sales     *stubSales
	inventory *stubInventory
	account   *stubAccount
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{
		catalog: &stubCatalog{products: []domain.Product{
			{ID: 1, Name: "Widget", Category: "Coffee", Price: decimal.NewFromInt(10), Stock: 5, Status: domain.ProductActive},
			{ID: 2, Name: "Gadget", Category: "Coffee", Price: decimal.RequireFromString("2.50"), Stock: 0, Status: domain.ProductActive},
		}},
		sales:     &stubSales{},
		inventory: &stubInventory{},
		account:   &stubAccount{user: &domain.User{ID: 1, Email: "op@example.com", FullName: "Op", Role: domain.RoleAdmin}},
	}
	sub := checkout.NewSubmitter(env.sales, nil, pricing.Default, nil)
	router, err := buildRouter(nil, Deps{
		Checkout:  checkoutsvc.New(env.catalog, sub, pricing.Default, nil),
		Catalog:   env.catalog,
		Inventory: env.inventory,
		Account:   env.account,
		Backend:   stubBackend{up: true},
	}, []string{"http://localhost:5173"})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	env.router = router
	return env
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) sessionView {
	t.Helper()
	var body struct {
		Session sessionView `json:"session"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode session: %v body=%s", err, rec.Body.String())
	}
	return body.Session
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d body=%s", want, rec.Code, rec.Body.String())
	}
}

