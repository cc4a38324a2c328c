package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/domain"
)

type stubRepo struct {
	created  []domain.ProductInput
	updated  map[int64]domain.ProductInput
	deleted  []int64
	products []domain.Product
	err      error
}

func (s *stubRepo) List(context.Context) ([]domain.Product, error) { return s.products, s.err }

func (s *stubRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubRepo) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created = append(s.created, in)
	return &domain.Product{ID: int64(len(s.created)), Name: in.Name, Status: in.Status}, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.updated == nil {
		s.updated = map[int64]domain.ProductInput{}
	}
	s.updated[id] = in
	return &domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type stubCatalog struct {
	refreshes int
	err       error
}

func (s *stubCatalog) Refresh(context.Context) error {
	s.refreshes++
	return s.err
}

func validInput() domain.ProductInput {
	return domain.ProductInput{Name: " Latte ", Category: "Coffee", Price: decimal.RequireFromString("4.50"), Stock: 10}
}

func TestCreate_NormalizesAndRefreshes(t *testing.T) {
	repo := &stubRepo{}
	cat := &stubCatalog{}
	svc := New(repo, cat, nil)

	p, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "Latte", p.Name)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.ProductActive, repo.created[0].Status)
	assert.Equal(t, 1, cat.refreshes)
}

func TestCreate_Validation(t *testing.T) {
	cases := map[string]func(*domain.ProductInput){
		"name required":                     func(in *domain.ProductInput) { in.Name = "  " },
		"category required":                 func(in *domain.ProductInput) { in.Category = "" },
		"price must not be negative":        func(in *domain.ProductInput) { in.Price = decimal.NewFromInt(-1) },
		"stock must not be negative":        func(in *domain.ProductInput) { in.Stock = -2 },
		"status must be active or inactive": func(in *domain.ProductInput) { in.Status = "archived" },
	}
	for want, mutate := range cases {
		t.Run(want, func(t *testing.T) {
			repo := &stubRepo{}
			in := validInput()
			mutate(&in)

			_, err := New(repo, nil, nil).Create(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalid)
			assert.Equal(t, want, err.Error())
			assert.Empty(t, repo.created)
		})
	}
}

func TestUpdateAndDelete(t *testing.T) {
	repo := &stubRepo{}
	cat := &stubCatalog{err: errors.New("offline")}
	svc := New(repo, cat, nil)
	ctx := context.Background()

	_, err := svc.Update(ctx, 3, validInput())
	require.NoError(t, err)
	assert.Equal(t, "Latte", repo.updated[3].Name)

	require.NoError(t, svc.Delete(ctx, 3))
	assert.Equal(t, []int64{3}, repo.deleted)
	assert.Equal(t, 2, cat.refreshes)
}

func TestBackendErrorSkipsRefresh(t *testing.T) {
	repo := &stubRepo{err: errors.New("boom")}
	cat := &stubCatalog{}
	svc := New(repo, cat, nil)

	_, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)
	assert.Error(t, svc.Delete(context.Background(), 1))
	assert.Zero(t, cat.refreshes)
}

func TestListIncludesInactive(t *testing.T) {
	repo := &stubRepo{products: []domain.Product{
		{ID: 1, Status: domain.ProductActive},
		{ID: 2, Status: domain.ProductInactive},
	}}
	list, err := New(repo, nil, nil).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	p, err := New(repo, nil, nil).Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.ProductInactive, p.Status)
}
