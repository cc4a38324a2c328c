package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

type stubProducts map[int64]domain.Product

func (s stubProducts) Get(id int64) (domain.Product, error) {
	p, ok := s[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

type stubSales struct {
	err      error
	calls    int
	onCreate func()
}

func (s *stubSales) Create(_ context.Context, _ domain.SaleRequest) (*domain.Sale, error) {
	s.calls++
	if s.onCreate != nil {
		s.onCreate()
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Sale{ID: int64(s.calls)}, nil
}

func newService(sales *stubSales) *Service {
	products := stubProducts{
		1: {ID: 1, Name: "Widget", Price: decimal.NewFromInt(10), Stock: 5, Status: domain.ProductActive},
	}
	sub := checkout.NewSubmitter(sales, nil, pricing.Default, nil)
	return New(products, sub, pricing.Default, nil)
}

func walkToConfirm(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.AddItem(ctx, id, 1)
		require.NoError(t, err)
	}
	_, err := svc.ProceedToPayment(ctx, id)
	require.NoError(t, err)
	_, err = svc.SelectPayment(ctx, id, checkout.Payment{Method: checkout.MethodCash, CashReceived: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = svc.ConfirmPayment(ctx, id)
	require.NoError(t, err)
}

func TestService_CreateGetDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService(&stubSales{})

	sess := svc.Create(ctx)
	require.NotEmpty(t, sess.ID)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Browsing, got.State)
	assert.Len(t, svc.List(ctx), 1)

	require.NoError(t, svc.Delete(ctx, sess.ID))
	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, sess.ID), domain.ErrNotFound)
}

func TestService_AddUnknownProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService(&stubSales{})
	sess := svc.Create(ctx)

	_, err := svc.AddItem(ctx, sess.ID, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_UnknownSession(t *testing.T) {
	_, err := newService(&stubSales{}).OpenCart(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_RejectedTransitionKeepsSession(t *testing.T) {
	ctx := context.Background()
	svc := newService(&stubSales{})
	sess := svc.Create(ctx)

	_, err := svc.ConfirmPayment(ctx, sess.ID)
	assert.ErrorIs(t, err, checkout.ErrInvalidTransition)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Browsing, got.State)
}

func TestService_SubmitSuccessAndNewOrder(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{}
	svc := newService(sales)
	sess := svc.Create(ctx)
	walkToConfirm(t, svc, sess.ID)

	done, err := svc.Submit(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Success, done.State)
	require.NotNil(t, done.Receipt)
	assert.True(t, done.Receipt.Change.Equal(decimal.RequireFromString("15.5")))

	stored, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Success, stored.State)

	fresh, err := svc.NewOrder(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Browsing, fresh.State)
	assert.True(t, fresh.Cart.IsEmpty())
}

func TestService_SubmitFailureStoresError(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{err: errors.New("HTTP error! status: 500")}
	svc := newService(sales)
	sess := svc.Create(ctx)
	walkToConfirm(t, svc, sess.ID)

	failed, err := svc.Submit(ctx, sess.ID)
	require.Error(t, err)
	assert.Equal(t, checkout.FailureMessage, failed.Error)

	stored, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.PaymentConfirm, stored.State)
	assert.Equal(t, checkout.FailureMessage, stored.Error)
	assert.Equal(t, 1, stored.Cart.Len())
}

func TestService_SubmitWrongState(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{}
	svc := newService(sales)
	sess := svc.Create(ctx)

	_, err := svc.Submit(ctx, sess.ID)
	assert.ErrorIs(t, err, checkout.ErrInvalidTransition)
	assert.Zero(t, sales.calls)
}

func TestService_SubmitDoesNotOverwriteCancelledSession(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{}
	svc := newService(sales)
	sess := svc.Create(ctx)
	walkToConfirm(t, svc, sess.ID)

	sales.onCreate = func() {
		_, err := svc.Cancel(ctx, sess.ID)
		require.NoError(t, err)
	}

	done, err := svc.Submit(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Success, done.State)

	stored, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, checkout.Browsing, stored.State)
	assert.Nil(t, stored.Receipt)
	assert.Equal(t, 1, stored.Cart.Len())
}

func TestService_SubmitAfterDeleteIsNotStored(t *testing.T) {
	ctx := context.Background()
	sales := &stubSales{}
	svc := newService(sales)
	sess := svc.Create(ctx)
	walkToConfirm(t, svc, sess.ID)

	sales.onCreate = func() {
		require.NoError(t, svc.Delete(ctx, sess.ID))
	}

	_, err := svc.Submit(ctx, sess.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, svc.List(ctx))
}
