package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

type stubSales struct {
	got  []domain.SaleRequest
	sale *domain.Sale
	err  error
}

func (s *stubSales) Create(_ context.Context, req domain.SaleRequest) (*domain.Sale, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return nil, s.err
	}
	return s.sale, nil
}

type stubStock struct {
	applied [][]domain.SaleItem
}

func (s *stubStock) ApplySale(items []domain.SaleItem) {
	s.applied = append(s.applied, items)
}

func confirmed(t *testing.T) Session {
	t.Helper()
	s, err := inPayment(t).SelectPayment(Payment{Method: MethodCard, Card: CardDetails{
		Number: "4242424242424242", Expiry: "12/30", CVC: "123", Holder: "A Buyer",
	}}, t0)
	require.NoError(t, err)
	s, err = s.ConfirmPayment(t0)
	require.NoError(t, err)
	return s
}

func newSubmitter(sales SaleCreator, stock StockAdjuster) *Submitter {
	sub := NewSubmitter(sales, stock, pricing.Default, nil)
	sub.now = func() time.Time { return time.UnixMilli(1700000654321) }
	return sub
}

func TestSubmit_Success(t *testing.T) {
	sales := &stubSales{sale: &domain.Sale{ID: 7}}
	stock := &stubStock{}
	s := confirmed(t)

	done, err := newSubmitter(sales, stock).Submit(context.Background(), s)
	require.NoError(t, err)

	require.Len(t, sales.got, 1)
	req := sales.got[0]
	assert.True(t, req.Total.Equal(dec("34.50")))
	assert.Equal(t, "Credit/Debit Card", req.PaymentMethod)
	require.Len(t, req.Items, 1)
	assert.Equal(t, int64(1), req.Items[0].ProductID)
	assert.Equal(t, 3, req.Items[0].Quantity)
	assert.True(t, req.Items[0].Price.Equal(dec("10")))

	require.Len(t, stock.applied, 1)
	assert.Equal(t, req.Items, stock.applied[0])

	assert.Equal(t, Success, done.State)
	require.NotNil(t, done.Receipt)
	assert.Equal(t, "INV-654321", done.Receipt.InvoiceNumber)
	assert.Equal(t, int64(7), done.Receipt.SaleID)
}

func TestSubmit_RejectedKeepsCart(t *testing.T) {
	sales := &stubSales{err: errors.New("HTTP error! status: 500")}
	stock := &stubStock{}
	s := confirmed(t)

	failed, err := newSubmitter(sales, stock).Submit(context.Background(), s)
	require.Error(t, err)

	assert.Equal(t, PaymentConfirm, failed.State)
	assert.Equal(t, FailureMessage, failed.Error)
	assert.Equal(t, s.Cart, failed.Cart)
	assert.True(t, failed.Total.Equal(s.Total))
	assert.Nil(t, failed.Receipt)
	assert.Empty(t, stock.applied)
}

func TestSubmit_RetryAfterFailure(t *testing.T) {
	sales := &stubSales{err: errors.New("boom")}
	sub := newSubmitter(sales, nil)

	failed, err := sub.Submit(context.Background(), confirmed(t))
	require.Error(t, err)

	sales.err = nil
	sales.sale = &domain.Sale{ID: 9}
	done, err := sub.Submit(context.Background(), failed)
	require.NoError(t, err)
	assert.Equal(t, Success, done.State)
	assert.Empty(t, done.Error)
	assert.Len(t, sales.got, 2)
}

func TestSubmit_WrongState(t *testing.T) {
	sales := &stubSales{}
	s := inPayment(t)

	next, err := newSubmitter(sales, nil).Submit(context.Background(), s)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, s, next)
	assert.Empty(t, sales.got)
}
