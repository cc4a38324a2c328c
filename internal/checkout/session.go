// Package checkout implements the sale flow of a terminal as a state machine
// over immutable session records.
package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"pos-terminal/internal/cart"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidTransition = errors.New("invalid checkout transition")
	ErrEmptyCart         = errors.New("cart is empty")
)

// Session is the in-progress sale of one terminal. Transition methods never
// modify the receiver; they return the next record.
type Session struct {
	ID        string
	State     State
	Cart      cart.Cart
	Payment   *Payment
	Total     decimal.Decimal
	Error     string
	Receipt   *Receipt
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New starts a session in the Browsing state with an empty cart.
func New(id string, now time.Time) Session {
	return Session{
		ID:        id,
		State:     Browsing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Totals computes the live totals of the cart. During payment the amount due
// is Total, captured when the session left the cart.
func (s Session) Totals(calc pricing.Calculator) pricing.Totals {
	return calc.Compute(s.Cart.Items())
}

// AmountDue is the captured total once payment started, otherwise zero.
func (s Session) AmountDue() decimal.Decimal {
	switch s.State {
	case PaymentSelect, PaymentConfirm, Success:
		return s.Total
	default:
		return decimal.Zero
	}
}

// Change is the cash change for the selected payment, zero when none.
func (s Session) Change() decimal.Decimal {
	if s.Payment == nil {
		return decimal.Zero
	}
	return s.Payment.Change(s.Total)
}

// AddProduct adds p to the cart and opens it.
func (s Session) AddProduct(p domain.Product, now time.Time) (Session, error) {
	if !s.State.cartEditable() {
		return s, invalid("add product", s.State)
	}
	c, err := s.Cart.AddOrIncrement(p)
	if err != nil {
		return s, err
	}
	next := s.touch(now)
	next.Cart = c
	next.State = CartOpen
	return next, nil
}

// OpenCart shows the cart without adding anything.
func (s Session) OpenCart(now time.Time) (Session, error) {
	if !s.State.cartEditable() {
		return s, invalid("open cart", s.State)
	}
	next := s.touch(now)
	next.State = CartOpen
	return next, nil
}

func (s Session) ChangeQuantity(productID int64, delta int, now time.Time) (Session, error) {
	if !s.State.cartEditable() {
		return s, invalid("change quantity", s.State)
	}
	next := s.touch(now)
	next.Cart = s.Cart.ChangeQuantity(productID, delta)
	return next, nil
}

func (s Session) RemoveItem(productID int64, now time.Time) (Session, error) {
	if !s.State.cartEditable() {
		return s, invalid("remove item", s.State)
	}
	next := s.touch(now)
	next.Cart = s.Cart.Remove(productID)
	return next, nil
}

func (s Session) ClearCart(now time.Time) (Session, error) {
	if !s.State.cartEditable() {
		return s, invalid("clear cart", s.State)
	}
	next := s.touch(now)
	next.Cart = s.Cart.Clear()
	return next, nil
}

// ProceedToPayment captures the current total and moves to method selection.
// Later cart changes are not reflected in the captured total.
func (s Session) ProceedToPayment(calc pricing.Calculator, now time.Time) (Session, error) {
	if s.State != CartOpen {
		return s, invalid("proceed to payment", s.State)
	}
	if s.Cart.IsEmpty() {
		return s, ErrEmptyCart
	}
	next := s.touch(now)
	next.Total = s.Totals(calc).Total
	next.Payment = nil
	next.State = PaymentSelect
	return next, nil
}

// SelectPayment records the chosen method and its fields. It does not
// validate them; ConfirmPayment does.
func (s Session) SelectPayment(p Payment, now time.Time) (Session, error) {
	if s.State != PaymentSelect {
		return s, invalid("select payment", s.State)
	}
	if p.Method == "" {
		return s, ErrPaymentMethodRequired
	}
	p.CryptoCurrency = p.currency()
	next := s.touch(now)
	next.Payment = &p
	return next, nil
}

// ConfirmPayment validates the selected payment against the captured total
// and moves to PaymentConfirm, where the sale is submitted.
func (s Session) ConfirmPayment(now time.Time) (Session, error) {
	if s.State != PaymentSelect {
		return s, invalid("confirm payment", s.State)
	}
	if s.Payment == nil {
		return s, ErrPaymentMethodRequired
	}
	if err := s.Payment.Validate(s.Total); err != nil {
		return s, err
	}
	next := s.touch(now)
	next.State = PaymentConfirm
	return next, nil
}

// Complete records a successful submission.
func (s Session) Complete(r Receipt, now time.Time) (Session, error) {
	if s.State != PaymentConfirm {
		return s, invalid("complete sale", s.State)
	}
	next := s.touch(now)
	next.Receipt = &r
	next.State = Success
	return next, nil
}

// Fail keeps the session in PaymentConfirm with a user visible message so the
// submission can be retried.
func (s Session) Fail(message string, now time.Time) (Session, error) {
	if s.State != PaymentConfirm {
		return s, invalid("fail sale", s.State)
	}
	next := s.touch(now)
	next.Error = message
	return next, nil
}

// NewOrder starts over after a completed sale.
func (s Session) NewOrder(now time.Time) (Session, error) {
	if s.State != Success {
		return s, invalid("new order", s.State)
	}
	return s.reset(now, true), nil
}

// Cancel returns to Browsing from any state. Payment data is discarded; the
// cart survives unless the sale already completed.
func (s Session) Cancel(now time.Time) Session {
	return s.reset(now, s.State == Success)
}

func (s Session) reset(now time.Time, clearCart bool) Session {
	next := s.touch(now)
	next.State = Browsing
	next.Payment = nil
	next.Total = decimal.Zero
	next.Receipt = nil
	if clearCart {
		next.Cart = s.Cart.Clear()
	}
	return next
}

// touch copies s, stamps it and drops any error from the previous step.
func (s Session) touch(now time.Time) Session {
	next := s
	next.Error = ""
	next.UpdatedAt = now
	return next
}

func invalid(action string, from State) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, action, from)
}
