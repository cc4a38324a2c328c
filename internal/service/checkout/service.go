// Package checkout runs the checkout sessions of the terminal.
package checkout

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

type productLookup interface {
	Get(id int64) (domain.Product, error)
}

type submitter interface {
	Submit(ctx context.Context, s checkout.Session) (checkout.Session, error)
}

// Service keeps the live sessions in memory, keyed by a random id.
type Service struct {
	products  productLookup
	submitter submitter
	calc      pricing.Calculator
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]checkout.Session
}

func New(products productLookup, sub submitter, calc pricing.Calculator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		products:  products,
		submitter: sub,
		calc:      calc,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]checkout.Session),
	}
}

// Calculator is the pricing used for every session.
func (s *Service) Calculator() pricing.Calculator {
	return s.calc
}

func (s *Service) Create(_ context.Context) checkout.Session {
	sess := checkout.New(uuid.NewString(), s.now())

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session_id", sess.ID))
	return sess
}

func (s *Service) Get(_ context.Context, id string) (checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return checkout.Session{}, domain.ErrNotFound
	}
	return sess, nil
}

// List returns all live sessions, oldest first.
func (s *Service) List(_ context.Context) []checkout.Session {
	s.mu.Lock()
	out := make([]checkout.Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	s.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (s *Service) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.sessions, id)
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

// AddItem adds one unit of a catalog product to the session cart.
func (s *Service) AddItem(ctx context.Context, id string, productID int64) (checkout.Session, error) {
	p, err := s.products.Get(productID)
	if err != nil {
		return checkout.Session{}, err
	}
	return s.apply(id, "add item", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.AddProduct(p, now)
	})
}

func (s *Service) ChangeQuantity(_ context.Context, id string, productID int64, delta int) (checkout.Session, error) {
	return s.apply(id, "change quantity", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.ChangeQuantity(productID, delta, now)
	})
}

func (s *Service) RemoveItem(_ context.Context, id string, productID int64) (checkout.Session, error) {
	return s.apply(id, "remove item", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.RemoveItem(productID, now)
	})
}

func (s *Service) ClearCart(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "clear cart", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.ClearCart(now)
	})
}

func (s *Service) OpenCart(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "open cart", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.OpenCart(now)
	})
}

func (s *Service) ProceedToPayment(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "proceed to payment", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.ProceedToPayment(s.calc, now)
	})
}

func (s *Service) SelectPayment(_ context.Context, id string, p checkout.Payment) (checkout.Session, error) {
	return s.apply(id, "select payment", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.SelectPayment(p, now)
	})
}

func (s *Service) ConfirmPayment(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "confirm payment", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.ConfirmPayment(now)
	})
}

func (s *Service) Cancel(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "cancel", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.Cancel(now), nil
	})
}

func (s *Service) NewOrder(_ context.Context, id string) (checkout.Session, error) {
	return s.apply(id, "new order", func(sess checkout.Session, now time.Time) (checkout.Session, error) {
		return sess.NewOrder(now)
	})
}

// Submit sends the confirmed sale of session id. The registry is not locked
// during the backend call, so a concurrent submit of the same session is not
// prevented. The result is stored only if the session was left untouched
// meanwhile; a session cancelled or deleted during the call keeps its newer
// state. On a backend failure the failed session is stored and returned
// together with the error.
func (s *Service) Submit(ctx context.Context, id string) (checkout.Session, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return checkout.Session{}, err
	}

	next, err := s.submitter.Submit(ctx, sess)
	if errors.Is(err, checkout.ErrInvalidTransition) {
		return sess, err
	}

	s.mu.Lock()
	current, ok := s.sessions[id]
	unchanged := ok && current.State == sess.State && current.UpdatedAt.Equal(sess.UpdatedAt)
	if unchanged {
		s.sessions[id] = next
	}
	s.mu.Unlock()

	if !unchanged {
		s.logger.Warn("session changed during submit, result not stored",
			zap.String("session_id", id),
			zap.String("result", string(next.State)),
			zap.Error(err),
		)
	}
	return next, err
}

func (s *Service) apply(id, action string, fn func(checkout.Session, time.Time) (checkout.Session, error)) (checkout.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return checkout.Session{}, domain.ErrNotFound
	}
	next, err := fn(sess, s.now())
	if err != nil {
		s.logger.Debug("session action rejected",
			zap.String("session_id", id),
			zap.String("action", action),
			zap.String("state", sess.State.String()),
			zap.Error(err),
		)
		return sess, err
	}
	s.sessions[id] = next
	s.logger.Debug("session action",
		zap.String("session_id", id),
		zap.String("action", action),
		zap.String("from", sess.State.String()),
		zap.String("to", next.State.String()),
	)
	return next, nil
}
