package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
)

type addItemRequest struct {
	ProductID int64 `json:"productId"`
}

type changeQuantityRequest struct {
	Delta int `json:"delta"`
}

type cardRequest struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVC    string `json:"cvc"`
	Holder string `json:"holder"`
}

type paymentRequest struct {
	Method         string          `json:"method"`
	Card           cardRequest     `json:"card"`
	CryptoCurrency string          `json:"cryptoCurrency"`
	WalletAddress  string          `json:"walletAddress"`
	CashReceived   decimal.Decimal `json:"cashReceived"`
}

func (r paymentRequest) toPayment() (checkout.Payment, error) {
	m, err := checkout.ParseMethod(r.Method)
	if err != nil {
		if errors.Is(err, checkout.ErrPaymentMethodRequired) {
			return checkout.Payment{}, err
		}
		return checkout.Payment{}, domain.Invalid(err.Error())
	}
	return checkout.Payment{
		Method: m,
		Card: checkout.CardDetails{
			Number: r.Card.Number,
			Expiry: r.Card.Expiry,
			CVC:    r.Card.CVC,
			Holder: r.Card.Holder,
		},
		CryptoCurrency: r.CryptoCurrency,
		WalletAddress:  r.WalletAddress,
		CashReceived:   r.CashReceived,
	}, nil
}

func (h *handlers) renderSession(c *gin.Context, status int, s checkout.Session) {
	c.JSON(status, gin.H{"session": toSessionView(s, h.deps.Checkout.Calculator())})
}

func (h *handlers) listSessions(c *gin.Context) {
	calc := h.deps.Checkout.Calculator()
	sessions := h.deps.Checkout.List(c.Request.Context())
	out := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionView(s, calc))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (h *handlers) createSession(c *gin.Context) {
	h.renderSession(c, http.StatusCreated, h.deps.Checkout.Create(c.Request.Context()))
}

func (h *handlers) getSession(c *gin.Context) {
	s, err := h.deps.Checkout.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.renderSession(c, http.StatusOK, s)
}

func (h *handlers) deleteSession(c *gin.Context) {
	if err := h.deps.Checkout.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId required"})
		return
	}
	h.respond(c)(h.deps.Checkout.AddItem(c.Request.Context(), c.Param("id"), req.ProductID))
}

func (h *handlers) changeQuantity(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	var req changeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Delta == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "non-zero delta required"})
		return
	}
	h.respond(c)(h.deps.Checkout.ChangeQuantity(c.Request.Context(), c.Param("id"), productID, req.Delta))
}

func (h *handlers) removeItem(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}
	h.respond(c)(h.deps.Checkout.RemoveItem(c.Request.Context(), c.Param("id"), productID))
}

func (h *handlers) clearCart(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.ClearCart(c.Request.Context(), c.Param("id")))
}

func (h *handlers) openCart(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.OpenCart(c.Request.Context(), c.Param("id")))
}

func (h *handlers) proceed(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.ProceedToPayment(c.Request.Context(), c.Param("id")))
}

func (h *handlers) selectPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment body"})
		return
	}
	p, err := req.toPayment()
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.respond(c)(h.deps.Checkout.SelectPayment(c.Request.Context(), c.Param("id"), p))
}

func (h *handlers) confirm(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.ConfirmPayment(c.Request.Context(), c.Param("id")))
}

// submit answers 200 with the completed session, or the backend error status
// with the session still in payment_confirm and its error message set.
func (h *handlers) submit(c *gin.Context) {
	s, err := h.deps.Checkout.Submit(c.Request.Context(), c.Param("id"))
	if err == nil {
		h.renderSession(c, http.StatusOK, s)
		return
	}
	if s.ID == "" || s.Error == "" {
		h.writeError(c, err)
		return
	}
	status, _ := statusFor(err)
	h.logger.Warn("sale submission failed", zap.String("session_id", s.ID), zap.Error(err))
	_ = c.Error(err)
	c.JSON(status, gin.H{
		"error":   s.Error,
		"session": toSessionView(s, h.deps.Checkout.Calculator()),
	})
}

func (h *handlers) cancel(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.Cancel(c.Request.Context(), c.Param("id")))
}

func (h *handlers) newOrder(c *gin.Context) {
	h.respond(c)(h.deps.Checkout.NewOrder(c.Request.Context(), c.Param("id")))
}

// respond renders the result of a session transition.
func (h *handlers) respond(c *gin.Context) func(checkout.Session, error) {
	return func(s checkout.Session, err error) {
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.renderSession(c, http.StatusOK, s)
	}
}

func productIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, false
	}
	return id, true
}
