package httpserver

import (
	"context"
	"errors"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pos-terminal/internal/checkout"
	"pos-terminal/internal/domain"
	"pos-terminal/internal/pricing"
)

type CheckoutService interface {
	Calculator() pricing.Calculator
	Create(ctx context.Context) checkout.Session
	Get(ctx context.Context, id string) (checkout.Session, error)
	List(ctx context.Context) []checkout.Session
	Delete(ctx context.Context, id string) error
	AddItem(ctx context.Context, id string, productID int64) (checkout.Session, error)
	ChangeQuantity(ctx context.Context, id string, productID int64, delta int) (checkout.Session, error)
	RemoveItem(ctx context.Context, id string, productID int64) (checkout.Session, error)
	ClearCart(ctx context.Context, id string) (checkout.Session, error)
	OpenCart(ctx context.Context, id string) (checkout.Session, error)
	ProceedToPayment(ctx context.Context, id string) (checkout.Session, error)
	SelectPayment(ctx context.Context, id string, p checkout.Payment) (checkout.Session, error)
	ConfirmPayment(ctx context.Context, id string) (checkout.Session, error)
	Submit(ctx context.Context, id string) (checkout.Session, error)
	Cancel(ctx context.Context, id string) (checkout.Session, error)
	NewOrder(ctx context.Context, id string) (checkout.Session, error)
}

type CatalogService interface {
	List(search string) []domain.Product
	Categories() []string
	Refresh(ctx context.Context) error
}

type InventoryService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

type AccountService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Register(ctx context.Context, reg domain.Registration) (*domain.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*domain.User, error)
	Profile(ctx context.Context) (*domain.User, error)
	UpdateProfile(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
}

// BackendStatus reports whether backend calls are currently let through.
type BackendStatus interface {
	Available() bool
}

// Deps groups the services the router dispatches to.
type Deps struct {
	Checkout  CheckoutService
	Catalog   CatalogService
	Inventory InventoryService
	Account   AccountService
	Backend   BackendStatus
}

func (d Deps) validate() error {
	switch {
	case d.Checkout == nil:
		return errors.New("checkout service required")
	case d.Catalog == nil:
		return errors.New("catalog required")
	case d.Inventory == nil:
		return errors.New("inventory service required")
	case d.Account == nil:
		return errors.New("account service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if len(corsOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:  corsOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Backend))

	h := &handlers{deps: deps, logger: logger}

	auth := router.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/register", h.register)
	auth.POST("/logout", h.logout)
	auth.GET("/me", h.me)

	profile := router.Group("/profile")
	profile.GET("", h.profile)
	profile.PUT("", h.updateProfile)
	profile.PUT("/password", h.changePassword)

	router.GET("/products", h.listProducts)
	router.POST("/products/refresh", h.refreshProducts)

	inv := router.Group("/inventory")
	inv.GET("", h.listInventory)
	inv.GET("/:id", h.getInventory)
	inv.POST("", h.createInventory)
	inv.PUT("/:id", h.updateInventory)
	inv.DELETE("/:id", h.deleteInventory)

	sessions := router.Group("/sessions")
	sessions.GET("", h.listSessions)
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.getSession)
	sessions.DELETE("/:id", h.deleteSession)
	sessions.POST("/:id/items", h.addItem)
	sessions.PATCH("/:id/items/:productId", h.changeQuantity)
	sessions.DELETE("/:id/items/:productId", h.removeItem)
	sessions.DELETE("/:id/items", h.clearCart)
	sessions.POST("/:id/open", h.openCart)
	sessions.POST("/:id/proceed", h.proceed)
	sessions.PUT("/:id/payment", h.selectPayment)
	sessions.POST("/:id/confirm", h.confirm)
	sessions.POST("/:id/submit", h.submit)
	sessions.POST("/:id/cancel", h.cancel)
	sessions.POST("/:id/new-order", h.newOrder)

	return router, nil
}

type handlers struct {
	deps   Deps
	logger *zap.Logger
}

// requestLogger logs one line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Error("request", fields...)
		case c.Writer.Status() >= 400:
			logger.Info("request", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}
