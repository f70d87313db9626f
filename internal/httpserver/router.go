package httpserver

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"furnish-storefront/internal/backend"
	"furnish-storefront/internal/domain"
	accountsvc "furnish-storefront/internal/service/account"
	cartsvc "furnish-storefront/internal/service/cart"
	checkoutsvc "furnish-storefront/internal/service/checkout"
	sessionsvc "furnish-storefront/internal/service/session"
)

// CartStore is the cart surface the handlers need.
type CartStore interface {
	Load(ctx context.Context, sessionID string) domain.CartState
	AddItem(ctx context.Context, sessionID string, in cartsvc.AddInput) domain.CartState
	RemoveItem(ctx context.Context, sessionID, id string) domain.CartState
	UpdateQuantity(ctx context.Context, sessionID, id string, quantity int) domain.CartState
	Clear(ctx context.Context, sessionID string) domain.CartState
}

// SessionStore is the auth surface the handlers and the guard need.
type SessionStore interface {
	Restore(ctx context.Context, sessionID string) domain.Session
	CheckAuth(ctx context.Context, sessionID string) domain.Session
	SignIn(ctx context.Context, sessionID, email, password string) sessionsvc.Result
	SignUp(ctx context.Context, sessionID, email, password string, meta domain.UserMetadata) sessionsvc.Result
	SignInWithGoogle(ctx context.Context, sessionID, redirectTo string) sessionsvc.Result
	CompleteOAuth(ctx context.Context, sessionID, accessToken, refreshToken string) sessionsvc.Result
	ExchangeCode(ctx context.Context, sessionID, code string) sessionsvc.Result
	SignOut(ctx context.Context, sessionID string)
	ForgotPassword(ctx context.Context, email string) sessionsvc.Result
}

// CheckoutService drives the three-step flow.
type CheckoutService interface {
	SaveShipping(ctx context.Context, sessionID string, sess domain.Session, info domain.ShippingInfo, methodID string) (*checkoutsvc.Draft, error)
	Summary(ctx context.Context, sessionID string, sess domain.Session) (*checkoutsvc.Summary, error)
	Pay(ctx context.Context, sessionID string, sess domain.Session, paymentMethodID string) (*backend.PaymentIntentResult, error)
	Submit(ctx context.Context, sessionID string, sess domain.Session) (*domain.Order, error)
}

// AccountService backs the dashboard routes.
type AccountService interface {
	Addresses(ctx context.Context, sess domain.Session) ([]domain.Address, error)
	CreateAddress(ctx context.Context, sess domain.Session, a domain.Address) (*domain.Address, error)
	UpdateAddress(ctx context.Context, sess domain.Session, id string, a domain.Address) (*domain.Address, error)
	DeleteAddress(ctx context.Context, sess domain.Session, id string) error
	SetDefaultAddress(ctx context.Context, sess domain.Session, id string) error
	Profile(ctx context.Context, sess domain.Session) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, sess domain.Session, p domain.Profile) (*domain.Profile, error)
	CreateTicket(ctx context.Context, sess domain.Session, t domain.SupportTicket) (*domain.SupportTicket, error)
	SubscribeNewsletter(ctx context.Context, email string) error
}

// Deps bundles everything the router needs.
type Deps struct {
	Cart     CartStore
	Session  SessionStore
	Checkout CheckoutService
	Account  AccountService
	// AllowedOrigins feeds CORS; empty means same-origin only.
	AllowedOrigins []string
}

// buildRouter wires routes for the storefront.
func buildRouter(log zerolog.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Cart == nil || deps.Session == nil || deps.Checkout == nil || deps.Account == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}

	gin.SetMode(gin.ReleaseMode)
	gin.DefaultWriter = io.Discard
	router := gin.New()
	router.Use(requestLogger(log), gin.Recovery())

	if len(deps.AllowedOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = deps.AllowedOrigins
		cfg.AllowCredentials = true
		cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
		router.Use(cors.New(cfg))
	}

	router.Use(shopperSession())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	registerAuthRoutes(router, deps.Session)
	registerCartRoutes(router, deps.Cart)
	registerCheckoutRoutes(router, deps.Checkout, deps.Session)
	registerAccountRoutes(router, deps.Account, deps.Session)

	return router, nil
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Msg("request")
	}
}

// writeError maps service errors onto HTTP statuses. Backend-reported
// messages pass through; transport failures collapse to one generic line.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, checkoutsvc.ErrNotAuthenticated),
		errors.Is(err, accountsvc.ErrNotAuthenticated),
		errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign-in required"})
	case errors.Is(err, accountsvc.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, checkoutsvc.ErrEmptyCart),
		errors.Is(err, checkoutsvc.ErrNoShippingInfo),
		errors.Is(err, checkoutsvc.ErrPaymentRequired),
		errors.Is(err, checkoutsvc.ErrUnknownMethod):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, backend.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream unavailable"})
	default:
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.Status
			if status < 400 {
				status = http.StatusBadGateway
			}
			c.JSON(status, gin.H{"error": apiErr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
