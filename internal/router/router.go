package router

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"gatewaysandbox/internal/auth"
	"gatewaysandbox/internal/config"
	"gatewaysandbox/internal/handler"
	"gatewaysandbox/internal/metrics"
	"gatewaysandbox/internal/model"
	"gatewaysandbox/internal/validation"
)

const msgTooManyRequests = "Too many requests from this IP, please try again later."

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Config        *config.Config
	Log           *logrus.Logger
	Metrics       *metrics.Metrics
	Authenticator *auth.Authenticator

	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Business *handler.ListingHandler
	Product  *handler.ListingHandler
	Sandbox  *handler.SandboxHandler
	Health   *handler.HealthHandler
}

// New builds an echo instance with every route registered.
func New(d Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	Register(e, d)
	return e
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Dependencies) {
	cfg := d.Config

	e.Validator = validation.New()
	e.HTTPErrorHandler = NewErrorHandler(d.Log, cfg.IsDevelopment())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(d.Metrics.Middleware())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	e.Use(middleware.CORS())

	api := e.Group("/api/v1")

	// Public routes
	api.GET("", handler.Index)
	api.GET("/", handler.Index)
	api.GET("/healthz", d.Health.Healthz)
	api.GET("/readyz", d.Health.Readyz)
	api.GET("/metrics", d.Metrics.Handler())

	api.POST("/auth/signup", d.Auth.Signup)
	api.POST("/auth/login", d.Auth.Login, loginRateLimiter(cfg.Login.RateLimit))

	// Admin routes (require a valid bearer token and the admin role). The
	// guard is attached per route: group middleware would also claim unknown
	// paths and turn their 404 into a 401.
	admin := []echo.MiddlewareFunc{d.Authenticator.Middleware(), auth.RestrictTo(model.RoleAdmin)}

	api.GET("/user", d.Users.ListUsers, admin...)
	registerListing(api, model.KindBusiness, d.Business, admin)
	registerListing(api, model.KindProduct, d.Product, admin)

	// Sandbox gateways
	keyed := handler.RequireAPIKey(cfg.Sandbox.APIKey)

	anm := api.Group("/anm")
	anm.GET("", handler.Index)
	anm.POST("/check_wallet_balance", d.Sandbox.ANMWalletBalance, keyed)
	anm.POST("/checkTransaction", d.Sandbox.ANMTransactionStatus, keyed)
	anm.POST("/sendSms", d.Sandbox.ANMSendSMS, keyed)
	anm.POST("/debit-credit/sendRequest", d.Sandbox.ANMDebitCredit, keyed)
	anm.POST("/auto-debit/otp-validation", d.Sandbox.ANMValidateOTP, keyed)

	xpay := api.Group("/express-pay")
	xpay.GET("", handler.Index)
	xpay.POST("/direct/initiate", d.Sandbox.ExpressPayInitiate)
	xpay.POST("/direct/card", d.Sandbox.ExpressPayCard)
	xpay.POST("/direct/momo", d.Sandbox.ExpressPayMomo)
	xpay.POST("/direct/query", d.Sandbox.ExpressPayQuery)

	nalo := api.Group("/nalo")
	nalo.GET("", handler.Index)
	nalo.POST("/client/token", d.Sandbox.NaloToken)
	nalo.POST("/client/collection", d.Sandbox.NaloCollection)

	wigal := api.Group("/wigal")
	wigal.GET("", handler.Index)
	wigal.POST("/sms/otp/generate", d.Sandbox.WigalGenerateOTP, keyed)
	wigal.POST("/sms/otp/verify", d.Sandbox.WigalVerifyOTP, keyed)
}

func registerListing(g *echo.Group, kind model.ListingKind, h *handler.ListingHandler, m []echo.MiddlewareFunc) {
	base := "/" + string(kind)
	g.POST(base, h.Create, m...)
	g.GET(base, h.List, m...)
	g.GET(base+"/:id", h.Get, m...)
	g.PATCH(base+"/:id", h.Update, m...)
	g.DELETE(base+"/:id", h.Delete, m...)
}

func loginRateLimiter(perSecond float64) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     int(perSecond) + 1,
		ExpiresIn: 3 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyRequests)
		},
	})
}

func requestLogger(log *logrus.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"remote_ip":  v.RemoteIP,
				"request_id": v.RequestID,
			})
			switch {
			case v.Status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case v.Status >= http.StatusBadRequest:
				entry.Warn("request rejected")
			default:
				entry.Info("request served")
			}
			return nil
		},
	})
}
