package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"berrypay/internal/handler"
	"berrypay/internal/metrics"
	authmw "berrypay/internal/middleware"
	"berrypay/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Deps struct {
	Users     service.UserService
	Products  service.ProductService
	Checkouts service.CheckoutService
	Sales     service.SaleService
	Payments  service.PaymentService
	Settings  service.SettingsService
	Stats     service.StatsService
	Uploads   service.UploadService

	Cookie         handler.CookieConfig
	UploadDir      string
	UploadMaxBytes int64
	CountdownTick  time.Duration
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

type Server struct {
	echo            *echo.Echo
	requireAuth     echo.MiddlewareFunc
	userHandler     *handler.UserHandler
	productHandler  *handler.ProductHandler
	checkoutHandler *handler.CheckoutHandler
	paymentHandler  *handler.PaymentHandler
	saleHandler     *handler.SaleHandler
	settingsHandler *handler.SettingsHandler
	statsHandler    *handler.StatsHandler
	uploadHandler   *handler.UploadHandler
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger.With("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(logger)

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(requestLogger(logger, deps.Metrics))

	s := &Server{
		echo:            e,
		requireAuth:     authmw.AuthMiddleware(deps.Users, deps.Cookie.Name),
		userHandler:     handler.NewUserHandler(deps.Users, deps.Cookie),
		productHandler:  handler.NewProductHandler(deps.Products),
		checkoutHandler: handler.NewCheckoutHandler(deps.Checkouts, deps.Sales, deps.CountdownTick),
		paymentHandler:  handler.NewPaymentHandler(deps.Sales, deps.Payments),
		saleHandler:     handler.NewSaleHandler(deps.Sales),
		settingsHandler: handler.NewSettingsHandler(deps.Settings),
		statsHandler:    handler.NewStatsHandler(deps.Stats),
		uploadHandler:   handler.NewUploadHandler(deps.Uploads, deps.UploadMaxBytes),
	}

	if deps.UploadDir != "" {
		e.Static("/uploads", deps.UploadDir)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")
	auth := s.requireAuth

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- auth --------
	api.POST("/auth/register", s.userHandler.Register)
	api.POST("/auth/login", s.userHandler.Login)
	api.POST("/auth/logout", s.userHandler.Logout)
	api.GET("/auth/user", s.userHandler.CurrentUser, auth)

	// -------- dashboard --------
	products := api.Group("/products", auth)
	products.GET("", s.productHandler.List)
	products.POST("", s.productHandler.Create)
	products.GET("/:id", s.productHandler.Get)
	products.PATCH("/:id", s.productHandler.Update)
	products.DELETE("/:id", s.productHandler.Delete)

	// public routes share the prefix, so auth is applied per route
	checkouts := api.Group("/checkouts")
	checkouts.GET("", s.checkoutHandler.List, auth)
	checkouts.POST("", s.checkoutHandler.Create, auth)
	checkouts.GET("/:id", s.checkoutHandler.Get, auth)
	checkouts.PATCH("/:id", s.checkoutHandler.Update, auth)
	checkouts.POST("/:id/editor", s.checkoutHandler.ApplyEditor, auth)
	checkouts.GET("/:id/editor/countdown", s.checkoutHandler.Countdown, auth)
	checkouts.GET("/public/:slug", s.checkoutHandler.PublicView)
	checkouts.POST("/public/:slug/purchase", s.checkoutHandler.Purchase)

	api.GET("/settings", s.settingsHandler.Get, auth)
	api.POST("/settings", s.settingsHandler.Save, auth)

	api.GET("/sales", s.saleHandler.List, auth)
	api.PATCH("/sales/:id/status", s.saleHandler.UpdateStatus, auth)

	api.GET("/stats", s.statsHandler.Get, auth)
	api.POST("/upload", s.uploadHandler.Upload, auth)

	// -------- buyer payment callbacks --------
	paypal := api.Group("/paypal")
	paypal.POST("/create-order", s.paymentHandler.CreatePaypalOrder)
	paypal.POST("/capture-order/:orderId", s.paymentHandler.CapturePaypalOrder)

	api.POST("/pix/confirm/:orderId", s.paymentHandler.ConfirmPix)
}

// requestLogger routes echo's request log into slog and records latency
// per matched route.
func requestLogger(logger *slog.Logger, m *metrics.Metrics) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if m != nil {
				m.HTTPLatency.
					WithLabelValues(v.Method, c.Path(), strconv.Itoa(v.Status)).
					Observe(v.Latency.Seconds())
			}

			attrs := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
			}
			if v.Error != nil {
				attrs = append(attrs, "err", v.Error)
			}
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request", slog.Group("http", attrs...))
			return nil
		},
	})
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
