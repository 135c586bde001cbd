package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/malchincamp/campbooking/api"
	"github.com/malchincamp/campbooking/config"
	"github.com/malchincamp/campbooking/internal/service/auth"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth     *api.AuthHandler
	Camps    *api.CampHandler
	Bookings *api.BookingHandler
	Products *api.ProductHandler
	Cart     *api.CartHandler
	Orders   *api.OrderHandler
	Reviews  *api.ReviewHandler
	Uploads  *api.UploadHandler

	AuthService auth.AuthUseCase
}

// Run starts the HTTP server and blocks until the context is canceled or the
// server fails.
func Run(ctx context.Context, cfg *config.Config, log *zap.Logger, h Handlers) error {
	router := newRouter(cfg, log, h)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newRouter(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.HTTP.UploadDir != "" {
		router.Static("/uploads", cfg.HTTP.UploadDir)
	}
	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	v1 := router.Group("/api/v1")

	h.Auth.Register(v1.Group("/auth"))
	h.Camps.Register(v1.Group("/camps"))
	h.Products.Register(v1.Group("/products"))
	h.Reviews.Register(v1)

	authed := v1.Group("/", api.AuthRequired(h.AuthService))
	h.Auth.RegisterProtected(authed.Group("/"))
	h.Camps.RegisterProtected(authed.Group("/camps"))
	h.Products.RegisterProtected(authed.Group("/products"))
	h.Bookings.Register(authed.Group("/bookings"))
	h.Cart.Register(authed.Group("/cart"))
	h.Orders.Register(authed.Group("/orders"))
	h.Orders.RegisterInvoices(authed.Group("/invoices"))
	h.Reviews.RegisterProtected(authed.Group("/"))
	authed.GET("/me/saved", h.Camps.SavedCamps)
	if h.Uploads != nil {
		h.Uploads.Register(authed.Group("/uploads"))
	}

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
