package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Karavaev93/campusparking/api"
	"github.com/Karavaev93/campusparking/config"
	"github.com/Karavaev93/campusparking/internal/auth"
	"github.com/Karavaev93/campusparking/internal/metrics"
	"github.com/Karavaev93/campusparking/internal/service/bookings"
	"github.com/Karavaev93/campusparking/internal/service/slots"
	"github.com/Karavaev93/campusparking/internal/service/users"
)

type Services struct {
	Slots    slots.SlotUseCase
	Bookings bookings.BookingUseCase
	Users    users.UserUseCase
	Tokens   *auth.Manager
	Metrics  *metrics.Metrics
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server
// fails.
func Run(ctx context.Context, cfg *config.Config, svcs Services) error {
	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: newRouter(cfg, svcs),
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

func newRouter(cfg *config.Config, svcs Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	if svcs.Metrics != nil {
		router.Use(countRequests(svcs.Metrics))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	authHandler := api.NewAuthHandler(svcs.Users)
	authHandler.Register(router.Group("/auth"))

	authed := router.Group("/")
	authed.Use(api.Auth(svcs.Tokens, svcs.Users))

	authHandler.RegisterProtected(authed.Group("/auth"))
	api.NewSlotHandler(svcs.Slots).Register(authed.Group("/api/slots"))
	api.NewBookingHandler(svcs.Bookings).Register(authed.Group("/api/bookings"))
	api.NewUserHandler(svcs.Users).Register(authed.Group("/api/users"))
	api.NewSummaryHandler(svcs.Bookings).Register(authed.Group("/api/summary"))

	return router
}

func countRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		m.HTTPRequests.WithLabelValues(c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
