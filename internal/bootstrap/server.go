package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/magicalboonies/safaribook/api"
	"github.com/magicalboonies/safaribook/config"
	"github.com/magicalboonies/safaribook/internal/auth"
	"github.com/magicalboonies/safaribook/internal/ratelim"
	"github.com/magicalboonies/safaribook/internal/service/booking"
	"github.com/magicalboonies/safaribook/internal/service/packages"
	"github.com/magicalboonies/safaribook/internal/service/reviews"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services groups everything the HTTP surface depends on.
type Services struct {
	Packages packages.PackageUseCase
	Bookings booking.BookingUseCase
	Reviews  reviews.ReviewUseCase
	Contact  api.ContactSender
}

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
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
	router := gin.Default()

	session := auth.NewMiddleware(cfg.Auth)
	limiter := ratelim.NewRateLimiter(cfg.HTTP.RateLimitPerMinute, cfg.HTTP.RateLimitBurst)

	packageHandler := api.NewPackageHandler(svcs.Packages)
	bookingHandler := api.NewBookingHandler(svcs.Bookings)
	paymentHandler := api.NewPaymentHandler(svcs.Bookings)
	reviewHandler := api.NewReviewHandler(svcs.Reviews)
	contactHandler := api.NewContactHandler(svcs.Contact)
	meHandler := api.NewMeHandler(svcs.Reviews)

	packageHandler.Register(router.Group("/packages"))
	reviewHandler.RegisterPublic(router.Group("/reviews"))
	paymentHandler.Register(router.Group("/payments"))

	contactGroup := router.Group("/contact", limiter.Limit())
	contactHandler.Register(contactGroup)

	bookingGroup := router.Group("/bookings", session.Require())
	bookingHandler.Register(bookingGroup)

	reviewGroup := router.Group("/reviews", session.Require(), limiter.Limit())
	reviewHandler.Register(reviewGroup)

	meGroup := router.Group("/me", session.Require())
	meHandler.Register(meGroup)

	if cfg.HTTP.SwaggerDir != "" {
		router.StaticFS("/swagger", http.Dir(cfg.HTTP.SwaggerDir))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(
			httpSwagger.URL("/swagger/openapi.json"),
		)))
	}

	return router
}
