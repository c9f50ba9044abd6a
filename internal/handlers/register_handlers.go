package handlers

import (
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// ErrorResponse is the generic error body returned by handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	RegisterHomeRoutes(r)

	guestLimiter := newGuestLimiter(cfg)

	// Public authentication routes
	registerAuthRoutes(r, cfg, services, guestLimiter)
	registerGoogleOAuthRoutes(r, services)

	setupAPIRoutes(r, cfg, services, guestLimiter)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIRoutes configures the /api group and delegates to per-entity route
// registrations. Guest-reachable routes sit behind OptionalAuth so previews
// and tips work without an account; the rest require a valid token.
func setupAPIRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	guestLimiter *limiter.Limiter,
) {
	api := r.Group("/api")

	registerRateRoutes(api, cfg, services.Rate)
	registerTransactionRoutes(api, cfg, services, guestLimiter)
	registerWalletRoutes(api, cfg, services.Transaction)
}

// newGuestLimiter builds the per-IP limiter shared by the guest-reachable
// endpoints.
func newGuestLimiter(cfg *config.Config) *limiter.Limiter {
	rate, err := limiter.NewRateFromFormatted(cfg.GuestRateLimit)
	if err != nil {
		rate, _ = limiter.NewRateFromFormatted("10-M")
	}
	return limiter.New(memory.NewStore(), rate)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
