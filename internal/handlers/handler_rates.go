package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/core/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/kahawapay/kahawapay_backend/internal/middleware"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	rateService portssvc.RateSvcFacade
}

func newRateHandler(rs portssvc.RateSvcFacade) *rateHandler {
	return &rateHandler{
		rateService: rs,
	}
}

// registerRateRoutes registers the exchange rate routes. Reads are public so
// the tip form can price without an account; writes require the admin role.
func registerRateRoutes(rg *gin.RouterGroup, cfg *config.Config, rateService portssvc.RateSvcFacade) {
	h := newRateHandler(rateService)

	rates := rg.Group("/settings/exchange-rates")
	{
		rates.GET("", h.listRates)
		rates.GET("/currencies", h.listCurrencies)
		rates.POST("", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole("admin"), h.upsertRate)
	}
}

// listRates godoc
// @Summary List exchange rates
// @Description Returns the deduplicated rate book, one freshest entry per target currency, sorted by code.
// @Tags rates
// @Produce json
// @Success 200 {array} dto.RateResponse
// @Router /api/settings/exchange-rates [get]
func (h *rateHandler) listRates(c *gin.Context) {
	rates := h.rateService.ListRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToListRateResponse(rates))
}

// listCurrencies godoc
// @Summary List known target currencies
// @Description Returns the sorted currency codes the rate book currently knows.
// @Tags rates
// @Produce json
// @Success 200 {object} dto.CurrenciesResponse
// @Router /api/settings/exchange-rates/currencies [get]
func (h *rateHandler) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CurrenciesResponse{
		Currencies: h.rateService.Currencies(c.Request.Context()),
	})
}

// upsertRate godoc
// @Summary Save an exchange rate
// @Description Accepts a rate row in any upstream shape (currency under target_currency/target/currency/pair/symbol/code, rate under rate/value/price/amount), normalizes it and saves it stamped with the current time. Echoes the normalized entry.
// @Tags rates
// @Accept json
// @Produce json
// @Param rate body dto.UpsertRateRequest true "Rate row (any upstream field naming accepted)"
// @Success 200 {object} dto.RateResponse
// @Failure 400 {object} ErrorResponse "Unrecognizable rate row"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/settings/exchange-rates [post]
func (h *rateHandler) upsertRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	// Bind to a raw map so admin tooling can paste rows straight from any
	// upstream feed; normalization sorts out the field naming.
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	normalized, err := services.NormalizeRateRow(raw)
	if err != nil {
		logger.Warn("Rejected unrecognizable rate row", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	saved, err := h.rateService.UpsertRate(c.Request.Context(), normalized.TargetCurrency, normalized.Rate.String())
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrInvalidRate) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to save exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save exchange rate"})
		return
	}

	logger.Info("Exchange rate saved",
		slog.String("target_currency", saved.TargetCurrency),
		slog.String("rate", saved.Rate.String()),
	)
	c.JSON(http.StatusOK, dto.ToRateResponse(saved))
}
