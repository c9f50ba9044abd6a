package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/kahawapay/kahawapay_backend/internal/middleware"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"

	"github.com/gin-gonic/gin"
)

// walletHandler serves a sender's own transaction history.
type walletHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

func registerWalletRoutes(rg *gin.RouterGroup, cfg *config.Config, ts portssvc.TransactionSvcFacade) {
	h := &walletHandler{transactionService: ts}

	wallet := rg.Group("/wallet", middleware.AuthMiddleware(cfg.JWTSecret))
	{
		wallet.GET("/mine", h.listMine)
	}
}

// listMine godoc
// @Summary List the sender's own transactions
// @Description Returns the tips sent by the authenticated sender, newest first.
// @Tags wallet
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/wallet/mine [get]
func (h *walletHandler) listMine(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)

	txns, err := h.transactionService.ListMine(c.Request.Context(), actor)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
			return
		}
		logger.Error("Failed to list sender transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list transactions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}
