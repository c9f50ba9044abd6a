package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kahawapay/kahawapay_backend/internal/apperrors"
	"github.com/kahawapay/kahawapay_backend/internal/core/domain"
	portssvc "github.com/kahawapay/kahawapay_backend/internal/core/ports/services"
	"github.com/kahawapay/kahawapay_backend/internal/dto"
	"github.com/kahawapay/kahawapay_backend/internal/middleware"
	"github.com/kahawapay/kahawapay_backend/internal/platform/config"
	"github.com/kahawapay/kahawapay_backend/internal/platform/metrics"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// transactionHandler handles tip previews, creation and status transitions.
type transactionHandler struct {
	settlementService  portssvc.SettlementSvcFacade
	transactionService portssvc.TransactionSvcFacade
}

func newTransactionHandler(ss portssvc.SettlementSvcFacade, ts portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{
		settlementService:  ss,
		transactionService: ts,
	}
}

// registerTransactionRoutes registers the tip routes. The /guest variants are
// rate limited per IP and carry no auth at all; the base variants resolve the
// actor from the bearer token when present so the guest limit is waived for
// logged-in senders.
func registerTransactionRoutes(rg *gin.RouterGroup, cfg *config.Config, services *portssvc.ServiceContainer, guestLimiter *limiter.Limiter) {
	h := newTransactionHandler(services.Settlement, services.Transaction)

	txns := rg.Group("/transactions")
	{
		txns.POST("/preview", middleware.OptionalAuthMiddleware(cfg.JWTSecret), h.preview)
		txns.POST("", middleware.OptionalAuthMiddleware(cfg.JWTSecret), h.create)

		guest := txns.Group("/guest", middleware.RateLimit(guestLimiter))
		{
			guest.POST("/preview", h.preview)
			guest.POST("", h.create)
		}

		admin := txns.Group("", middleware.AuthMiddleware(cfg.JWTSecret), middleware.RequireRole("admin"))
		{
			admin.GET("/all", h.listAll)
			admin.PUT("/:id/mark-paid", h.markPaid)
			admin.PUT("/:id/archive", h.archive)
		}
	}
}

// preview godoc
// @Summary Preview a tip settlement
// @Description Prices a tip: USD gross value at the current asset price, platform fee, net value and the recipient payout in the target currency. Guests are capped at the configured USD limit.
// @Tags transactions
// @Accept json
// @Produce json
// @Param preview body dto.PreviewRequest true "Tip to price"
// @Success 200 {object} dto.PreviewResponse
// @Failure 400 {object} ErrorResponse "Malformed amount or currency"
// @Failure 403 {object} ErrorResponse "Guest limit exceeded"
// @Failure 422 {object} ErrorResponse "Unsupported target currency"
// @Failure 503 {object} ErrorResponse "Asset price unavailable"
// @Router /api/transactions/preview [post]
func (h *transactionHandler) preview(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)

	var req dto.PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.Previews.WithLabelValues("bind_error").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	result, err := h.settlementService.Preview(c.Request.Context(), domain.PreviewRequest{
		SourceAmount:        req.Amount,
		TargetCurrency:      req.Currency,
		RecipientIdentifier: req.MSISDN,
		Actor:               actor,
	})
	if err != nil {
		h.respondPreviewError(c, logger, err)
		return
	}

	metrics.Previews.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, dto.ToPreviewResponse(result, req.MSISDN, actor.Email))
}

func (h *transactionHandler) respondPreviewError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		metrics.Previews.WithLabelValues("validation_error").Inc()
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUnsupportedCurrency):
		metrics.Previews.WithLabelValues("unsupported_currency").Inc()
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrGuestLimitExceeded):
		metrics.Previews.WithLabelValues("guest_limit").Inc()
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrUpstreamUnavailable):
		metrics.Previews.WithLabelValues("upstream_unavailable").Inc()
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "Pricing temporarily unavailable, please retry"})
	default:
		metrics.Previews.WithLabelValues("error").Inc()
		logger.Error("Failed to preview tip", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to preview tip"})
	}
}

// create godoc
// @Summary Create a tip from a confirmed preview
// @Description Persists a pending tip. The guest limit is re-checked against the previewed USD value rather than recomputed, so the decision matches what the sender approved.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Confirmed preview"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse "Guest limit exceeded"
// @Failure 500 {object} ErrorResponse
// @Router /api/transactions [post]
func (h *transactionHandler) create(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor := middleware.GetActorFromContext(c)

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrGuestLimitExceeded):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		default:
			logger.Error("Failed to create transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create transaction"})
		}
		return
	}

	logger.Info("Transaction created",
		slog.String("transaction_id", txn.ID),
		slog.String("sender", txn.SenderIdentity),
	)
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listAll godoc
// @Summary List all transactions
// @Description Returns the locally mirrored transaction snapshot, newest first.
// @Tags transactions
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/transactions/all [get]
func (h *transactionHandler) listAll(c *gin.Context) {
	txns := h.transactionService.Snapshot(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(txns))
}

// markPaid godoc
// @Summary Mark a transaction as paid
// @Description Requests the pending-to-paid transition. The authoritative status is whatever the store echoes back.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Current status does not allow the transition"
// @Security BearerAuth
// @Router /api/transactions/{id}/mark-paid [put]
func (h *transactionHandler) markPaid(c *gin.Context) {
	h.transition(c, domain.TransitionMarkPaid)
}

// archive godoc
// @Summary Archive a transaction
// @Description Requests the transition into archived; allowed from pending and paid.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Current status does not allow the transition"
// @Security BearerAuth
// @Router /api/transactions/{id}/archive [put]
func (h *transactionHandler) archive(c *gin.Context) {
	h.transition(c, domain.TransitionArchive)
}

func (h *transactionHandler) transition(c *gin.Context, kind domain.TransitionKind) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	id := c.Param("id")

	txn, err := h.transactionService.RequestTransition(c.Request.Context(), id, kind)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			metrics.Transitions.WithLabelValues(string(kind), "not_found").Inc()
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Transaction not found"})
		case errors.Is(err, apperrors.ErrTransitionFailed):
			metrics.Transitions.WithLabelValues(string(kind), "conflict").Inc()
			c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		default:
			metrics.Transitions.WithLabelValues(string(kind), "error").Inc()
			logger.Error("Failed to transition transaction",
				slog.String("transaction_id", id),
				slog.String("kind", string(kind)),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to update transaction"})
		}
		return
	}

	metrics.Transitions.WithLabelValues(string(kind), "ok").Inc()
	logger.Info("Transaction transitioned",
		slog.String("transaction_id", txn.ID),
		slog.String("status", string(txn.Status)),
	)
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
