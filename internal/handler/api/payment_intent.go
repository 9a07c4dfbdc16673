package api

import (
	"net/http"

	reqdto "checkout-core/internal/handler/dto/request"
	resdto "checkout-core/internal/handler/dto/response"
	"checkout-core/internal/handler/httperr"
	"checkout-core/internal/handler/middleware"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/idempotency"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerIdempotencyKey     = "Idempotency-Key"
	headerIdempotentReplayed = "Idempotent-Replayed"
)

type PaymentIntentHandler struct {
	dispatcher *mediator.Dispatcher
}

func NewPaymentIntentHandler(dispatcher *mediator.Dispatcher) *PaymentIntentHandler {
	return &PaymentIntentHandler{
		dispatcher: dispatcher,
	}
}

// Create starts checkout for a cart. Repeating the call with the same
// Idempotency-Key returns the stored result.
//
// @Summary Create payment intent
// @Description Validate the cart, reserve stock, price it and open a payment intent with the chosen provider
// @Tags payment-intents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string false "Client key; a repeat with the same body replays the stored result"
// @Param request body reqdto.CreatePaymentIntentRequest true "Create payment intent request"
// @Success 201 {object} resdto.PaymentIntentResponse
// @Header 201 {string} Idempotent-Replayed "true when the response was replayed"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /api/payment-intents [post]
func (h *PaymentIntentHandler) Create(c *gin.Context) {
	var req reqdto.CreatePaymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.WithCode(err, errs.CodeValidationFailed, "invalid request body"), "Invalid request format", nil)
		return
	}

	ctx, tracker := idempotency.WithReplayTracker(c.Request.Context())
	cmd := req.ToCommand(c.GetHeader(headerIdempotencyKey))

	result, err := mediator.Dispatch[commands.CreatePaymentIntent, commands.PaymentIntentResponse](
		h.dispatcher, cmd, middleware.GetTrustedContext(c),
	).Run(ctx)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	setReplayHeader(c, tracker)
	c.JSON(http.StatusCreated, resdto.FromCreatedPaymentIntent(result))
}

// @Summary Cancel payment intent
// @Description Cancel an open payment intent and release its stock reservation
// @Tags payment-intents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment intent ID"
// @Param Idempotency-Key header string false "Client key; a repeat replays the stored result"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Header 200 {string} Idempotent-Replayed "true when the response was replayed"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/payment-intents/{id}/cancel [post]
func (h *PaymentIntentHandler) Cancel(c *gin.Context) {
	id, ok := intentID(c)
	if !ok {
		return
	}

	ctx, tracker := idempotency.WithReplayTracker(c.Request.Context())
	cmd := commands.CancelPaymentIntent{IntentID: id, Key: c.GetHeader(headerIdempotencyKey)}

	view, err := mediator.Dispatch[commands.CancelPaymentIntent, queries.PaymentIntentView](
		h.dispatcher, cmd, middleware.GetTrustedContext(c),
	).Run(ctx)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	setReplayHeader(c, tracker)
	c.JSON(http.StatusOK, resdto.FromPaymentIntentView(view))
}

// @Summary Get payment intent
// @Description Get a payment intent owned by the caller
// @Tags payment-intents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment intent ID"
// @Success 200 {object} resdto.PaymentIntentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/payment-intents/{id} [get]
func (h *PaymentIntentHandler) Get(c *gin.Context) {
	id, ok := intentID(c)
	if !ok {
		return
	}

	view, err := mediator.Dispatch[queries.GetPaymentIntent, queries.PaymentIntentView](
		h.dispatcher, queries.GetPaymentIntent{IntentID: id}, middleware.GetTrustedContext(c),
	).Run(c.Request.Context())
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentIntentView(view))
}

func intentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.WithCode(err, errs.CodeValidationFailed, "invalid id"), "Invalid payment intent ID format", nil)
		return uuid.Nil, false
	}
	return id, true
}

func setReplayHeader(c *gin.Context, tracker *idempotency.ReplayTracker) {
	if tracker.Replayed() {
		c.Header(headerIdempotentReplayed, "true")
	}
}
