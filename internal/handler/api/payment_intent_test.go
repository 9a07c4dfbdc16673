//go:build unit

package api_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"checkout-core/internal/domain/auth"
	"checkout-core/internal/domain/payment"
	"checkout-core/internal/handler/api"
	reqdto "checkout-core/internal/handler/dto/request"
	resdto "checkout-core/internal/handler/dto/response"
	"checkout-core/internal/handler/middleware"
	"checkout-core/internal/pkg/clock"
	"checkout-core/internal/pkg/config"
	"checkout-core/internal/pkg/effect"
	"checkout-core/internal/pkg/errs"
	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/idempotency"
	"checkout-core/internal/usecase/mediator"
	"checkout-core/internal/usecase/queries"
	"checkout-core/tests/common/authtest"
	"checkout-core/tests/common/httptest"
	"checkout-core/tests/common/testutil"
	"checkout-core/tests/common/uowtest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type PaymentIntentHandlerTestSuite struct {
	suite.Suite
	router  *gin.Engine
	jwt     *authtest.JWTHelper
	guard   *idempotency.Guard
	userID  uuid.UUID
	token   string
	created atomic.Int32
	// createErr, when set, is returned by the create handler instead of a result.
	createErr error
	canceled  atomic.Int32
}

func (s *PaymentIntentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	cfg := config.NewTestConfig()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.created.Store(0)
	s.canceled.Store(0)
	s.createErr = nil
	s.userID = uuid.New()
	s.jwt = authtest.NewJWTHelper(cfg.JWT)
	s.token = s.jwt.GenerateToken(s.T(), s.userID, auth.RoleCustomer)

	store := idempotency.NewTxStore(uowtest.NewMemoryUoW(), clock.NewRealClock())
	s.guard = idempotency.NewGuard(store, logger, cfg)

	dispatcher := mediator.NewDispatcher(
		mediator.NewAuthorizationBehavior(),
		mediator.NewIdempotencyBehavior(s.guard),
	)
	s.Require().NoError(mediator.Register(dispatcher, mediator.HandlerFunc[commands.CreatePaymentIntent, commands.PaymentIntentResponse](s.create)))
	s.Require().NoError(mediator.Register(dispatcher, mediator.HandlerFunc[commands.CancelPaymentIntent, queries.PaymentIntentView](s.cancel)))
	s.Require().NoError(mediator.Register(dispatcher, mediator.HandlerFunc[queries.GetPaymentIntent, queries.PaymentIntentView](s.get)))

	handler := api.NewPaymentIntentHandler(dispatcher)
	authMiddleware := middleware.NewAuthMiddleware(s.jwt.Service())

	s.router = gin.New()
	group := s.router.Group("/api/payment-intents", authMiddleware.RequireAuth())
	group.POST("", handler.Create)
	group.POST("/:id/cancel", handler.Cancel)
	group.GET("/:id", handler.Get)
}

func (s *PaymentIntentHandlerTestSuite) view(id, owner uuid.UUID) queries.PaymentIntentView {
	total := payment.MustParseMoney("311.25", "SEK")
	return queries.PaymentIntentView{
		ID:          id,
		UserID:      owner,
		CartID:      uuid.New(),
		Method:      payment.MethodCard,
		Provider:    "stripe",
		ProviderRef: "pi_123",
		Status:      payment.StatusRequiresAction,
		Total:       queries.NewMoneyView(total),
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func (s *PaymentIntentHandlerTestSuite) create(req commands.CreatePaymentIntent, tc auth.TrustedContext) effect.Effect[commands.PaymentIntentResponse] {
	work := effect.Effect[commands.PaymentIntentResponse](func(context.Context) (commands.PaymentIntentResponse, error) {
		s.created.Add(1)
		if s.createErr != nil {
			return commands.PaymentIntentResponse{}, s.createErr
		}
		v := s.view(uuid.New(), tc.ID)
		v.CartID = req.CartID
		return commands.PaymentIntentResponse{
			PaymentIntentView:    v,
			ClientSecret:         "pi_123_secret",
			ReservationExpiresAt: v.CreatedAt.Add(20 * time.Minute),
		}, nil
	})
	key := idempotency.Key{
		Scope:       idempotency.CallerScope(commands.ScopePaymentIntent, tc.ID),
		Key:         req.IdempotencyKey,
		Fingerprint: idempotency.Fingerprint(req.CartID.String(), req.Method),
		TTL:         time.Minute,
	}
	return idempotency.WithIdempotency(s.guard, key, work)
}

func (s *PaymentIntentHandlerTestSuite) cancel(req commands.CancelPaymentIntent, tc auth.TrustedContext) effect.Effect[queries.PaymentIntentView] {
	return func(context.Context) (queries.PaymentIntentView, error) {
		s.canceled.Add(1)
		v := s.view(req.IntentID, tc.ID)
		v.Status = payment.StatusCanceled
		return v, nil
	}
}

func (s *PaymentIntentHandlerTestSuite) get(req queries.GetPaymentIntent, tc auth.TrustedContext) effect.Effect[queries.PaymentIntentView] {
	return func(context.Context) (queries.PaymentIntentView, error) {
		if req.IntentID == uuid.Nil {
			return queries.PaymentIntentView{}, errs.E(errs.CodeNotFound, "payment intent not found")
		}
		return s.view(req.IntentID, tc.ID), nil
	}
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_Success() {
	cartID := uuid.New()
	w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/api/payment-intents",
		reqdto.CreatePaymentIntentRequest{CartID: cartID, Method: "Card"}, s.token,
		map[string]string{"Idempotency-Key": "abc"})

	var res resdto.PaymentIntentResponse
	httptest.AssertSuccessResponse(s.T(), w, http.StatusCreated, &res)
	s.Equal(cartID, res.CartID)
	s.Equal("311.25", res.Total.Amount)
	s.Equal("pi_123_secret", res.ClientSecret)
	s.NotNil(res.ReservationExpiresAt)
	s.Empty(w.Header().Get("Idempotent-Replayed"))
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_ReplaySetsHeader() {
	body := reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}
	headers := map[string]string{"Idempotency-Key": "abc"}

	first := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, s.token, headers)
	second := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, s.token, headers)

	s.Equal(http.StatusCreated, first.Code)
	s.Equal(http.StatusCreated, second.Code)
	s.Equal("true", second.Header().Get("Idempotent-Replayed"))
	s.JSONEq(first.Body.String(), second.Body.String())
	s.Equal(int32(1), s.created.Load())
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_KeyReusedWithDifferentPayload() {
	headers := map[string]string{"Idempotency-Key": "abc"}
	httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/api/payment-intents",
		reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}, s.token, headers)

	w := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, "/api/payment-intents",
		reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}, s.token, headers)

	httptest.AssertErrorCode(s.T(), w, http.StatusConflict, string(errs.CodeConflictKeyReused), "different payload")
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_WithoutKeyRunsEveryTime() {
	body := reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}
	httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, s.token)
	w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, s.token)

	s.Equal(http.StatusCreated, w.Code)
	s.Empty(w.Header().Get("Idempotent-Replayed"))
	s.Equal(int32(2), s.created.Load())
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_ErrorMapping() {
	cases := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"cart not found", errs.E(errs.CodeCartNotFound, "cart not found"), http.StatusNotFound, "cart not found"},
		{"empty cart", errs.E(errs.CodeCartEmpty, "cart is empty"), http.StatusUnprocessableEntity, "cart is empty"},
		{"unsupported method", errs.E(errs.CodeMethodNotSupported, "unsupported payment method"), http.StatusUnprocessableEntity, "unsupported"},
		{"stock", errs.E(errs.CodeInventoryUnavailable, "insufficient stock for a"), http.StatusConflict, "insufficient stock"},
		{"provider", errs.E(errs.CodeProviderFailed, "payment provider failed"), http.StatusBadGateway, "provider"},
		{"persistence hides detail", errs.E(errs.CodePersistenceFailed, "insert payment_intents"), http.StatusInternalServerError, "Internal server error"},
		{"uncoded", errs.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.createErr = tc.err
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents",
				reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}, s.token)
			httptest.AssertErrorCode(s.T(), w, tc.status, string(errs.CodeOf(tc.err)), tc.message)
		})
	}
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_InvalidBody() {
	valid := reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}
	cases := map[string]map[string]any{
		"missing cart":   testutil.DtoMap(s.T(), valid, testutil.Field("cart_id", nil)),
		"missing method": testutil.DtoMap(s.T(), valid, testutil.Field("method", nil)),
		"malformed cart": testutil.DtoMap(s.T(), valid, testutil.Field("cart_id", "not-a-uuid")),
	}

	for name, body := range cases {
		s.Run(name, func() {
			w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, s.token)
			httptest.AssertErrorCode(s.T(), w, http.StatusBadRequest, string(errs.CodeValidationFailed), "Invalid request format")
		})
	}
	s.Equal(int32(0), s.created.Load())
}

func (s *PaymentIntentHandlerTestSuite) TestCreate_Unauthenticated() {
	body := reqdto.CreatePaymentIntentRequest{CartID: uuid.New(), Method: "Card"}

	s.Run("missing token", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, "")
		httptest.AssertErrorCode(s.T(), w, http.StatusUnauthorized, string(errs.CodeUnauthorized), "Access token required")
	})
	s.Run("expired token", func() {
		token := s.jwt.CreateExpiredToken(s.T(), s.userID, auth.RoleCustomer)
		w := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/payment-intents", body, token)
		httptest.AssertErrorCode(s.T(), w, http.StatusUnauthorized, string(errs.CodeUnauthorized), "Invalid or expired token")
	})
	s.Equal(int32(0), s.created.Load())
}

func (s *PaymentIntentHandlerTestSuite) TestCancel_ReplaySetsHeader() {
	id := uuid.New()
	path := "/api/payment-intents/" + id.String() + "/cancel"
	headers := map[string]string{"Idempotency-Key": "cancel-1"}

	first := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, path, nil, s.token, headers)
	second := httptest.PerformRequestWithHeaders(s.T(), s.router, http.MethodPost, path, nil, s.token, headers)

	var res resdto.PaymentIntentResponse
	httptest.AssertSuccessResponse(s.T(), first, http.StatusOK, &res)
	s.Equal(id, res.ID)
	s.Equal(string(payment.StatusCanceled), res.Status)
	s.Equal(http.StatusOK, second.Code)
	httptest.AssertHeaders(s.T(), second, map[string]string{"Idempotent-Replayed": "true"})
	s.Equal(int32(1), s.canceled.Load())
}

func (s *PaymentIntentHandlerTestSuite) TestGet() {
	s.Run("found", func() {
		id := uuid.New()
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payment-intents/"+id.String(), nil, s.token)

		var res resdto.PaymentIntentResponse
		httptest.AssertSuccessResponse(s.T(), w, http.StatusOK, &res)
		s.Equal(id, res.ID)
		s.Equal("stripe", res.Provider)
		s.Empty(res.ClientSecret)
	})
	s.Run("not found", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payment-intents/"+uuid.Nil.String(), nil, s.token)
		httptest.AssertErrorCode(s.T(), w, http.StatusNotFound, string(errs.CodeNotFound), "not found")
	})
	s.Run("malformed id", func() {
		w := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payment-intents/not-a-uuid", nil, s.token)
		httptest.AssertErrorCode(s.T(), w, http.StatusBadRequest, string(errs.CodeValidationFailed), "Invalid payment intent ID format")
	})
}

func TestPaymentIntentHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentIntentHandlerTestSuite))
}
