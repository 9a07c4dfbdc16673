package components

import (
	"checkout-core/internal/handler"
	"checkout-core/internal/handler/api"
	"checkout-core/internal/handler/middleware"
	"checkout-core/internal/pkg/jwt"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPaymentIntentHandler,
		func(s *jwt.Service) middleware.TokenValidator { return s },
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
