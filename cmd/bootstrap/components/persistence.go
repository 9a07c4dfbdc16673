package components

import (
	"checkout-core/internal/infra/readstore"
	"checkout-core/internal/infra/repository"
	sqlc "checkout-core/internal/infra/sqlc/generated"
	"checkout-core/internal/infra/uow"
	"checkout-core/internal/usecase/commands"
	"checkout-core/internal/usecase/queries"
	"checkout-core/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
	NewTxBeginner,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Cart
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.CartReadQueries)),
		),
		fx.Annotate(
			readstore.NewCartReadStore,
			fx.As(new(commands.CartReader)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		// UnitOfWork
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		// PaymentIntent
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(repository.PaymentIntentWriteQueries)),
		),
		fx.Annotate(
			repository.NewPaymentIntentRepository,
			fx.As(new(commands.IntentRepository)),
			fx.As(new(queries.PaymentIntentReader)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}

func NewTxBeginner(pool *pgxpool.Pool) uow.TxBeginner {
	return pool
}
