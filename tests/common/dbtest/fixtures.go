//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Seeded catalogue SKUs and their starting stock.
const (
	SKUTee = "SKU-TEE"
	SKUMug = "SKU-MUG"

	SeedTeeStock = 10
	SeedMugStock = 5
)

type CartLine struct {
	SKU       string
	Quantity  int32
	UnitPrice string
}

// CreateCart inserts a cart owned by userID with the given lines and returns its id.
func CreateCart(t *testing.T, db DBLike, userID uuid.UUID, currency string, lines ...CartLine) uuid.UUID {
	t.Helper()

	cartID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO carts (id, user_id, currency) VALUES ($1, $2, $3)", cartID, userID, currency)
	require.NoError(t, err)

	for _, l := range lines {
		_, err := db.Exec(ctx, "INSERT INTO cart_lines (cart_id, sku, quantity, unit_price) VALUES ($1, $2, $3, $4::numeric)",
			cartID, l.SKU, l.Quantity, l.UnitPrice)
		require.NoError(t, err)
	}

	return cartID
}

func SetStock(t *testing.T, db DBLike, sku string, available int32) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO inventory_items (sku, available) VALUES ($1, $2) ON CONFLICT (sku) DO UPDATE SET available = EXCLUDED.available, updated_at = now()",
		sku, available)
	require.NoError(t, err)
}

func Stock(t *testing.T, db DBLike, sku string) int32 {
	t.Helper()

	var available int32
	err := db.QueryRow(context.Background(), "SELECT available FROM inventory_items WHERE sku = $1", sku).Scan(&available)
	require.NoError(t, err)
	return available
}

// CountRows counts the rows of table matching an optional WHERE clause.
func CountRows(t *testing.T, db DBLike, table, where string, args ...any) int {
	t.Helper()

	query := "SELECT count(*) FROM " + table
	if where != "" {
		query += " WHERE " + where
	}
	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO inventory_items (sku, available) VALUES
		    ($1, $2),
		    ($3, $4)
		ON CONFLICT (sku) DO NOTHING;
	`, SKUTee, SeedTeeStock, SKUMug, SeedMugStock)
	if err != nil {
		return err
	}

	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
