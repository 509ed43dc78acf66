package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/alejandrosejas/binance-bob-usdt/internal/domain/model"
)

// PostgresArchive appends every published record pair to a durable table for
// offline analysis. It is write-only at runtime; history reads stay in memory.
type PostgresArchive struct {
	db *sql.DB
}

func NewPostgresArchive(dsn string) (*PostgresArchive, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &PostgresArchive{db: db}, nil
}

func (a *PostgresArchive) InitSchema(ctx context.Context) error {
	_, err := a.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS price_records (
			id          BIGSERIAL PRIMARY KEY,
			trade_type  TEXT NOT NULL,
			price       NUMERIC(18, 8) NOT NULL,
			highest     NUMERIC(18, 8) NOT NULL,
			lowest      NUMERIC(18, 8) NOT NULL,
			observed_at BIGINT NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_price_records_observed_at
			ON price_records (observed_at);
	`)
	if err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveRecords inserts the records in one transaction.
func (a *PostgresArchive) SaveRecords(ctx context.Context, records []model.PriceRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO price_records (trade_type, price, highest, lowest, observed_at)
		VALUES ($1, $2, $3, $4, $5)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		_, err := stmt.ExecContext(ctx,
			string(r.Direction),
			r.Price.String(),
			r.Range.Highest.String(),
			r.Range.Lowest.String(),
			r.Timestamp,
		)
		if err != nil {
			return fmt.Errorf("insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (a *PostgresArchive) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return a.db.PingContext(ctx)
}

func (a *PostgresArchive) Close() error {
	return a.db.Close()
}
