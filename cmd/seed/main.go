// Package main provides a CLI tool for creating the schema and seeding the
// database with initial data.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"stockdesk/internal/config"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/infrastructure/storage/postgres"
	"stockdesk/pkg/logger"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	if err := postgres.SeedCatalogs(ctx, txm, catalog.Defaults()); err != nil {
		log.Fatalw("failed to seed catalogs", "error", err)
	}

	// Seed demo data if requested
	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txm, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

// seedDemoData loads a few products and third parties. It does nothing when
// products already exist, so running the seeder twice is safe.
func seedDemoData(ctx context.Context, txm *postgres.TxManager, log *logger.Logger) error {
	var existing int
	if err := txm.GetQuerier(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM producto`).Scan(&existing); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if existing > 0 {
		log.Infow("demo data already present, skipping", "products", existing)
		return nil
	}

	log.Info("seeding demo data...")

	products := []struct {
		name     string
		stock    int
		min      int
		max      int
		price    string
		barcode  string
		category int64
	}{
		{"Arroz Diana 500g", 40, 10, 120, "2500.00", "7702511000014", 1},
		{"Aceite Premier 1L", 12, 15, 60, "9800.00", "7702020000025", 1},
		{"Gaseosa Postobón 1.5L", 30, 12, 96, "4200.00", "7702090000036", 2},
		{"Jabón Rey x3", 8, 10, 50, "6300.00", "7702310000047", 3},
		{"Cuaderno Norma 100h", 25, 5, 80, "5600.00", "7702111000058", 4},
	}

	productRows := make([][]any, 0, len(products))
	for _, p := range products {
		productRows = append(productRows, []any{
			p.name, p.stock, p.min, p.max, decimal.RequireFromString(p.price), p.barcode, p.category,
		})
	}

	parties := []struct {
		name     string
		surname  any
		email    any
		document string
		docType  int64
		typ      int64
		city     int64
	}{
		{"Distribuidora Andina S.A.S.", nil, "ventas@andina.co", "900123456", 2, 2, 1},
		{"Comercializadora del Valle", nil, nil, "800456789", 2, 2, 3},
		{"Carlos", "Ramírez", "carlos.ramirez@stockdesk.co", "1010203040", 1, 3, 1},
		{"Laura", "Gómez", nil, "52345678", 1, 1, 2},
	}

	partyRows := make([][]any, 0, len(parties))
	for _, t := range parties {
		partyRows = append(partyRows, []any{
			t.name, t.surname, t.email, t.document, t.docType, t.typ, t.city,
		})
	}

	batch := postgres.NewBatchInserter(txm)
	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := batch.CopyFromSlice(ctx, "producto",
			[]string{"nombre", "stockactual", "stockminimo", "stockmaximo", "preciounitario", "barcode", "categoriaid"},
			productRows,
		)
		if err != nil {
			return fmt.Errorf("copy products: %w", err)
		}
		log.Infow("demo products seeded", "rows", n)

		n, err = batch.CopyFromSlice(ctx, "tercero",
			[]string{"nombre", "apellido", "email", "numerodocumento", "tipodocumentoid", "tipoterceroid", "ciudadid"},
			partyRows,
		)
		if err != nil {
			return fmt.Errorf("copy third parties: %w", err)
		}
		log.Infow("demo third parties seeded", "rows", n)
		return nil
	})
}
