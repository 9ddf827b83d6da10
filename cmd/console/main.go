// Package main is the entry point for the stockdesk console.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockdesk/internal/config"
	"stockdesk/internal/core/tx"
	"stockdesk/internal/domain/catalog"
	"stockdesk/internal/domain/product"
	"stockdesk/internal/domain/purchase"
	"stockdesk/internal/domain/thirdparty"
	"stockdesk/internal/infrastructure/storage/memory"
	"stockdesk/internal/infrastructure/storage/postgres"
	"stockdesk/internal/infrastructure/storage/postgres/repo"
	"stockdesk/internal/presentation/console"
	"stockdesk/pkg/logger"
)

// backend is one storage implementation of every repository.
type backend struct {
	products  product.Repository
	parties   thirdparty.Repository
	purchases purchase.Repository
	lines     purchase.LineRepository
	catalogs  catalog.Loader
	txManager tx.Manager
	close     func(ctx context.Context)
}

func main() {
	cfg := config.Load()

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	fmt.Println("Iniciando stockdesk - Sistema de Gestión (Consola)...")
	log.Infow("starting stockdesk console", "storage", cfg.App.Storage, "env", cfg.App.Env)

	b, err := openBackend(ctx, cfg)
	if err != nil {
		fmt.Printf("Error crítico al conectar con la base de datos: %v\n", err)
		log.Fatalw("failed to open storage", "error", err)
	}
	defer b.close(ctx)

	catalogs := catalog.NewStore(b.catalogs)
	if err := catalogs.Load(ctx); err != nil {
		fmt.Printf("Error crítico al cargar catálogos: %v\n", err)
		log.Fatalw("failed to load catalogs", "error", err)
	}
	fmt.Println("Conexión establecida. Catálogos cargados.")

	products := product.NewService(b.products, b.txManager, catalogs)
	parties := thirdparty.NewService(b.parties, b.txManager, catalogs)
	purchases := purchase.NewService(b.purchases, b.lines, products, parties, b.txManager)

	c := console.New(console.Services{
		Products:  products,
		Parties:   parties,
		Purchases: purchases,
		Catalogs:  catalogs,
	}, os.Stdin, os.Stdout)

	if err := c.Run(ctx); err != nil {
		log.Errorw("console stopped", "error", err)
	}
	log.Info("stockdesk console stopped")
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if cfg.App.Storage == config.StorageMemory {
		store := memory.NewStore()
		logger.Warn(ctx, "using in-memory storage; data is lost on exit")
		return &backend{
			products:  memory.NewProductRepo(store),
			parties:   memory.NewThirdPartyRepo(store),
			purchases: memory.NewPurchaseRepo(store),
			lines:     memory.NewPurchaseLineRepo(store),
			catalogs:  memory.NewCatalogLoader(store),
			txManager: memory.NewTxManager(store),
			close:     func(context.Context) {},
		}, nil
	}

	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "database connection established")

	txm := postgres.NewTxManager(pool).WithStatementTimeout(cfg.Database.StatementTimeout)

	return &backend{
		products:  repo.NewProductRepo(txm),
		parties:   repo.NewThirdPartyRepo(txm),
		purchases: repo.NewPurchaseRepo(txm),
		lines:     repo.NewPurchaseLineRepo(txm),
		catalogs:  repo.NewCatalogLoader(txm),
		txManager: txm,
		close: func(ctx context.Context) {
			postgres.LogPoolStats(ctx, pool)
			pool.Close()
		},
	}, nil
}
