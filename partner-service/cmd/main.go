package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"partnerhub/partner-service/internal/app/partners/config"
	"partnerhub/partner-service/internal/app/partners/entity"
	"partnerhub/partner-service/internal/app/partners/handler"
	"partnerhub/partner-service/internal/app/partners/importer"
	"partnerhub/partner-service/internal/app/partners/repository"
	"partnerhub/partner-service/internal/app/partners/service"
	"partnerhub/partner-service/internal/app/partners/util"
	"partnerhub/pkg/logger"
	"partnerhub/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"gorm.io/gorm"
)

// app - собранные зависимости одной команды
type app struct {
	db         *gorm.DB
	store      *repository.Store
	cache      util.ReferenceCache
	references *service.ReferenceService
	handler    *handler.Handler
}

func main() {
	// === ИНИЦИАЛИЗАЦИЯ КОНФИГУРАЦИИ ===
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// === ИНИЦИАЛИЗАЦИЯ ЛОГГЕРА ===
	logger.Init("partner-service", cfg.LogLevel)

	// Ctrl+C прерывает импорт: текущий этап откатывается
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	root := &cli.Command{
		Name:  "partner-service",
		Usage: "Каталог партнёров и продукции: импорт, скидки, расчёт материалов",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "output raw JSON"},
			&cli.StringFlag{Name: "metrics-file", Value: cfg.Metrics.File, Usage: "write Prometheus metrics to this textfile on exit"},
			&cli.StringFlag{Name: "metrics-push-url", Value: cfg.Metrics.PushURL, Usage: "push Prometheus metrics to this Pushgateway on exit"},
		},
		// Метрики выгружаются и после неудачной команды
		After: func(ctx context.Context, c *cli.Command) error {
			return exportMetrics(ctx, c.String("metrics-file"), c.String("metrics-push-url"), cfg.Metrics.Job, prometheus.DefaultGatherer)
		},
		Commands: []*cli.Command{
			initDBCommand(cfg),
			importCommand(cfg),
			partnersCommand(cfg),
			partnerSaveCommand(cfg),
			historyCommand(cfg),
			discountCommand(cfg),
			referencesCommand(cfg),
			materialCommand(cfg),
		},
	}

	instrument(root.Commands)

	if err := root.Run(ctx, args); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// === КОМАНДЫ ===

func initDBCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init-db",
		Usage: "Создать таблицы каталога",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			logger.Info().Str("driver", cfg.Database.Driver).Msg("Schema is ready")
			return nil
		},
	}
}

func importCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Загрузить пять файлов импорта в хранилище",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: cfg.Import.Dir, Usage: "directory with import files (.xlsx or .csv)"},
			&cli.StringFlag{Name: "columns", Value: cfg.Import.ColumnsFile, Usage: "YAML file overriding column headers"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			opts := []importer.Option{importer.WithInvalidator(a.references)}
			if path := c.String("columns"); path != "" {
				columns, err := importer.LoadColumns(path)
				if err != nil {
					return err
				}
				opts = append(opts, importer.WithColumns(columns))
			}

			sources, err := importer.LoadDir(c.String("dir"))
			if err != nil {
				return err
			}

			report, runErr := importer.NewPipeline(a.store, opts...).Run(ctx, sources)
			// Частичный отчёт печатаем и при ошибке: зафиксированные этапы остаются в базе
			if err := a.handler.ImportReport(report); err != nil {
				return err
			}
			return runErr
		},
	}
}

func partnersCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "partners",
		Usage: "Список партнёров со скидками",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.ListPartners(ctx)
		},
	}
}

func partnerSaveCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "partner-save",
		Usage: "Создать партнёра или изменить существующего (--id)",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Usage: "partner ID, omit to create"},
			&cli.Int64Flag{Name: "type-id", Required: true, Usage: "partner type ID"},
			&cli.StringFlag{Name: "name", Required: true},
			&cli.StringFlag{Name: "address", Usage: "legal address"},
			&cli.StringFlag{Name: "inn", Usage: "tax ID, 10 digits"},
			&cli.StringFlag{Name: "director"},
			&cli.StringFlag{Name: "phone"},
			&cli.StringFlag{Name: "email"},
			&cli.Int64Flag{Name: "rating", Usage: "0..100"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := optionalID(c, "id")
			if err != nil {
				return err
			}
			typeID, err := requiredID(c, "type-id")
			if err != nil {
				return err
			}

			req := &entity.SavePartnerRequest{
				ID:            id,
				PartnerTypeID: typeID,
				Name:          c.String("name"),
				LegalAddress:  c.String("address"),
				TaxID:         c.String("inn"),
				Director:      c.String("director"),
				Phone:         c.String("phone"),
				Email:         c.String("email"),
			}
			if c.IsSet("rating") {
				rating := int(c.Int64("rating"))
				req.Rating = &rating
			}

			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.SavePartner(ctx, req)
		},
	}
}

func historyCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "История продаж партнёра",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true, Usage: "partner ID"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requiredID(c, "id")
			if err != nil {
				return err
			}

			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.History(ctx, id)
		},
	}
}

func discountCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "discount",
		Usage: "Скидка партнёра по объёму закупок",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "id", Required: true, Usage: "partner ID"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			id, err := requiredID(c, "id")
			if err != nil {
				return err
			}

			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.Discount(ctx, id)
		},
	}
}

func referencesCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "references",
		Usage: "Справочники типов партнёров, продукции и материалов",
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.References(ctx)
		},
	}
}

func materialCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "material",
		Usage: "Количество материала для выпуска продукции",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "product-type", Required: true, Usage: "product type ID"},
			&cli.Int64Flag{Name: "material-type", Required: true, Usage: "material type ID"},
			&cli.Int64Flag{Name: "quantity", Required: true},
			&cli.Float64Flag{Name: "param1", Required: true},
			&cli.Float64Flag{Name: "param2", Required: true},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			productTypeID, err := requiredID(c, "product-type")
			if err != nil {
				return err
			}
			materialTypeID, err := requiredID(c, "material-type")
			if err != nil {
				return err
			}

			a, err := setup(ctx, cfg, c)
			if err != nil {
				return err
			}
			defer a.close()

			return a.handler.Material(ctx, entity.MaterialRequest{
				ProductTypeID:  productTypeID,
				MaterialTypeID: materialTypeID,
				Quantity:       c.Int64("quantity"),
				Param1:         c.Float64("param1"),
				Param2:         c.Float64("param2"),
			})
		},
	}
}

// instrument оборачивает действия команд логированием и метриками
func instrument(commands []*cli.Command) {
	for _, command := range commands {
		if command.Action != nil {
			command.Action = logger.CommandLoggerMiddleware(
				metrics.CommandMiddleware("partner-service", command.Action),
			)
		}
	}
}

// exportMetrics выгружает метрики процесса в textfile и/или Pushgateway
func exportMetrics(ctx context.Context, file, pushURL, job string, gatherer prometheus.Gatherer) error {
	if file != "" {
		if err := metrics.WriteTextfile(file, gatherer); err != nil {
			return err
		}
		logger.Debug().Str("file", file).Msg("Metrics written")
	}
	if pushURL != "" {
		if err := metrics.Push(ctx, pushURL, job, gatherer); err != nil {
			return err
		}
		logger.Debug().Str("url", pushURL).Msg("Metrics pushed")
	}
	return nil
}

// === СБОРКА ЗАВИСИМОСТЕЙ ===

func setup(ctx context.Context, cfg *config.Config, c *cli.Command) (*app, error) {
	// === ПОДКЛЮЧЕНИЕ К БД ===
	db, err := repository.Open(cfg.Database.Driver, cfg.Database.DSN(), cfg.Database.GormLogLevel())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		closeDB(db)
		return nil, err
	}
	logger.Debug().Str("driver", cfg.Database.Driver).Msg("Connected to database")

	// === ПОДКЛЮЧЕНИЕ К REDIS ===
	// Redis опционален: без REDIS_HOST справочники читаются напрямую из БД
	var cache util.ReferenceCache = util.NopCache{}
	if cfg.Redis.Enabled() {
		redisClient, err := util.NewRedisClient(cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("addr", cfg.Redis.Address()).Msg("Redis unavailable, reference cache disabled")
		} else {
			cache = redisClient
		}
	}

	// === ИНИЦИАЛИЗАЦИЯ СЛОЕВ ===
	store := repository.NewStore(db)
	references := service.NewReferenceService(store.Repositories, cache, cfg.Redis.TTL)
	partners := service.NewPartnerService(store.Partners, store.Sales)
	materials := service.NewMaterialCalculator(store.ProductTypes, store.MaterialTypes)

	return &app{
		db:         db,
		store:      store,
		cache:      cache,
		references: references,
		handler:    handler.NewHandler(partners, references, materials, os.Stdout, c.Bool("json")),
	}, nil
}

func (a *app) close() {
	if err := a.cache.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close Redis")
	}
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn().Err(err).Msg("Failed to close database")
	}
}

func requiredID(c *cli.Command, name string) (uint, error) {
	id := c.Int64(name)
	if id <= 0 {
		return 0, fmt.Errorf("--%s must be a positive ID, got %d", name, id)
	}
	return uint(id), nil
}

func optionalID(c *cli.Command, name string) (uint, error) {
	if !c.IsSet(name) {
		return 0, nil
	}
	return requiredID(c, name)
}
