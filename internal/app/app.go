package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/subway-lines/internal/config"
	"github.com/riskibarqy/subway-lines/internal/domain/line"
	"github.com/riskibarqy/subway-lines/internal/domain/station"
	cacherepo "github.com/riskibarqy/subway-lines/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/subway-lines/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/subway-lines/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/subway-lines/internal/interfaces/httpapi"
	"github.com/riskibarqy/subway-lines/internal/platform/cache"
	"github.com/riskibarqy/subway-lines/internal/platform/logging"
	"github.com/riskibarqy/subway-lines/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"
)

type repositories struct {
	lines     line.Repository
	stations  station.Repository
	readiness []httpapi.ReadinessCheck
	close     func() error
}

// NewHTTPServer wires storage, services and the router. The returned cleanup
// releases storage resources and must be called after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	lineRepo, stationRepo := repos.lines, repos.stations
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		lineRepo = cacherepo.NewLineRepository(lineRepo, store)
		stationRepo = cacherepo.NewStationRepository(stationRepo, store)
		logger.Info("repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	lineSvc := usecase.NewLineService(lineRepo, stationRepo, logger)
	stationSvc := usecase.NewStationService(stationRepo, lineRepo)

	handler := httpapi.NewHandler(lineSvc, stationSvc, logger, repos.readiness...)
	routerOpts := []httpapi.RouterOption{httpapi.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst)}
	if cfg.CompressionEnabled {
		routerOpts = append(routerOpts, httpapi.WithCompression())
	}
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins, routerOpts...)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, repos.close, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		return newPostgresRepositories(ctx, cfg, logger)
	case config.StorageMemory, "":
		var seed []station.Station
		if cfg.SeedEnabled {
			seed = memory.SeedStations()
		}
		logger.Info("storage driver selected", "driver", config.StorageMemory, "seeded_stations", len(seed))
		return repositories{
			lines:    memory.NewLineRepository(),
			stations: memory.NewStationRepository(seed),
			close:    func() error { return nil },
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}

func newPostgresRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	dbName := postgres.DatabaseName(cfg.DBURL)
	db, err := otelsqlx.Open("postgres", postgres.DSN(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbName),
		otelsql.WithQueryFormatter(postgres.TraceQuery),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping postgres: %w", err)
	}

	if cfg.SeedEnabled {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, err
		}
	}

	logger.Info("storage driver selected",
		"driver", config.StoragePostgres,
		"db_name", dbName,
		"max_open_conns", cfg.DBMaxOpenConns,
	)

	return repositories{
		lines:     postgres.NewLineRepository(db),
		stations:  postgres.NewStationRepository(db),
		readiness: []httpapi.ReadinessCheck{postgresReadiness(db)},
		close:     db.Close,
	}, nil
}

func postgresReadiness(db *sqlx.DB) httpapi.ReadinessCheck {
	return httpapi.ReadinessCheck{
		Name:  "postgres",
		Check: db.PingContext,
	}
}
