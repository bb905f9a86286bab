package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/courtsidehq/roster-api/external/balldontlie"
	"github.com/courtsidehq/roster-api/internal/config"
	"github.com/courtsidehq/roster-api/internal/domain/identity"
	"github.com/courtsidehq/roster-api/internal/domain/team"
	"github.com/courtsidehq/roster-api/internal/infrastructure/repository/memory"
	"github.com/courtsidehq/roster-api/internal/infrastructure/snapshot"
	"github.com/courtsidehq/roster-api/internal/interfaces/httpapi"
	"github.com/courtsidehq/roster-api/internal/platform/cache"
	idgen "github.com/courtsidehq/roster-api/internal/platform/id"
	"github.com/courtsidehq/roster-api/internal/platform/logging"
	"github.com/courtsidehq/roster-api/internal/platform/resilience"
	"github.com/courtsidehq/roster-api/internal/usecase"
)

// Application wires the services together and owns everything that has to be
// released on shutdown.
type Application struct {
	Server *http.Server

	snapshots *snapshot.Writer
	closeFns  []func() error
	logger    *logging.Logger
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.Default()
	}

	app := &Application{logger: logger}

	store, err := app.buildSnapshotStore(cfg)
	if err != nil {
		return nil, err
	}

	writer, err := snapshot.NewWriter(store, cfg.SnapshotWriteTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("build snapshot writer: %w", err)
	}
	app.snapshots = writer

	// Persisted state comes back before anything can observe the registry, so
	// a restart looks like an uninterrupted session.
	var restoredIdentity identity.Identity
	if _, err := writer.Restore(ctx, usecase.SnapshotPartitionIdentity, &restoredIdentity); err != nil {
		logger.Warn("restore identity snapshot failed", "error", err)
		restoredIdentity = identity.Identity{}
	}
	var restoredTeams []team.Team
	if _, err := writer.Restore(ctx, usecase.SnapshotPartitionTeams, &restoredTeams); err != nil {
		logger.Warn("restore teams snapshot failed", "error", err)
		restoredTeams = nil
	}

	identityRepo := memory.NewIdentityRepository(restoredIdentity)
	registry := memory.NewTeamRegistry(restoredTeams)

	playerSource := balldontlie.NewClient(balldontlie.ClientConfig{
		BaseURL:    cfg.BallDontLieBaseURL,
		Token:      cfg.BallDontLieToken,
		Timeout:    cfg.BallDontLieTimeout,
		MaxRetries: cfg.BallDontLieMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.BallDontLieCircuitEnabled,
			FailureThreshold: cfg.BallDontLieCircuitFailureCount,
			OpenTimeout:      cfg.BallDontLieCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.BallDontLieCircuitHalfOpenMaxReq,
		},
	})

	var pages *cache.Store
	if cfg.PlayerCacheEnabled {
		pages = cache.NewStore(cfg.PlayerCacheTTL)
	}

	feedService := usecase.NewPlayerFeedService(playerSource, pages, cfg.PlayerPageSize, logger)
	identityService := usecase.NewIdentityService(identityRepo, registry, feedService, writer, logger)
	teamService := usecase.NewTeamService(registry, writer, logger)
	rosterService := usecase.NewRosterService(registry, idgen.NewRandomGenerator(), writer, logger)

	handler := httpapi.NewHandler(identityService, feedService, teamService, rosterService, logger)
	router := httpapi.NewRouter(handler, identityService, logger, cfg.CORSAllowedOrigins)

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	logger.Info("application wired",
		"snapshot_driver", cfg.SnapshotDriver,
		"restored_identity", restoredIdentity.Authenticated,
		"restored_teams", len(restoredTeams),
	)

	return app, nil
}

// Close drains pending snapshot writes and releases the snapshot store. The
// HTTP server is shut down by the caller before Close runs.
func (a *Application) Close() {
	if a.snapshots != nil {
		a.snapshots.Close()
	}
	for _, closeFn := range a.closeFns {
		if err := closeFn(); err != nil {
			a.logger.Warn("close resource failed", "error", err)
		}
	}
}

func (a *Application) buildSnapshotStore(cfg config.Config) (snapshot.Store, error) {
	switch cfg.SnapshotDriver {
	case config.SnapshotDriverRedis:
		store, err := snapshot.NewRedisStore(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("build redis snapshot store: %w", err)
		}
		a.closeFns = append(a.closeFns, store.Close)
		return store, nil
	case config.SnapshotDriverPostgres:
		store, err := snapshot.NewPostgresStore(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("build postgres snapshot store: %w", err)
		}
		a.closeFns = append(a.closeFns, store.Close)
		return store, nil
	case config.SnapshotDriverMemory:
		return snapshot.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown snapshot driver %q", cfg.SnapshotDriver)
	}
}
