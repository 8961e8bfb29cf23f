package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/AlibekovAA/storefront/internal/account/events"
	"github.com/AlibekovAA/storefront/internal/common/config"
	"github.com/AlibekovAA/storefront/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/storefront/internal/common/crypto"
	"github.com/AlibekovAA/storefront/internal/common/db"
	commonhttp "github.com/AlibekovAA/storefront/internal/common/http"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/common/server"
	"github.com/AlibekovAA/storefront/internal/like"
	userrepo "github.com/AlibekovAA/storefront/internal/user/repository"
)

// App holds the infrastructure shared by the storefront handlers. Pool and
// Redis are nil when the corresponding backend is not configured.
type App struct {
	Log         *logger.Logger
	Config      config.StorefrontConfig
	Pool        *pgxpool.Pool
	Redis       *redis.Client
	UserRepo    userrepo.Repository
	LikeStorage like.Storage
	Publisher   events.Publisher

	cancelMetrics context.CancelFunc
}

func NewStorefrontApp(ctx context.Context) (*App, error) {
	log, err := initializeLogger("storefront")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	cfg, err := config.LoadStorefrontConfig()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return nil, err
	}

	app := &App{Log: log, Config: cfg}

	if err := app.initializeStore(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	if err := app.initializeLikeStorage(ctx); err != nil {
		app.Close(ctx)
		return nil, err
	}
	app.initializePublisher()

	return app, nil
}

func (a *App) initializeStore(ctx context.Context) error {
	if a.Config.StoreDriver == config.StoreDriverMemory {
		a.Log.Warn("using in-memory account store; accounts are lost on restart")
		a.UserRepo = userrepo.NewMemoryRepository(commoncrypto.NewUUIDGenerator())
		return nil
	}

	pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to initialize database pool: %w", err)
	}
	a.Pool = pool

	migrateCtx, cancel := context.WithTimeout(ctx, constants.DBMigrationTimeout)
	defer cancel()
	if err := db.Migrate(migrateCtx, a.Log, a.Config.DatabaseURL); err != nil {
		return err
	}

	metricsCtx, cancelMetrics := context.WithCancel(context.Background())
	a.cancelMetrics = cancelMetrics
	db.StartPoolMetrics(metricsCtx, pool, constants.DBPoolMetricsInterval)

	a.UserRepo = userrepo.NewPgRepository(pool, a.Log)
	return nil
}

func (a *App) initializeLikeStorage(ctx context.Context) error {
	if a.Config.LikeStorage == config.LikeStorageRedis {
		client := redis.NewClient(&redis.Options{
			Addr:     a.Config.Redis.Addr,
			Password: a.Config.Redis.Password,
			DB:       a.Config.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, constants.RedisConnectTimeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to redis at %s: %w", a.Config.Redis.Addr, err)
		}

		a.Redis = client
		a.LikeStorage = like.NewRedisStorage(client, "storefront:")
		a.Log.Infof("like storage: redis at %s", a.Config.Redis.Addr)
		return nil
	}

	storage, err := like.NewFileStorage(a.Config.LikeStorageDir)
	if err != nil {
		return err
	}
	a.LikeStorage = storage
	a.Log.Infof("like storage: files under %s", a.Config.LikeStorageDir)
	return nil
}

// initializePublisher never fails startup: events are best effort, so an
// unreachable broker only disables them.
func (a *App) initializePublisher() {
	if a.Config.AMQPURL == "" {
		a.Log.Info("AMQP_URL not set; account events disabled")
		a.Publisher = events.NewNoopPublisher()
		return
	}

	publisher, err := events.NewAMQPPublisher(a.Config.AMQPURL, a.Config.EventsQueue, constants.EventPublishTimeout, a.Log)
	if err != nil {
		a.Log.Warnf("account events disabled: %v", err)
		a.Publisher = events.NewNoopPublisher()
		return
	}
	a.Publisher = publisher
}

func (a *App) HealthChecks() map[string]commonhttp.HealthCheck {
	checks := map[string]commonhttp.HealthCheck{}
	if a.Pool != nil {
		checks["postgres"] = func(ctx context.Context) error {
			return a.Pool.Ping(ctx)
		}
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// ShutdownHooks release the infrastructure in reverse order of creation.
func (a *App) ShutdownHooks() []server.ShutdownHook {
	return []server.ShutdownHook{
		func(ctx context.Context) error {
			a.Close(ctx)
			return nil
		},
	}
}

func (a *App) Close(_ context.Context) {
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Log.Warnf("failed to close event publisher: %v", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warnf("failed to close redis client: %v", err)
		}
	}
	if a.cancelMetrics != nil {
		a.cancelMetrics()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func initializeLogger(serviceName string) (*logger.Logger, error) {
	return logger.New(os.Getenv("LOG_DIR"), serviceName, os.Getenv("LOG_LEVEL"))
}
