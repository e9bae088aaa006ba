package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskledger/backend/api/handler"
	"github.com/taskledger/backend/internal/config"
	"github.com/taskledger/backend/internal/infrastructure/journal"
	"github.com/taskledger/backend/internal/infrastructure/monitor"
	mongoInfra "github.com/taskledger/backend/internal/infrastructure/mongo"
	pgInfra "github.com/taskledger/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskledger/backend/internal/infrastructure/redis"
	"github.com/taskledger/backend/internal/middleware"
	"github.com/taskledger/backend/internal/router"
	"github.com/taskledger/backend/internal/services"
	"github.com/taskledger/backend/internal/services/lifecycle"
	"github.com/taskledger/backend/pkg/httpcontext"
	"github.com/taskledger/backend/pkg/logger"
	"github.com/taskledger/backend/repository"
	memoryRepo "github.com/taskledger/backend/repository/memory"
	mongoRepo "github.com/taskledger/backend/repository/mongo"
	pgRepo "github.com/taskledger/backend/repository/postgres"
	redisRepo "github.com/taskledger/backend/repository/redis"
	maintenanceUC "github.com/taskledger/backend/usecase/maintenance"
	rewardsUC "github.com/taskledger/backend/usecase/rewards"
	tasksUC "github.com/taskledger/backend/usecase/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	stores, err := openStores(appCtx, cfg, manager, zapLogger)
	if err != nil {
		zapLogger.Fatal("store bootstrap failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	// The activity feed is a best-effort extra; the service runs without it.
	var feed repository.ActivityFeed
	redisClient, err := redisInfra.NewClient(cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Warn("redis unavailable, activity feed disabled", zap.Error(err))
		redisClient = nil
	} else {
		manager.Close("redis", redisClient.Close)
		feed = redisRepo.NewActivityFeed(redisClient, cfg.Redis.FeedSize)
	}

	journalStore, err := journal.Open(cfg.Journal.Path)
	if err != nil {
		zapLogger.Fatal("failed to open credit journal", zap.Error(err))
	}
	manager.Close("journal", journalStore.Close)

	mon := monitor.New(stores.pinger, cfg.Store.Driver, redisClient, journalStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	journalBridge := services.NewJournalBridge(journalStore)

	rewardsUseCase := rewardsUC.New(stores.users, feed, zapLogger)
	tasksUseCase := tasksUC.New(stores.tasks, rewardsUseCase, journalBridge, zapLogger)
	maintenanceUseCase := maintenanceUC.New(stores.tasks, stores.users, feed, journalBridge, zapLogger)

	reconciler := services.NewCreditReconciler(
		journalStore,
		mon,
		rewardsUseCase,
		zapLogger,
		services.ReconcilerConfig{
			Interval:    cfg.Journal.SyncInterval,
			BatchSize:   cfg.Journal.BatchSize,
			MaxAttempts: cfg.Journal.MaxAttempts,
		},
	)
	reconciler.Start()
	manager.Register("credit_reconciler", func(ctx context.Context) error {
		reconciler.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Task:    apiHandler.NewTaskHandler(tasksUseCase, ctxAdapter, zapLogger),
		Rewards: apiHandler.NewRewardsHandler(rewardsUseCase, ctxAdapter, zapLogger),
		Admin:   apiHandler.NewAdminHandler(maintenanceUseCase, ctxAdapter, zapLogger),
		Health:  apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	r := router.New(handlers)
	handler := middleware.AccessLog(zapLogger)(middleware.Recover(zapLogger)(r.Handler))

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}
	if cfg.HTTP.MaxConn > 0 {
		server.Concurrency = cfg.HTTP.MaxConn
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// storeSet groups the repositories and the health probe of whichever store
// driver the configuration selected.
type storeSet struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	pinger monitor.Pinger
}

func openStores(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) (*storeSet, error) {
	switch cfg.Store.Driver {
	case "mongo":
		client, db, err := mongoInfra.Connect(ctx, cfg.Store.Mongo, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("mongodb", func(ctx context.Context) error {
			return client.Disconnect(ctx)
		})
		if err := mongoInfra.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		return &storeSet{
			tasks:  mongoRepo.NewTaskRepository(db),
			users:  mongoRepo.NewUserRepository(db),
			pinger: mongoInfra.NewPinger(client),
		}, nil

	case "postgres":
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			return nil, err
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Store.Postgres, zapLogger)
		if err != nil {
			return nil, err
		}
		manager.Register("postgres", func(context.Context) error {
			pool.Close()
			return nil
		})
		return &storeSet{
			tasks:  pgRepo.NewTaskRepository(pool),
			users:  pgRepo.NewUserRepository(pool),
			pinger: monitor.PingerFunc(pool.Ping),
		}, nil

	case "memory":
		store := memoryRepo.New()
		return &storeSet{
			tasks:  memoryRepo.NewTaskRepository(store),
			users:  memoryRepo.NewUserRepository(store),
			pinger: store,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
