package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/St1cky1/task-registry/internal/api"
	grpcapi "github.com/St1cky1/task-registry/internal/api/grpc"
	"github.com/St1cky1/task-registry/internal/config"
	"github.com/St1cky1/task-registry/internal/infrastructure/client"
	"github.com/St1cky1/task-registry/internal/repository"
	"github.com/St1cky1/task-registry/internal/usecase"
	"github.com/St1cky1/task-registry/internal/worker"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Run the HTTP and gRPC servers",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conf, err := config.Parse()
	if err != nil {
		return errors.Wrap(err, "could not parse config")
	}

	slog.DebugContext(ctx, "using configuration",
		slog.String("store", conf.Store.Driver),
		slog.String("http", conf.HTTP.Address),
		slog.Bool("grpc", conf.GRPC.Enabled),
		slog.Bool("events", conf.RabbitMQ.URL != ""))

	// Хранилище открывается один раз на весь процесс
	taskRepo, closeStore, err := openStore(ctx, conf)
	if err != nil {
		return errors.Wrap(err, "could not open task store")
	}
	defer closeStore()

	var publisher usecase.EventPublisher
	if conf.RabbitMQ.URL != "" {
		rabbitMQ, err := client.NewRabbitMQClient(conf.RabbitMQ.URL, conf.RabbitMQ.Queue)
		if err != nil {
			return errors.Wrap(err, "could not connect to rabbitmq")
		}
		defer rabbitMQ.Close()

		publisher = rabbitMQ
		slog.InfoContext(ctx, "publishing task events", slog.String("queue", rabbitMQ.GetQueueName()))
	}

	taskService := usecase.NewTaskService(taskRepo, publisher)

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	if conf.RabbitMQ.URL != "" && conf.RabbitMQ.Consume {
		eventWorker := worker.NewEventWorker(conf.RabbitMQ.URL, conf.RabbitMQ.Queue, worker.LogEvent)
		wg.Add(1)
		go func() {
			defer wg.Done()
			eventWorker.Start(ctx)
		}()
	}

	httpServer := &http.Server{
		Addr: conf.HTTP.Address,
		Handler: api.NewRouter(taskService, api.RouterConfig{
			Logger:         slog.Default(),
			AllowedOrigins: conf.HTTP.CORSAllowedOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		slog.InfoContext(ctx, "starting http server", slog.String("address", conf.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "http server")
		}
	}()

	var grpcServer *grpcapi.GRPCServer
	if conf.GRPC.Enabled {
		grpcServer = grpcapi.NewGRPCServer(taskService)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := grpcServer.Start(conf.GRPC.Address); err != nil {
				errCh <- errors.Wrap(err, "grpc server")
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		slog.InfoContext(ctx, "shutting down")
	case runErr = <-errCh:
		slog.ErrorContext(ctx, "server failed, shutting down", slog.Any("error", runErr))
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("could not shutdown http server", slog.Any("error", err))
	}
	if grpcServer != nil {
		grpcServer.Stop()
	}

	wg.Wait()
	taskService.Wait()

	return runErr
}

// openStore возвращает хранилище выбранного драйвера и функцию его закрытия
func openStore(ctx context.Context, conf *config.Config) (repository.ITaskRepository, func(), error) {
	switch conf.Store.Driver {
	case config.DriverPostgres:
		pgConf := conf.Postgres.ClientConfig()

		if conf.Postgres.AutoMigrate {
			if err := client.RunMigrations(pgConf.URL()); err != nil {
				return nil, nil, err
			}
		}

		pg, err := client.NewPostgresClient(ctx, pgConf)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "connected to postgres", slog.String("host", pgConf.Host))

		return repository.NewTaskRepository(pg.Pool), pg.Close, nil

	case config.DriverMongo:
		mongoConf := conf.Mongo.ClientConfig()

		mongoClient, err := client.NewMongoClient(ctx, mongoConf)
		if err != nil {
			return nil, nil, err
		}
		slog.InfoContext(ctx, "connected to mongo", slog.String("database", mongoConf.Name))

		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := mongoClient.Close(closeCtx); err != nil {
				slog.Error("could not disconnect from mongo", slog.Any("error", err))
			}
		}

		return repository.NewMongoTaskRepository(mongoClient.Database), closeFn, nil

	case config.DriverMemory:
		slog.WarnContext(ctx, "using in-memory task store, tasks are lost on exit")
		return repository.NewMemoryTaskRepository(), func() {}, nil

	default:
		return nil, nil, errors.Errorf("unknown store driver %q", conf.Store.Driver)
	}
}
