package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crewconnect/employee-portal/internal/config"
	"github.com/crewconnect/employee-portal/internal/domain/employee"
	appHTTP "github.com/crewconnect/employee-portal/internal/handler/http"
	"github.com/crewconnect/employee-portal/internal/pkg/approval"
	"github.com/crewconnect/employee-portal/internal/pkg/database"
	"github.com/crewconnect/employee-portal/internal/pkg/email"
	"github.com/crewconnect/employee-portal/internal/pkg/locker"
	"github.com/crewconnect/employee-portal/internal/pkg/notify"
	"github.com/crewconnect/employee-portal/internal/repository/memory"
	"github.com/crewconnect/employee-portal/internal/repository/mongodb"
	"github.com/crewconnect/employee-portal/internal/repository/postgresql"
	employeeService "github.com/crewconnect/employee-portal/internal/service/employee"
	leaveService "github.com/crewconnect/employee-portal/internal/service/leave"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "employee-portal"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	employeeRepo, closeStore, err := openEmployeeStore(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open employee store: ", err)
	}
	defer closeStore()

	lk, closeLocker, err := openLocker(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize locker: ", err)
	}
	defer closeLocker()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	if cfg.SMTP.Host == "" {
		slog.Warn("SMTP_HOST not set, leave emails will be skipped")
	}

	dispatcher := notify.NewDispatcher(cfg.Notify.Workers, cfg.Notify.QueueSize, cfg.Notify.TaskTimeout)
	dispatcher.Start()

	tokens := approval.NewTokenService(cfg.Approval.Secret, cfg.Approval.TTL)
	notifier := leaveService.NewNotifier(emailService, dispatcher, cfg.App.FrontendURL, cfg.Leave.ApproverEmail)
	leaveSvc := leaveService.NewLeaveService(employeeRepo, lk, tokens, notifier)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, cfg.Leave.DefaultTotal)

	router := appHTTP.NewRouter(
		cfg,
		logger,
		appHTTP.NewLeaveHandler(leaveSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", server.Addr, "store", cfg.App.StoreDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", "error", err)
	}
	if err := dispatcher.Stop(shutdownCtx); err != nil {
		slog.Error("Notification dispatcher did not drain", "error", err)
	}
}

func openEmployeeStore(ctx context.Context, cfg *config.Config) (employee.EmployeeRepository, func(), error) {
	switch cfg.App.StoreDriver {
	case config.StoreDriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgresql.NewEmployeeRepository(db), db.Close, nil

	case config.StoreDriverMongo:
		mdb, err := database.NewMongoDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
		if err != nil {
			return nil, nil, err
		}
		if err := mdb.EnsureEmployeeIndexes(ctx, cfg.Mongo.Collection); err != nil {
			_ = mdb.Close(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mdb.Close(closeCtx); err != nil {
				slog.Error("Mongo disconnect failed", "error", err)
			}
		}
		return mongodb.NewEmployeeRepository(mdb.Database.Collection(cfg.Mongo.Collection)), closeFn, nil

	default:
		slog.Warn("Using in-memory employee store, data is lost on restart")
		return memory.NewEmployeeRepository(), func() {}, nil
	}
}

// openLocker serializes per-employee mutations across instances when Redis
// is configured and within this process otherwise.
func openLocker(ctx context.Context, cfg *config.Config) (locker.Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return locker.NewKeyedMutex(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	closeFn := func() {
		if err := client.Close(); err != nil {
			slog.Error("Redis close failed", "error", err)
		}
	}
	return locker.NewRedisLocker(client, cfg.Redis.LockTTL), closeFn, nil
}
