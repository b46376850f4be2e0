package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/movsyannikov/tasktracker/internal/auth"
	"github.com/movsyannikov/tasktracker/internal/config"
	"github.com/movsyannikov/tasktracker/internal/handler"
	"github.com/movsyannikov/tasktracker/internal/repo"
	"github.com/movsyannikov/tasktracker/internal/service"
	"github.com/movsyannikov/tasktracker/internal/worker"
	"github.com/movsyannikov/tasktracker/pkg/respond"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to Database.")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal("Failed to ping the Database.")
	}
	logger.Info("Successfully connected to the Database!")

	userRepo := repo.NewUserRepo(pool)
	taskRepo := repo.NewTaskRepo(pool)

	creds := auth.NewCredentials(cfg.JWTSecret, cfg.TokenTTL)
	userService := service.NewUserService(userRepo, creds)
	taskService := service.NewTaskService(taskRepo, cfg.MaxPageSize)

	pipeline := handler.NewPipeline(logger, cfg.IsProduction())

	rateMW := httprate.Limit(20, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respond.Error(w, r, http.StatusTooManyRequests, "Too many requests")
		}),
	)

	router := handler.NewRouter(pipeline,
		handler.NewUserHandler(userService),
		handler.NewTaskHandler(taskService),
		auth.Middleware(creds, userRepo, logger),
		rateMW,
	)

	purgePool := worker.NewPurgePool(taskRepo, logger, cfg.WorkerCount, cfg.PurgeRetention, cfg.PurgeInterval)
	purgePool.Start(context.Background())

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      middleware.Logger(router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server started at ", zap.String("port", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed: ", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Shutdown error: ", zap.Error(err))
	}
	purgePool.Stop()
	logger.Info("Server stopped successfully!")
}
