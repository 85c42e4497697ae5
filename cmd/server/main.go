package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	statsh "userdir/internal/http/handlers/stats"
	userh "userdir/internal/http/handlers/user"
	"userdir/internal/http/router"
	"userdir/internal/lib/config"
	"userdir/internal/lib/sl"
	"userdir/internal/lib/token"
	"userdir/internal/migrator"
	repo "userdir/internal/repository"
	"userdir/internal/service/stats"
	"userdir/internal/service/user"
	"userdir/internal/storage"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

func main() {
	cfg := config.MustLoad()

	log := sl.Setup(cfg.Env)
	log.Info("Starting user directory service", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Migrations.AutoMigrate {
		if err := migrate(ctx, log, cfg.Database); err != nil {
			log.Error("failed to apply migrations", sl.Err(err))
			os.Exit(1)
		}
	}

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to establish connection with database", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	// initialization of go-transaction-manager
	trManager := manager.Must(trmsqlx.NewDefaultFactory(db))

	userRepo := repo.NewUserRepo(db, trmsqlx.DefaultCtxGetter)
	statsRepo := repo.NewStatisticsRepo(db, trmsqlx.DefaultCtxGetter)

	issuer := token.NewIssuer(cfg.Auth)

	userService := user.NewUserService(trManager, userRepo, userRepo, issuer)
	statsService := stats.NewStatsService(trManager, statsRepo)

	userHandler := userh.NewUserHandler(log, userService)
	statsHandler := statsh.NewStatsHandler(log, statsService)

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router.New(log, issuer, userService, userHandler, statsHandler),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting http server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start http server", sl.Err(err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop http server", sl.Err(err))
		return
	}

	log.Info("http server stopped")
}

func migrate(ctx context.Context, log *slog.Logger, cfg config.Database) error {
	m, err := migrator.New(ctx, log, cfg)
	if err != nil {
		return err
	}
	defer m.Close()

	return m.Up()
}
