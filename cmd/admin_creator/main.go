package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"userdir/internal/http/api"
	"userdir/internal/lib/config"
	"userdir/internal/lib/sl"
	"userdir/internal/lib/token"
	repo "userdir/internal/repository"
	"userdir/internal/service/user"
	"userdir/internal/storage"

	trmsqlx "github.com/avito-tech/go-transaction-manager/drivers/sqlx/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
)

// admin_creator creates one of the accounts listed in auth.admins. Those
// usernames cannot be taken through the public API.
func main() {
	var username, password string
	flag.StringVar(&username, "username", "", "admin username, must be listed in auth.admins")
	flag.StringVar(&password, "password", "", "admin password")

	cfg := config.MustLoad()
	log := sl.Setup(cfg.Env)

	if username == "" || len(password) < 6 {
		log.Error("username and a password of at least 6 characters are required")
		os.Exit(2)
	}

	ctx := context.Background()

	db, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		log.Error("failed to establish connection with database", sl.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	trManager := manager.Must(trmsqlx.NewDefaultFactory(db))
	userRepo := repo.NewUserRepo(db, trmsqlx.DefaultCtxGetter)
	userService := user.NewUserService(trManager, userRepo, userRepo, token.NewIssuer(cfg.Auth))

	resp, err := userService.RegisterAdmin(ctx, api.UserInput{Username: username, Password: password})
	if err != nil {
		log.Error("failed to create admin", sl.Err(err))
		os.Exit(1)
	}

	log.Info("admin created", slog.Int64("user_id", resp.ID), slog.String("username", resp.Username))
}
