package main

import (
	"flag"
	"fmt"
	"os"

	"userdir/internal/lib/config"
	"userdir/internal/lib/token"
	"userdir/internal/models"
)

// token_generator mints a token with the configured secret, handy for local testing.
// The server only accepts it when id and username match an existing user.
func main() {
	var (
		userID   int64
		username string
	)
	flag.Int64Var(&userID, "id", 1, "user id placed in the sub claim")
	flag.StringVar(&username, "username", "admin", "username; listed admins get the admin role")

	cfg := config.MustLoad()

	tok, err := token.NewIssuer(cfg.Auth).Issue(&models.User{ID: userID, Username: username})
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}

	fmt.Println("TOKEN=" + tok)
}
