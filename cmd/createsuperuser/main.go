// Command createsuperuser provisions an administrator account from the
// command line, the usual first step on a fresh deployment.
//
//	createsuperuser -email admin@example.com -password secret
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/joho/godotenv"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/database"
	"github.com/wavesrc/resource-center/internal/logger"
	"github.com/wavesrc/resource-center/internal/repository"
)

func main() {
	email := flag.String("email", "", "email address of the new superuser")
	password := flag.String("password", "", "password of the new superuser")
	firstName := flag.String("first-name", "", "optional first name")
	lastName := flag.String("last-name", "", "optional last name")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)

	if *email == "" || *password == "" {
		log.Fatal().Msg("-email and -password are required")
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	u, err := users.CreateSuperuser(ctx, repository.NewUserParams{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	}, cfg.BcryptCost)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			log.Fatal().Str("email", *email).Msg("a user with that email already exists")
		case errors.Is(err, repository.ErrEmailRequired):
			log.Fatal().Msg("email address must be set")
		default:
			log.Fatal().Err(err).Msg("create superuser failed")
		}
	}
	log.Info().Uint64("id", u.ID).Str("email", u.Email).Msg("superuser created")
}
