// Command server runs the resource-center HTTP API.
package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/wavesrc/resource-center/internal/config"
	"github.com/wavesrc/resource-center/internal/database"
	"github.com/wavesrc/resource-center/internal/handler"
	"github.com/wavesrc/resource-center/internal/logger"
	"github.com/wavesrc/resource-center/internal/middleware"
	"github.com/wavesrc/resource-center/internal/queue"
	"github.com/wavesrc/resource-center/internal/repository"
	"github.com/wavesrc/resource-center/internal/router"
	queue_publisher "github.com/wavesrc/resource-center/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments use the environment

	cfg := config.Load()
	log := logger.New(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables caching and rate limiting

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	categories := repository.NewCategoryRepo(db)
	tags := repository.NewTagRepo(db)
	books := repository.NewBookRepo(db)
	videos := repository.NewVideoRepo(db)
	search := repository.NewSearchRepo(db)
	stats := repository.NewStatsRepo(db)

	mailer := &queue_publisher.Mailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.MailFrom,
	}
	if !mailer.Enabled() {
		log.Warn().Msg("SMTP not configured, outgoing mail disabled")
	}

	// Consumer keeps its own connection and reconnects on failure.
	go func() {
		if err := queue.StartPublishedConsumer(log); err != nil {
			log.Warn().Err(err).Msg("resource event consumer unavailable")
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(log))

	router.Register(e, router.Deps{
		Cfg:      cfg,
		Redis:    rdb,
		Auth:     handler.NewAuthHandler(cfg, users, tokens, mailer, log),
		Profile:  handler.NewProfileHandler(cfg, users),
		Browse:   handler.NewBrowseHandler(books, videos, stats),
		Search:   handler.NewSearchHandler(search),
		Taxonomy: handler.NewTaxonomyHandler(categories, tags),
		Staff:    handler.NewStaffResourceHandler(books, videos, log),
		Accounts: handler.NewStaffUserHandler(cfg, users),
	})

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
