package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/fetchsocial/fetch-api/internal/api"
	"github.com/fetchsocial/fetch-api/internal/core/ports"
	"github.com/fetchsocial/fetch-api/internal/core/service"
	"github.com/fetchsocial/fetch-api/internal/infrastructure/config"
	"github.com/fetchsocial/fetch-api/internal/infrastructure/db/bolt"
	mongoinfra "github.com/fetchsocial/fetch-api/internal/infrastructure/db/mongo"
	redisinfra "github.com/fetchsocial/fetch-api/internal/infrastructure/db/redis"
	"github.com/fetchsocial/fetch-api/internal/infrastructure/identity/casdoor"
	"github.com/fetchsocial/fetch-api/internal/infrastructure/queue"
	"github.com/fetchsocial/fetch-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") != "production",
	})

	cfg := config.Load(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisinfra.Connect(ctx, redisinfra.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	sessions := redisinfra.NewSessionStore(rdb, cfg.SessionTTL)
	limiter := redisinfra.NewLoginLimiter(rdb, cfg.Login.Window, cfg.Login.MaxAttempts, cfg.Login.ResendCooldown)

	var (
		store     ports.IdentityStore
		msgRepo   ports.MessageRepository
		eventRepo ports.EventRepository
		mongoDB   *mongodriver.Database
	)

	switch cfg.Mode {
	case config.ModeCasdoor:
		client, db, err := mongoinfra.Connect(ctx, mongoinfra.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			log.Fatal().Err(err).Msg("mongo connection failed")
		}
		defer client.Disconnect(context.Background())

		mongoDB = db
		store = casdoor.NewIdentityStore(casdoor.Config{
			Endpoint:     cfg.Casdoor.Endpoint,
			ClientID:     cfg.Casdoor.ClientID,
			ClientSecret: cfg.Casdoor.ClientSecret,
			Certificate:  cfg.Casdoor.Certificate,
			Organization: cfg.Casdoor.Organization,
			Application:  cfg.Casdoor.Application,
			MailSender:   cfg.Casdoor.MailSender,
		}, db)
		msgRepo = mongoinfra.NewMessageRepository(db)
		eventRepo = mongoinfra.NewEventRepository(db)

	case config.ModeLocal:
		fileStore, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("bolt open failed")
		}
		defer fileStore.Close()

		store = bolt.NewIdentityStore(fileStore)
		msgRepo = bolt.NewMessageRepository(fileStore)
		eventRepo = bolt.NewEventRepository(fileStore)

	default:
		log.Fatal().Str("mode", cfg.Mode).Msg("unknown store mode")
	}

	dispatcher := queue.NewDispatcher(0, store, log)
	dispatcher.Start(ctx)

	directory := service.NewDirectoryService(store, sessions, limiter, dispatcher, cfg.AdminEmails, cfg.JWTSecret, cfg.SessionTTL, log)
	messages := service.NewMessageService(msgRepo, store, log)
	events := service.NewEventService(eventRepo, log)

	if err := service.SeedEvents(ctx, eventRepo, log); err != nil {
		log.Warn().Err(err).Msg("event seeding failed")
	}

	e := api.NewRouter(api.Deps{
		Directory: directory,
		Messages:  messages,
		Events:    events,
		Sessions:  sessions,
		JWTSecret: cfg.JWTSecret,
		Mongo:     mongoDB,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("mode", cfg.Mode).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
