package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/taskdeck/adapters/events"
	"github.com/taskdeck/taskdeck/adapters/hasher"
	"github.com/taskdeck/taskdeck/adapters/store"
	"github.com/taskdeck/taskdeck/adapters/tokenizer"
	"github.com/taskdeck/taskdeck/config"
	"github.com/taskdeck/taskdeck/ports"
	"github.com/taskdeck/taskdeck/service"
	transport "github.com/taskdeck/taskdeck/transport/http"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.UsingDefaultSecrets() {
		log.Warn("using insecure development token secrets")
	}

	tknzr, err := tokenizer.NewJWTTokenizer(
		[]byte(cfg.AccessSecret),
		[]byte(cfg.RefreshSecret),
		cfg.AccessTTL,
		cfg.RefreshTTL,
	)
	if err != nil {
		log.Error("failed to create tokenizer", "error", err)
		os.Exit(1)
	}

	dataStore, closeStore, err := openStore(cfg.StoreURL)
	if err != nil {
		log.Error("failed to open store", "error", err, "url", cfg.StoreURL)
		os.Exit(1)
	}
	defer closeStore()

	publisher, err := openPublisher(cfg.RedisURL, log)
	if err != nil {
		log.Error("failed to create event publisher", "error", err)
		os.Exit(1)
	}

	authService := service.NewAuthService(dataStore, tknzr, hasher.NewBcryptHasher(), publisher, log)
	userService := service.NewUserService(dataStore)
	taskService := service.NewTaskService(dataStore)

	router := transport.SetupRouter(authService, userService, taskService, transport.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.Production(),
	})

	log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
	if err := router.Run(cfg.Addr); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// dataStore is the combined persistence surface the services need.
type dataStore interface {
	ports.UserStore
	ports.TaskStore
}

// openStore selects the persistence adapter from the store URL: a redis://
// URL picks the Redis store, anything else is a bbolt database file path.
func openStore(storeURL string) (dataStore, func(), error) {
	if strings.HasPrefix(storeURL, "redis://") || strings.HasPrefix(storeURL, "rediss://") {
		opts, err := redis.ParseURL(storeURL)
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(opts)
		return store.NewRedisStore(client), func() { _ = client.Close() }, nil
	}

	bolt, err := store.NewBoltStore(storeURL)
	if err != nil {
		return nil, nil, err
	}
	return bolt, func() { _ = bolt.Close() }, nil
}

// openPublisher wires the session event stream when REDIS_URL is set; without
// it events are dropped.
func openPublisher(redisURL string, log *slog.Logger) (ports.EventPublisher, error) {
	if redisURL == "" {
		log.Info("no REDIS_URL set, session events disabled")
		return events.NewNopPublisher(), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	publisher, err := redisstream.NewPublisher(
		redisstream.PublisherConfig{Client: redis.NewClient(opts)},
		watermill.NewSlogLogger(log),
	)
	if err != nil {
		return nil, err
	}
	return events.NewWatermillPublisher(publisher), nil
}
