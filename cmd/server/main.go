package main

import (
	"context"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	"github.com/harshlagwal/Wanderlust-backend/internal/config"
	api "github.com/harshlagwal/Wanderlust-backend/internal/http"
	"github.com/harshlagwal/Wanderlust-backend/internal/log"
	"github.com/harshlagwal/Wanderlust-backend/internal/metrics"
	"github.com/harshlagwal/Wanderlust-backend/internal/queue"
	"github.com/harshlagwal/Wanderlust-backend/internal/repo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("FATAL: %v", err)
	}

	if _, err := log.Init(cfg.Prod); err != nil {
		stdlog.Fatalf("logger init: %v", err)
	}
	defer log.Sync()

	if cfg.DDEnabled {
		tracer.Start(tracer.WithService("wanderlust-backend"))
		defer tracer.Stop()
	}

	metrics.MustRegister()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Errorf("mongo connect: %v", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		log.Errorf("mongo indexes: %v", err)
		os.Exit(1)
	}

	var limiter api.RateLimiter
	if cfg.RedisAddr != "" {
		rds := repo.NewRedis(cfg.RedisAddr)
		if err := rds.Ping(ctx); err != nil {
			log.Errorf("redis connect: %v", err)
			os.Exit(1)
		}
		defer rds.Close()
		limiter = rds
	}

	pub := queue.NewNoop()
	if cfg.AmqpURL != "" {
		p, err := queue.NewRabbit(cfg.AmqpURL, queue.Exchange)
		if err != nil {
			log.Errorf("rabbit connect: %v", err)
			os.Exit(1)
		}
		pub = p
	}
	defer pub.Close()

	h := api.NewHandler(store, cfg.JWTSecret, limiter, cfg.RateLimitPerMin, pub)
	r := api.NewRouter(h)

	srvErr := make(chan error, 1)
	go func() { srvErr <- r.Run(":" + cfg.Port) }()

	log.Infof("wanderlust backend listening on :%s", cfg.Port)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-sig:
		log.Infof("signal: %s, shutting down", s)
	case err := <-srvErr:
		log.Errorf("server error: %v", err)
	}
}
