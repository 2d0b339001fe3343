package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	v1 "github.com/Jaiparmar940/workly-sub000/cmd/api/router/v1"
	cacheAdapter "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/cache/adapter"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/config"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/database"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/logging"
	queueAdapter "github.com/Jaiparmar940/workly-sub000/internal/infrastructure/queue/adapter"
	"github.com/Jaiparmar940/workly-sub000/internal/infrastructure/realtime"
	"github.com/Jaiparmar940/workly-sub000/internal/pkg/messaging/application/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DBURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer cache.Close()

	qclient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue client")
	}
	defer qclient.Close()

	qserver, err := queueAdapter.NewAsynqServer(cfg.RedisURL, cfg.AsynqConcurrency, cfg.AsynqQueues)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create queue server")
	}
	task.RegisterDeliveryReceiptTask(qserver, pool, logging.Component(log, "delivery"))

	go func() {
		if err := qserver.Run(ctx); err != nil {
			log.Error().Err(err).Msg("queue server stopped")
		}
	}()

	rt := realtime.NewRouter()
	defer rt.Close()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, pool, cache, qclient, rt, logging.Component(log, "http"))

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("port", cfg.Port).Msg("api listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
