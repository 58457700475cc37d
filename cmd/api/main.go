package main

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tablechain/restaurant-protocol/internal/api"
	"github.com/tablechain/restaurant-protocol/internal/infrastructure/config"
	mongodb "github.com/tablechain/restaurant-protocol/internal/infrastructure/db/mongo"
	redisdb "github.com/tablechain/restaurant-protocol/internal/infrastructure/db/redis"
	"github.com/tablechain/restaurant-protocol/internal/infrastructure/queue"
	"github.com/tablechain/restaurant-protocol/pkg/logger"
)

func main() {
	log := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Pretty: os.Getenv("ENV") == "development",
	})

	cfg := config.Load(log)

	airdropKey, err := hex.DecodeString(cfg.AirdropSigningKey)
	if err != nil || len(airdropKey) != ed25519.PublicKeySize {
		log.Fatal().Msg("AIRDROP_SIGNING_KEY must be a hex-encoded ed25519 public key")
	}

	ctx := context.Background()

	client, db, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis.Addr, cfg.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	publisher, err := queue.Connect(cfg.Rabbit.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq connection failed")
	}
	defer publisher.Close()

	e := api.NewRouter(db, rdb, publisher, api.RouterConfig{
		JWTSecret:   cfg.JWTSecret,
		MultisigKey: cfg.MultisigKey,
		AirdropKey:  ed25519.PublicKey(airdropKey),
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
