// Command server hosts a single Cutthroat Race match over websockets.
// Seat tokens for every player are printed at startup; clients connect to
// /ws?token=<seat token>.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Shaherezada/cutthroat-race/internal/auth"
	"github.com/Shaherezada/cutthroat-race/internal/config"
	"github.com/Shaherezada/cutthroat-race/internal/database"
	"github.com/Shaherezada/cutthroat-race/internal/game"
	"github.com/Shaherezada/cutthroat-race/internal/historian"
	"github.com/Shaherezada/cutthroat-race/internal/server"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("parse redis url")
		}
		rdb = redis.NewClient(opts)
	}

	store := database.New(nil)
	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			log.WithError(err).Fatal("connect database")
		}
		store = database.New(pool)
		defer store.Close()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	matchID := uuid.New()
	hist := historian.New(matchID, log, rdb)
	eng, err := game.NewEngine(game.Config{
		ID:       matchID,
		Players:  cfg.Players,
		Seed:     seed,
		Recorder: hist,
	})
	if err != nil {
		log.WithError(err).Fatal("build engine")
	}
	match := server.NewMatch(eng, hist, store, log, cfg.MatchLogDir)
	srv := server.New(match, cfg.JWTSecret, log)

	log.WithFields(logrus.Fields{
		"match":   eng.ID,
		"players": cfg.Players,
		"seed":    seed,
	}).Info("match ready")
	for _, p := range eng.State().Players {
		token, err := auth.CreateSeatToken(cfg.JWTSecret, eng.ID, p.ID, auth.DefaultTTL)
		if err != nil {
			log.WithError(err).Fatal("issue seat token")
		}
		log.WithFields(logrus.Fields{"player": p.Name, "token": token}).Info("seat token")
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv)
	log.WithField("addr", cfg.Addr).Info("listening")
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.WithError(err).Fatal("http server")
	}
}
