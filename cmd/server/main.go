package main

import (
	"flag"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pulseworks/pulse/internal/api"
	"github.com/pulseworks/pulse/internal/config"
	"github.com/pulseworks/pulse/internal/middleware"
	"github.com/pulseworks/pulse/internal/store"
)

func main() {
	memory := flag.Bool("memory", false, "run against an in-memory store instead of the database")
	seed := flag.Bool("seed", false, "load development fixtures on startup")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	log.SetLevel(cfg.LogLevel)

	st, err := openStore(cfg, *memory)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	if *seed {
		if err := store.Seed(st); err != nil {
			log.WithError(err).Fatal("seed fixtures")
		}
		log.Info("development fixtures loaded")
	}

	if cfg.LogLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.RateLimit(cfg.RateLimit, cfg.RateBurst))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.NoStore())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}))

	api.NewRouter(st, cfg.JWTSecret, cfg.JWTTTL, log).Register(r)

	log.WithField("addr", cfg.Addr).Info("pulse server listening")
	if err := r.Run(cfg.Addr); err != nil {
		log.WithError(err).Fatal("server error")
	}
}

func openStore(cfg *config.Config, memory bool) (api.Store, error) {
	if memory {
		return store.NewMemoryStore(), nil
	}
	db, err := cfg.OpenDB()
	if err != nil {
		return nil, err
	}
	if err := store.AutoMigrate(db); err != nil {
		return nil, err
	}
	return store.NewGormStore(db), nil
}
