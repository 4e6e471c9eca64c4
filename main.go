package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/budget"
	"github.com/famplan/backend/internal/config"
	v1 "github.com/famplan/backend/internal/controllers/v1"
	"github.com/famplan/backend/internal/models"
	"github.com/famplan/backend/internal/planner"
	"github.com/famplan/backend/internal/recurring"
	"github.com/famplan/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()

	// Create the directory the database lives in
	err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	err = models.Connect(cfg.DBPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	p := planner.New(models.DB, nil)
	co := v1.Controller{
		Planner:   p,
		Budget:    budget.New(models.DB, p, budget.Thresholds{Warning: cfg.WarningThreshold, Over: cfg.OverThreshold}),
		Generator: recurring.New(models.DB, nil),
		Auth:      auth.New(cfg.JWTSecret, cfg.JWTExpirationDur),
	}

	r, err := router.Config()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(co, r.Group("/"))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
