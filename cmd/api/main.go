package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cankoe/visit-recorder/api"
	internalapi "github.com/cankoe/visit-recorder/internal/api"
	"github.com/cankoe/visit-recorder/internal/helpers"
	"github.com/cankoe/visit-recorder/internal/session"
	"github.com/cankoe/visit-recorder/internal/visits"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	components, err := helpers.InitializeCommonComponents(ctx, "api")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize components")
	}
	defer components.CloseAll(context.Background())

	cfg := components.Config

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger())

	internalapi.RegisterRoutes(r, internalapi.Dependencies{
		Recorder: visits.NewRecorder(components.VisitStore, visits.NewLocalHost()),
		Lister:   visits.NewLister(components.VisitStore),
		Sessions: session.NewManager(components.SessionStore, cfg.Session.CookieName,
			time.Duration(cfg.Session.TTLMinutes)*time.Minute),
		Build: cfg.Build,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("API server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down API server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("API server exited gracefully")
}
