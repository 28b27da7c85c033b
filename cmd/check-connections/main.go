package main

import (
	"context"
	"os"
	"time"

	"github.com/cankoe/visit-recorder/internal/helpers"

	"github.com/rs/zerolog/log"
)

// Opens every configured backend once and exits non-zero if any is unreachable.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	components, err := helpers.InitializeCommonComponents(ctx, "check-connections")
	if err != nil {
		log.Error().Err(err).Msg("Connection check failed")
		os.Exit(1)
	}
	defer components.CloseAll(context.Background())

	if _, err := components.VisitStore.ReadAll(ctx); err != nil {
		log.Error().Err(err).Str("backend", components.Config.Storage.Backend).Msg("Visit store is not readable")
		components.CloseAll(context.Background())
		os.Exit(1)
	}

	log.Info().
		Str("storage", components.Config.Storage.Backend).
		Str("sessions", components.Config.Session.Backend).
		Msg("All connections OK")
}
