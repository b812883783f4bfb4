package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/ecavus/collegia/internal/server"
)

// @title Collegia API
// @version 1.0
// @description API for Collegia, a college notes and resource sharing platform with a realtime forum

// @contact.name API Support
// @contact.email support@collegia.app

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		log.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	log.Info().Msg("Application finished gracefully.")
}
