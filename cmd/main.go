package main

import (
	"cloud-function-discovery/internal/config"
	"cloud-function-discovery/internal/logging"
	"strconv"

	// Load .env BEFORE importing the function package
	_ "github.com/joho/godotenv/autoload"

	// Blank-import the function package so the init() runs
	_ "cloud-function-discovery"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
)

// the main function starts the Functions Framework server - only needed when running locally
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	port := strconv.Itoa(cfg.Server.Port)

	hostname := ""
	if cfg.Server.LocalOnly {
		hostname = "127.0.0.1"
	}

	logging.Info().
		Str("url", "http://127.0.0.1:"+port+"/search?q=family+events+this+weekend").
		Str("swagger", "http://127.0.0.1:"+port+"/swagger/index.html").
		Msg("server starting")

	if err := funcframework.StartHostPort(hostname, port); err != nil {
		logging.Fatal().Err(err).Msg("funcframework.StartHostPort failed")
	}
}
