package function

import (
	"cloud-function-discovery/internal/app"
	"cloud-function-discovery/internal/config"
	"cloud-function-discovery/internal/logging"
	"context"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	_ "cloud-function-discovery/docs"
)

// @title Event Discovery Search API
// @version 2.1.0
// @description Natural-language search over upcoming Dubai events with AI ranking (Google Cloud Function).

// @host 127.0.0.1:5000
// @BasePath /
func init() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	a, err := app.New(context.Background(), cfg, nil)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize search function")
	}

	functions.HTTP("SearchFunction", a.Handler.ServeHTTP)
}
