// @title Math Tutor API
// @version 1.0
// @description AI math tutoring backend with JWT auth, streaming generation and chat history.

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"

	"math_tutor_backend/internal/app"
	"math_tutor_backend/internal/config"
	"math_tutor_backend/pkg/configwatcher"
	"math_tutor_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// Hot reload is advisory: only settings read per-request pick up
	// changes without a restart.
	go configwatcher.WatchConfig("configs/config.yaml", func(updated *config.Config) {
		logger.Log.Info("configuration reloaded", zap.String("path", "configs/config.yaml"))
		*application.Config = *updated
	})

	application.Run()
}
