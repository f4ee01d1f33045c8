package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"veggie-shop/config"
	"veggie-shop/models"
	"veggie-shop/routes"
)

var (
	router  *gin.Engine
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Error().Err(err).Msg("failed to load configuration")
			initErr = err
			return
		}
		config.SetupLogger(cfg.AppEnv, cfg.LogLevel)

		app, err := routes.NewApp(context.Background(), cfg)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialise application")
			initErr = err
			return
		}
		router = app.Router
	})
}

// Handler is the serverless entrypoint; the app is built on the first request
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
		})
		return
	}
	router.ServeHTTP(w, r)
}
