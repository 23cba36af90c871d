package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/business/catalog"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/config"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/dummyjson"
	apirouter "github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/http"
	"github.com/weiwei-tsao/product-dashboard/apps/api/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load(".env.local", ".env")

	cfg, err := config.Load()
	if err != nil {
		logging.L().Fatal().Err(err).Msg("config load")
	}
	logging.Init(cfg.LogLevel, cfg.LogFormat == "console")
	log := logging.WithComponent("server")

	gin.SetMode(cfg.GinMode)

	products := dummyjson.New(nil, dummyjson.Config{
		BaseURL:    cfg.ProductsBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
	catalogSvc := catalog.NewService(products)

	router := apirouter.NewRouter(products, catalogSvc, apirouter.Options{
		AllowedOrigins:  cfg.AllowedOrigins,
		PageSize:        cfg.PageSize,
		AnalyticsStrict: cfg.AnalyticsStrict,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("products_api", cfg.ProductsBaseURL).Msg("server listening")

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server exited")
}
