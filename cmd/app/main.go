package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"muanapay/cmd/fx/config_fx"
	"muanapay/cmd/fx/controllers_fx"
	"muanapay/cmd/fx/db_fx"
	"muanapay/cmd/fx/logger_fx"
	"muanapay/cmd/fx/memcache_fx"
	"muanapay/cmd/fx/metrics_fx"
	"muanapay/cmd/fx/payment_service_fx"
	"muanapay/cmd/fx/prompt_fx"
	"muanapay/cmd/fx/sms_fx"
	"muanapay/internal/api"
	"muanapay/internal/api/controllers"
	"muanapay/internal/config"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		metrics_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		prompt_fx.Module,
		sms_fx.Module,
		payment_service_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("Failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	log *zap.Logger,
	reg *prometheus.Registry,
	smsController *controllers.SmsController,
	verificationController *controllers.VerificationController,
	healthController *controllers.HealthController) *gin.Engine {

	return api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.JWTSecret,
		GatewayKeyHash: cfg.GatewayKeyHash,
		Debug:          cfg.Environment == "development",
	}, log, smsController, verificationController, healthController, reg)
}
