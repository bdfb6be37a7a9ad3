package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"muanapay/internal/api/controllers"
	"muanapay/pkg/middleware"
	"muanapay/pkg/utils"
)

type RouterConfig struct {
	JWTSecret      string
	GatewayKeyHash string
	Debug          bool
}

// NewRouter builds the gin engine. gatherer may be nil to leave /metrics out.
func NewRouter(
	cfg RouterConfig,
	log *zap.Logger,
	smsController *controllers.SmsController,
	verificationController *controllers.VerificationController,
	healthController *controllers.HealthController,
	gatherer prometheus.Gatherer,
) *gin.Engine {

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(middleware.Recovery(log))
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	r.NoMethod(func(c *gin.Context) {
		utils.RespondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		utils.RespondError(c, http.StatusNotFound, "Not found")
	})

	RegisterRoutes(r, cfg, smsController, verificationController, healthController, gatherer)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg RouterConfig,
	smsController *controllers.SmsController,
	verificationController *controllers.VerificationController,
	healthController *controllers.HealthController,
	gatherer prometheus.Gatherer) {

	functions := r.Group("/functions/v1")

	filterSms := functions.Group("/filter-sms")
	filterSms.OPTIONS("", middleware.PreflightEmpty)
	filterSms.POST("", middleware.GatewayKeyMiddleware(cfg.GatewayKeyHash), smsController.IngestSms)

	verify := functions.Group("/verify-transaction", middleware.AllowMethodsHeader())
	verify.OPTIONS("", middleware.PreflightOK)
	verify.POST("", middleware.JWTAuthMiddleware(cfg.JWTSecret), verificationController.VerifyTransaction)

	r.GET("/healthz", healthController.Healthz)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
}
