package controllers_fx

import (
	"go.uber.org/fx"
	"muanapay/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewSmsController),
	fx.Provide(controllers.NewVerificationController),
	fx.Provide(controllers.NewHealthController))
