package sms_fx

import (
	"go.uber.org/fx"
	"muanapay/internal/services"
)

var Module = fx.Provide(services.NewSmsService)
