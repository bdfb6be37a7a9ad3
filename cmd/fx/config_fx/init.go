package config_fx

import (
	"go.uber.org/fx"
	"muanapay/internal/config"
)

var Module = fx.Provide(config.Load)
