package payment

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/payment/gateway"
	"github.com/samogera/BrightEco-Pay-sub000/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(func(cfg config.Config) *gateway.Registry {
		registry := gateway.NewRegistry()
		registry.Register(gateway.NewSandbox(cfg.StkPushDelay))
		return registry
	}),
	fx.Provide(service.NewService),
)
