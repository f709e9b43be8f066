package telemetry

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/telemetry/service"
	"go.uber.org/fx"
)

var Module = fx.Module("telemetry.service",
	fx.Provide(service.NewService),
)
