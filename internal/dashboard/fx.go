package dashboard

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/dashboard/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dashboard.service",
	fx.Provide(service.NewService),
)
