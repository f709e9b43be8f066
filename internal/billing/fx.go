package billing

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/billing/repository"
	"github.com/samogera/BrightEco-Pay-sub000/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
