package auth

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth/repository"
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth/service"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
