package insight

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/insight/model"
	"github.com/samogera/BrightEco-Pay-sub000/internal/insight/service"
	"go.uber.org/fx"
)

var Module = fx.Module("insight.service",
	fx.Provide(model.NewHTTPClient),
	fx.Provide(service.NewService),
)
