package ticket

import (
	"github.com/samogera/BrightEco-Pay-sub000/internal/ticket/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ticket.service",
	fx.Provide(service.NewService),
)
