package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/samogera/BrightEco-Pay-sub000/internal/audit"
	"github.com/samogera/BrightEco-Pay-sub000/internal/auth"
	"github.com/samogera/BrightEco-Pay-sub000/internal/billing"
	"github.com/samogera/BrightEco-Pay-sub000/internal/clock"
	"github.com/samogera/BrightEco-Pay-sub000/internal/config"
	"github.com/samogera/BrightEco-Pay-sub000/internal/dashboard"
	"github.com/samogera/BrightEco-Pay-sub000/internal/events"
	"github.com/samogera/BrightEco-Pay-sub000/internal/insight"
	"github.com/samogera/BrightEco-Pay-sub000/internal/migration"
	"github.com/samogera/BrightEco-Pay-sub000/internal/notification"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability"
	"github.com/samogera/BrightEco-Pay-sub000/internal/observability/logger"
	"github.com/samogera/BrightEco-Pay-sub000/internal/payment"
	"github.com/samogera/BrightEco-Pay-sub000/internal/seed"
	"github.com/samogera/BrightEco-Pay-sub000/internal/server"
	"github.com/samogera/BrightEco-Pay-sub000/internal/telemetry"
	"github.com/samogera/BrightEco-Pay-sub000/internal/ticket"
	"github.com/samogera/BrightEco-Pay-sub000/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		clock.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := migration.RunMigrations(sqlDB); err != nil {
				return err
			}
			return seed.EnsureDemoAccount(conn, cfg)
		}),
		events.Module,
		audit.Module,
		auth.Module,
		notification.Module,
		billing.Module,
		ticket.Module,
		telemetry.Module,
		payment.Module,
		insight.Module,
		dashboard.Module,
		server.Module,
	)
	app.Run()
}
