package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/auth"
	"github.com/gymdesk/gymdesk-backend/api/bootstrap"
	"github.com/gymdesk/gymdesk-backend/api/config"
	"github.com/gymdesk/gymdesk-backend/api/router"
	billingapi "github.com/gymdesk/gymdesk-backend/api/services/billing/api"
	gymapi "github.com/gymdesk/gymdesk-backend/api/services/gym/api"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := command(logger).Execute(); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func command(logger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:           "gymdesk-server",
		Short:         "GymDesk mobile backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			if err := bootstrap.Ensure(logger); err != nil {
				return err
			}
			cfg := config.AppConfig

			e := router.New(
				logger,
				billingapi.New(logger, bootstrap.GetBillingService()),
				gymapi.New(logger, bootstrap.GetGymService()),
				auth.Middleware(cfg.SupabaseJWTSecret),
			)
			logger.Info("starting http server", zap.String("port", cfg.HTTPPort))
			return e.Start(":" + cfg.HTTPPort)
		},
	}
}
