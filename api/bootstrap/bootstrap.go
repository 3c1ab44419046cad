package bootstrap

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/gymdesk/gymdesk-backend/api/config"
	"github.com/gymdesk/gymdesk-backend/api/database"
	billingapp "github.com/gymdesk/gymdesk-backend/api/services/billing/app"
	billingdb "github.com/gymdesk/gymdesk-backend/api/services/billing/db"
	"github.com/gymdesk/gymdesk-backend/api/services/billing/gateway/instamojo"
	gymapp "github.com/gymdesk/gymdesk-backend/api/services/gym/app"
	gymdb "github.com/gymdesk/gymdesk-backend/api/services/gym/db"
)

var billingService billingapp.Service
var gymService gymapp.Service
var initOnce sync.Once
var initErr error

// Init initializes config, database, and third-party clients, and wires services.
func Init(logger *zap.Logger) error {
	// If services have already been injected (e.g., tests), do not override or init heavy deps.
	if billingService != nil && gymService != nil {
		return nil
	}
	var err error
	if config.AppConfig == nil {
		config.AppConfig, err = config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	if err := database.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	cfg := config.AppConfig
	gateway := instamojo.New(cfg.InstamojoAPIKey, cfg.InstamojoAuthToken, cfg.Sandbox())
	webhookURL := strings.TrimRight(cfg.WebhookBaseURL, "/") + "/api/v1/billing/webhook"

	billingService = billingapp.NewService(logger, gateway, billingdb.NewPostgres(database.GetDB()), cfg.InstamojoSalt, webhookURL)
	gymService = gymapp.NewService(logger, gymdb.NewPostgres(database.GetDB()))
	return nil
}

func GetBillingService() billingapp.Service { return billingService }
func GetGymService() gymapp.Service         { return gymService }

// SetBillingService allows tests to inject a stub implementation.
func SetBillingService(s billingapp.Service) { billingService = s }

// SetGymService allows tests to inject a stub implementation.
func SetGymService(s gymapp.Service) { gymService = s }

// Ensure runs Init() once per process and returns any initialization error.
func Ensure(logger *zap.Logger) error {
	initOnce.Do(func() {
		initErr = Init(logger)
	})
	return initErr
}
