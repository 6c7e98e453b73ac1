package health

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/kartverse/storefront/internal/config"
	"github.com/kartverse/storefront/pkg/payments"
)

// NewHealthHandler wires the /health endpoint: database, redis and the
// payment gateway configuration.
func NewHealthHandler(cfg *config.Config, gateway payments.Client) (*health.Health, error) {

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    "storefront",
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(
			health.Config{
				Name:      "database",
				Timeout:   3 * time.Second,
				SkipOnErr: false,
				Check: postgres.New(postgres.Config{
					DSN: cfg.Database.GetDSN(),
				}),
			},
			health.Config{
				Name:      "redis",
				Timeout:   2 * time.Second,
				SkipOnErr: false,
				Check: healthRedis.New(
					healthRedis.Config{
						DSN: cfg.RedisConnect.GetDSN(),
					},
				),
			},
			health.Config{
				Name:      "payment-gateway",
				Timeout:   2 * time.Second,
				SkipOnErr: true,
				Check: func(ctx context.Context) error {
					if gateway == nil {
						return errors.New("payment gateway client is not initialized")
					}
					if cfg.Gateway.APIKey == "" {
						return errors.New("payment gateway api key is not configured")
					}
					return nil
				},
			},
		),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
