package app

import (
	"context"
	"fmt"

	customerHTTP "github.com/allisson/fieldcrypt/internal/customer/http"
	customerRepository "github.com/allisson/fieldcrypt/internal/customer/repository"
	customerUseCase "github.com/allisson/fieldcrypt/internal/customer/usecase"
	"github.com/allisson/fieldcrypt/internal/http"
)

// CustomerRepository returns the customer repository for the configured driver.
func (c *Container) CustomerRepository() (customerUseCase.CustomerRepository, error) {
	c.customerRepositoryInit.Do(func() {
		repo, err := c.initCustomerRepository()
		c.store("customerRepository", err)
		c.customerRepository = repo
	})
	if err := c.initError("customerRepository"); err != nil {
		return nil, err
	}
	return c.customerRepository, nil
}

// CustomerUseCase returns the customer use case, instrumented when metrics are enabled.
func (c *Container) CustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	c.customerUseCaseInit.Do(func() {
		useCase, err := c.initCustomerUseCase()
		c.store("customerUseCase", err)
		c.customerUseCase = useCase
	})
	if err := c.initError("customerUseCase"); err != nil {
		return nil, err
	}
	return c.customerUseCase, nil
}

// CustomerHandler returns the customer HTTP handler.
func (c *Container) CustomerHandler() (*customerHTTP.CustomerHandler, error) {
	c.customerHandlerInit.Do(func() {
		useCase, err := c.CustomerUseCase()
		if err != nil {
			c.store("customerHandler", fmt.Errorf("failed to get customer use case for handler: %w", err))
			return
		}
		c.customerHandler = customerHTTP.NewCustomerHandler(useCase, c.Logger())
	})
	if err := c.initError("customerHandler"); err != nil {
		return nil, err
	}
	return c.customerHandler, nil
}

// HTTPServer returns the API server. ctx bounds the middleware background work and the
// readiness endpoint.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		server, err := c.initHTTPServer(ctx)
		c.store("httpServer", err)
		c.httpServer = server
	})
	if err := c.initError("httpServer"); err != nil {
		return nil, err
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus scrape server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.store("metricsServer", fmt.Errorf("failed to get metrics provider for metrics server: %w", err))
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if err := c.initError("metricsServer"); err != nil {
		return nil, err
	}
	return c.metricsServer, nil
}

func (c *Container) initCustomerRepository() (customerUseCase.CustomerRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for customer repository: %w", err)
	}

	switch c.config.DBDriver {
	case "postgres":
		return customerRepository.NewPostgreSQLCustomerRepository(db), nil
	case "mysql":
		return customerRepository.NewMySQLCustomerRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

func (c *Container) initCustomerUseCase() (customerUseCase.CustomerUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for customer use case: %w", err)
	}

	repo, err := c.CustomerRepository()
	if err != nil {
		return nil, err
	}

	keyring, err := c.Keyring()
	if err != nil {
		return nil, fmt.Errorf("failed to get keyring for customer use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for customer use case: %w", err)
	}

	codecs := customerUseCase.NewCodecs(keyring, c.config.RandomKeyset, c.config.LookupKeyset)
	if c.config.MetricsEnabled {
		codecs = codecs.WithMetrics(businessMetrics)
	}

	useCase := customerUseCase.NewCustomerUseCase(txManager, repo, codecs)
	if c.config.MetricsEnabled {
		useCase = customerUseCase.NewCustomerUseCaseWithMetrics(useCase, businessMetrics)
	}
	return useCase, nil
}

func (c *Container) initHTTPServer(ctx context.Context) (*http.Server, error) {
	handler, err := c.CustomerHandler()
	if err != nil {
		return nil, fmt.Errorf("failed to get customer handler for http server: %w", err)
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for http server: %w", err)
	}

	readiness, err := c.readinessChecks()
	if err != nil {
		return nil, err
	}

	server := http.NewServer(c.config.ServerHost, c.config.ServerPort, c.Logger())
	if err := server.SetupRouter(ctx, c.config, handler, provider, readiness); err != nil {
		return nil, err
	}
	return server, nil
}

// readinessChecks pings the database and resolves every keyset. Resolved keysets come from
// the cache, so only the first check reads keyset files.
func (c *Container) readinessChecks() (map[string]http.ReadinessCheck, error) {
	db, err := c.DB()
	if err != nil {
		return nil, err
	}
	keyring, err := c.Keyring()
	if err != nil {
		return nil, err
	}

	return map[string]http.ReadinessCheck{
		"database": db.PingContext,
		"keysets": func(ctx context.Context) error {
			if err := keyring.Validate(); err != nil {
				return err
			}
			for _, name := range keyring.Names() {
				if _, err := keyring.Handle(ctx, name); err != nil {
					return err
				}
			}
			return nil
		},
	}, nil
}
