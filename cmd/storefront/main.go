// Command storefront runs the RideRight dealership storefront API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rideright/storefront/internal/agent"
	"github.com/rideright/storefront/internal/auth"
	"github.com/rideright/storefront/internal/cart"
	"github.com/rideright/storefront/internal/catalog"
	"github.com/rideright/storefront/internal/config"
	"github.com/rideright/storefront/internal/httpapi"
	"github.com/rideright/storefront/internal/orders"
	"github.com/rideright/storefront/internal/seo"
	"github.com/rideright/storefront/pkg/logger"
	"github.com/rideright/storefront/pkg/memory"
	"github.com/rideright/storefront/pkg/telemetry"
)

const version = "1.0.0"

func main() {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.NewJSONLogger(logger.InfoLevel)
		bootLog.Error("Configuration invalid", map[string]interface{}{
			"operation": "startup",
			"error":     err.Error(),
		})
		os.Exit(1)
	}

	log := logger.NewJSONLogger(logger.ParseLevel(cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName: "rideright-storefront",
		Version:     version,
		Environment: os.Getenv("ENVIRONMENT"),
	})
	if err != nil {
		log.Warn("Telemetry disabled", map[string]interface{}{
			"operation": "startup",
			"error":     err.Error(),
		})
	}

	catalogClient, err := catalog.NewClient(catalog.ClientOptions{
		ProjectID:  cfg.Catalog.ProjectID,
		Dataset:    cfg.Catalog.Dataset,
		APIVersion: cfg.Catalog.APIVersion,
		Token:      cfg.Catalog.Token,
		UseCDN:     cfg.Catalog.UseCDN,
		Logger:     log.WithComponent("catalog"),
	})
	if err != nil {
		log.Error("Catalog client failed", map[string]interface{}{
			"operation": "startup",
			"error":     err.Error(),
		})
		os.Exit(1)
	}

	// Chat sessions live in Redis when configured, in process memory
	// otherwise.
	var sessionBackend memory.Memory = memory.NewStore()
	if cfg.Redis.URL != "" {
		redisStore, err := memory.NewRedisStore(ctx, memory.RedisOptions{
			URL:       cfg.Redis.URL,
			Namespace: cfg.Redis.Namespace,
			Logger:    log.WithComponent("redis"),
		})
		if err != nil {
			log.Error("Redis connection failed", map[string]interface{}{
				"operation": "startup",
				"error":     err.Error(),
			})
			os.Exit(1)
		}
		defer func() { _ = redisStore.Close() }()
		sessionBackend = redisStore
	}

	ordersService := orders.NewService(catalogClient, log.WithComponent("orders"))

	var chatAgent *agent.Agent
	if cfg.AI.APIKey != "" {
		gateway := agent.NewGateway(agent.GatewayOptions{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			MaxTokens:   cfg.AI.MaxTokens,
			Logger:      log.WithComponent("gateway"),
		})
		chatAgent, err = agent.New(agent.Options{
			Model:      gateway,
			Sessions:   agent.NewSessionStore(sessionBackend, 0, 0),
			SearchTool: agent.NewSearchProductsTool(catalogClient, log.WithComponent("agent")),
			OrdersTool: func(userID string) *agent.Tool {
				return agent.NewOrdersTool(ordersService, userID, log.WithComponent("agent"))
			},
			Logger: log.WithComponent("agent"),
		})
		if err != nil {
			log.Error("Agent setup failed", map[string]interface{}{
				"operation": "startup",
				"error":     err.Error(),
			})
			os.Exit(1)
		}
	} else {
		log.Warn("Shopping assistant disabled, no AI API key configured", map[string]interface{}{
			"operation": "startup",
		})
	}

	var verifier *auth.Verifier
	if cfg.Auth.JWTSecret != "" {
		verifier = auth.NewVerifier([]byte(cfg.Auth.JWTSecret), cfg.Auth.Issuer, log.WithComponent("auth"))
	} else {
		log.Warn("Authentication disabled, all sessions anonymous", map[string]interface{}{
			"operation": "startup",
		})
	}

	carts := cart.NewRegistry(cart.DefaultSessionTTL)
	go sweepCarts(ctx, carts, log)

	serverOpts := httpapi.Options{
		Catalog: catalogClient,
		Orders:  ordersService,
		Carts:   carts,
		Checkout: cart.CheckoutOptions{
			Phone:   cfg.Site.WhatsAppPhone,
			BaseURL: cfg.Site.URL,
		},
		Verifier:     verifier,
		Sitemap:      seo.NewGenerator(cfg.Site.URL, catalogClient, log.WithComponent("seo")),
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		CORSOrigins:  cfg.Server.CORSOrigins,
		Logger:       log.WithComponent("http"),
	}
	if chatAgent != nil {
		serverOpts.Agent = chatAgent
	}

	server, err := httpapi.NewServer(serverOpts)
	if err != nil {
		log.Error("Server setup failed", map[string]interface{}{
			"operation": "startup",
			"error":     err.Error(),
		})
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error("Server stopped unexpectedly", map[string]interface{}{
				"operation": "server_error",
				"error":     err.Error(),
			})
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Shutdown incomplete", map[string]interface{}{
			"operation": "server_stop",
			"error":     err.Error(),
		})
	}
	if tel != nil {
		_ = tel.Shutdown(shutdownCtx)
	}
	log.Info("Storefront stopped", map[string]interface{}{"operation": "server_stop"})
}

// sweepCarts evicts idle carts on a timer until the context ends.
func sweepCarts(ctx context.Context, carts *cart.Registry, log logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := carts.Sweep(); removed > 0 {
				log.Info("Idle carts evicted", map[string]interface{}{
					"operation": "cart_sweep",
					"removed":   removed,
				})
			}
		}
	}
}
