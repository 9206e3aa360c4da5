package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/estatewise/sentinel/pkg/app/chat"
	"github.com/estatewise/sentinel/pkg/config"
	"github.com/estatewise/sentinel/pkg/dataset"
	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/guardrail"
	handlers "github.com/estatewise/sentinel/pkg/handlers/http"
	infraAlert "github.com/estatewise/sentinel/pkg/infra/alert"
	"github.com/estatewise/sentinel/pkg/infra/database"
	"github.com/estatewise/sentinel/pkg/infra/jwt"
	infraLogger "github.com/estatewise/sentinel/pkg/infra/logger"
	"github.com/estatewise/sentinel/pkg/infra/providers/openai"
	"github.com/estatewise/sentinel/pkg/infra/repository"
	"github.com/estatewise/sentinel/pkg/middleware"
	"github.com/estatewise/sentinel/pkg/server"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const agentSampleSize = 25

func main() {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := config.Load("./config"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	logger := infraLogger.NewLogger(cfg.Logging.File, cfg.Logging.Level)

	// Incident archive is optional, the registry works without it.
	var archive security.IncidentRepository
	if cfg.Database.Enabled {
		db, err := database.NewDB(cfg.Database, &repository.IncidentRow{})
		if err != nil {
			logger.Fatalf("failed to initialize database: %v", err)
		}
		archive = repository.NewIncidentRepository(db)
	}

	registry := guardrail.NewMemoryRegistry(cfg.Guardrail.MaxWarnings, archive, logger)
	classifier := buildClassifier(cfg)
	notifier := guardrail.NewAsyncNotifier(
		buildSinks(cfg, logger),
		cfg.Guardrail.Alerts.QueueSize,
		cfg.Guardrail.Alerts.DeliveryTimeout,
		logger,
	)
	pipeline := guardrail.NewPipeline(classifier, registry, notifier, logger)

	agents := chat.NewAgents(
		loadListingContext(cfg.Model.RentDataCSV, logger),
		loadListingContext(cfg.Model.SaleDataCSV, logger),
	)
	chatService := chat.NewService(pipeline, openai.NewClient(), cfg.Model, agents, logger)

	apiServer := server.NewAPIServer(server.APIServerDI{
		Config: cfg,
		Logger: logger,
		HandlerTransport: handlers.HandlerTransport{
			ChatHandler:           handlers.NewChatHandler(logger, chatService),
			SecurityStatusHandler: handlers.NewSecurityStatusHandler(logger, registry),
			SecurityResetHandler:  handlers.NewSecurityResetHandler(logger, registry),
			SecurityHealthHandler: handlers.NewSecurityHealthHandler(logger, registry),
		},
		AdminAuth: middleware.NewAdminAuthMiddleware(logger, jwt.NewManager(cfg.Admin.JWTSecret)),
	})

	go func() {
		if err := apiServer.Run(); err != nil {
			logger.WithError(err).Fatal("api server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := apiServer.Shutdown(); err != nil {
		logger.WithError(err).Error("failed to shut down api server")
	}
	notifier.Close()
}

func buildClassifier(cfg *config.Config) guardrail.Classifier {
	if cfg.Classifier.Type == config.ClassifierRemote {
		return guardrail.NewRemoteClassifier(guardrail.RemoteClassifierOptions{
			BaseURL:     cfg.Classifier.Remote.BaseURL,
			Token:       cfg.Classifier.Remote.Token,
			Timeout:     cfg.Classifier.Remote.Timeout,
			MaxFailures: cfg.Classifier.Remote.BreakerMaxFailures,
		})
	}
	return guardrail.NewPatternClassifier()
}

func buildSinks(cfg *config.Config, logger *logrus.Logger) []guardrail.Sink {
	var sinks []guardrail.Sink

	if cfg.Guardrail.Alerts.Webhook.Enabled {
		sinks = append(sinks, infraAlert.NewWebhookSink(cfg.Guardrail.Alerts.Webhook.URL))
	}

	if cfg.Guardrail.Alerts.Kafka.Enabled {
		sink, err := infraAlert.NewKafkaSink(
			cfg.Guardrail.Alerts.Kafka.Host,
			cfg.Guardrail.Alerts.Kafka.Port,
			cfg.Guardrail.Alerts.Kafka.Topic,
		)
		if err != nil {
			logger.WithError(err).Fatal("failed to create kafka alert sink")
		}
		sinks = append(sinks, sink)
	}

	if cfg.Guardrail.Alerts.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		sinks = append(sinks, infraAlert.NewRedisSink(client, cfg.Guardrail.Alerts.Redis.Channel))
	}

	return sinks
}

func loadListingContext(path string, logger *logrus.Logger) string {
	if path == "" {
		return ""
	}
	ds, err := dataset.Load(path)
	if err != nil {
		logger.WithError(err).WithField("path", path).Warn("listing dataset unavailable, agent runs without context")
		return ""
	}
	return ds.Render(ds.Sample(agentSampleSize, 1))
}
