package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Guardrail  GuardrailConfig  `mapstructure:"guardrail"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Model      ModelConfig      `mapstructure:"model"`
	Admin      AdminConfig      `mapstructure:"admin"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type GuardrailConfig struct {
	MaxWarnings int          `mapstructure:"max_warnings"`
	Alerts      AlertsConfig `mapstructure:"alerts"`
}

type AlertsConfig struct {
	QueueSize       int                `mapstructure:"queue_size"`
	DeliveryTimeout time.Duration      `mapstructure:"delivery_timeout"`
	Webhook         WebhookAlertConfig `mapstructure:"webhook"`
	Kafka           KafkaAlertConfig   `mapstructure:"kafka"`
	Redis           RedisAlertConfig   `mapstructure:"redis"`
}

type WebhookAlertConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

type KafkaAlertConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Topic   string `mapstructure:"topic"`
}

type RedisAlertConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Channel string `mapstructure:"channel"`
}

type ClassifierConfig struct {
	Type   string                 `mapstructure:"type"`
	Remote RemoteClassifierConfig `mapstructure:"remote"`
}

type RemoteClassifierConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	Token              string        `mapstructure:"token"`
	Timeout            time.Duration `mapstructure:"timeout"`
	BreakerMaxFailures uint32        `mapstructure:"breaker_max_failures"`
}

type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ModelConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	RentDataCSV string  `mapstructure:"rent_data_csv"`
	SaleDataCSV string  `mapstructure:"sale_data_csv"`
}

type AdminConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

const (
	ClassifierPattern = "pattern"
	ClassifierRemote  = "remote"
)

var globalConfig Config

func Load(configPath string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No file is fine, environment variables still apply.
	}

	if err := viper.Unmarshal(&globalConfig); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaultValues()

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8000
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Guardrail.MaxWarnings == 0 {
		globalConfig.Guardrail.MaxWarnings = 3
	}
	if globalConfig.Guardrail.Alerts.QueueSize == 0 {
		globalConfig.Guardrail.Alerts.QueueSize = 64
	}
	if globalConfig.Guardrail.Alerts.DeliveryTimeout == 0 {
		globalConfig.Guardrail.Alerts.DeliveryTimeout = 5 * time.Second
	}
	if globalConfig.Classifier.Type == "" {
		globalConfig.Classifier.Type = ClassifierPattern
	}
	if globalConfig.Classifier.Remote.Timeout == 0 {
		globalConfig.Classifier.Remote.Timeout = 10 * time.Second
	}
	if globalConfig.Classifier.Remote.BreakerMaxFailures == 0 {
		globalConfig.Classifier.Remote.BreakerMaxFailures = 5
	}
	if globalConfig.Database.SSLMode == "" {
		globalConfig.Database.SSLMode = "disable"
	}
	if globalConfig.Model.Model == "" {
		globalConfig.Model.Model = "gpt-4o-mini"
	}
}

func GetConfig() *Config {
	return &globalConfig
}
