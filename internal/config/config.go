package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

const (
	defaultRunAddress   = "localhost:8080"
	defaultJWTSecret    = "default-secret-change-in-production"
	defaultTokenTTL     = 24 * time.Hour
	defaultRentalCheck  = time.Hour
	defaultKafkaTopic   = "order-status"
	defaultServiceName  = "polofashions"
	defaultLogLevel     = "info"
	defaultEnvironment  = "development"
	defaultConfigEnvKey = "CONFIG_PATH"
)

// Config содержит конфигурацию приложения.
type Config struct {
	RunAddress      string        `yaml:"run_address" env:"RUN_ADDRESS"`
	DatabaseURI     string        `yaml:"database_uri" env:"DATABASE_URI"`
	JWTSecret       string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	TokenExpiration time.Duration `yaml:"token_expiration" env:"TOKEN_EXPIRATION"`

	// Учётная запись администратора, создаваемая при старте.
	AdminLogin    string `yaml:"admin_login" env:"ADMIN_LOGIN"`
	AdminPassword string `yaml:"admin_password" env:"ADMIN_PASSWORD"`

	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL"`
	Environment string `yaml:"environment" env:"APP_ENV"`
	ServiceName string `yaml:"service_name" env:"APP_SERVICE_NAME"`

	KafkaBrokers []string `yaml:"kafka_brokers" env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `yaml:"kafka_topic" env:"KAFKA_TOPIC"`

	OTLPEndpoint string `yaml:"otlp_endpoint" env:"OTEL_EXPORTER_URL"`

	RentalCheckInterval time.Duration `yaml:"rental_check_interval" env:"RENTAL_CHECK_INTERVAL"`

	OrderFlow OrderFlowConfig `yaml:"order_flow"`
}

// OrderFlowConfig настраивает графы переходов статусов.
type OrderFlowConfig struct {
	// DirectPickup разрешает для заказов с пошивом переход processing -> ready_for_pickup.
	DirectPickup bool `yaml:"custom_stitched_direct_pickup" env:"ORDER_FLOW_DIRECT_PICKUP"`
}

// Load загружает конфигурацию из аргументов командной строки, файла и окружения.
func Load() (*Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs загружает конфигурацию.
// Приоритет: переменные окружения > флаги > YAML-файл > значения по умолчанию.
func LoadArgs(args []string) (*Config, error) {
	cfg := defaults()

	var (
		runAddress  string
		databaseURI string
		configPath  string
		logLevel    string
	)

	fs := flag.NewFlagSet("polofashions", flag.ContinueOnError)
	fs.StringVar(&runAddress, "a", defaultRunAddress, "адрес и порт запуска сервиса")
	fs.StringVar(&databaseURI, "d", "", "строка подключения к PostgreSQL")
	fs.StringVar(&configPath, "c", "", "путь к YAML-файлу конфигурации")
	fs.StringVar(&logLevel, "l", defaultLogLevel, "уровень логирования")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if envPath := os.Getenv(defaultConfigEnvKey); envPath != "" {
		configPath = envPath
	}
	if configPath != "" {
		if err := loadFile(cfg, configPath); err != nil {
			return nil, err
		}
	}

	// Применяем только явно заданные флаги, чтобы не затереть значения из файла.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.RunAddress = runAddress
		case "d":
			cfg.DatabaseURI = databaseURI
		case "l":
			cfg.LogLevel = logLevel
		}
	})

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
	}
	if cfg.TokenExpiration <= 0 {
		cfg.TokenExpiration = defaultTokenTTL
	}
	if cfg.RentalCheckInterval <= 0 {
		cfg.RentalCheckInterval = defaultRentalCheck
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		RunAddress:          defaultRunAddress,
		JWTSecret:           defaultJWTSecret,
		TokenExpiration:     defaultTokenTTL,
		LogLevel:            defaultLogLevel,
		Environment:         defaultEnvironment,
		ServiceName:         defaultServiceName,
		KafkaTopic:          defaultKafkaTopic,
		RentalCheckInterval: defaultRentalCheck,
	}
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("config file %s not found", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
