package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	DB       DBConfig       `yaml:"db"`
	Log      LogConfig      `yaml:"log"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Workflow WorkflowConfig `yaml:"workflow"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SMTPConfig configures the outbound notifier. An empty host selects the
// log-only notifier.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// WorkflowConfig selects the stricter transition policies. Defaults keep the
// lenient source behavior.
type WorkflowConfig struct {
	StrictInternalTransitions bool `yaml:"strict_internal_transitions"`
	RejectCustomerTransitions bool `yaml:"reject_customer_transitions"`
	NotifyTimeoutSeconds      int  `yaml:"notify_timeout_seconds"`
}

// Load reads configuration from an optional YAML file and environment
// variables. A local .env file is honored for development.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		DB: DBConfig{
			Path: "enserv.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		SMTP: SMTPConfig{
			Port: 25,
			From: "noreply@enserv.local",
		},
		Workflow: WorkflowConfig{
			NotifyTimeoutSeconds: 10,
		},
	}

	if path := os.Getenv("ENSERV_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("ENSERV_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("ENSERV_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ENSERV_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if path := os.Getenv("ENSERV_DB_PATH"); path != "" {
		cfg.DB.Path = path
	}
	if level := os.Getenv("ENSERV_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if host := os.Getenv("ENSERV_SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if portStr := os.Getenv("ENSERV_SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ENSERV_SMTP_PORT: %w", err)
		}
		cfg.SMTP.Port = port
	}
	if user := os.Getenv("ENSERV_SMTP_USERNAME"); user != "" {
		cfg.SMTP.Username = user
	}
	if pass := os.Getenv("ENSERV_SMTP_PASSWORD"); pass != "" {
		cfg.SMTP.Password = pass
	}
	if from := os.Getenv("ENSERV_SMTP_FROM"); from != "" {
		cfg.SMTP.From = from
	}
	if v := os.Getenv("ENSERV_WORKFLOW_STRICT_INTERNAL_TRANSITIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ENSERV_WORKFLOW_STRICT_INTERNAL_TRANSITIONS: %w", err)
		}
		cfg.Workflow.StrictInternalTransitions = b
	}
	if v := os.Getenv("ENSERV_WORKFLOW_REJECT_CUSTOMER_TRANSITIONS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ENSERV_WORKFLOW_REJECT_CUSTOMER_TRANSITIONS: %w", err)
		}
		cfg.Workflow.RejectCustomerTransitions = b
	}
	if v := os.Getenv("ENSERV_WORKFLOW_NOTIFY_TIMEOUT_SECONDS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ENSERV_WORKFLOW_NOTIFY_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Workflow.NotifyTimeoutSeconds = n
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}
