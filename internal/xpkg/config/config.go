package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInitialStatus = "received"
	DefaultTimezone      = "America/Sao_Paulo"
	DefaultRecentTurns   = 10
	DefaultHistoryLimit  = 100
	DefaultGenAIModel    = "gemini-2.0-flash"
	DefaultSystemPrompt  = "Você é um assistente da cantina escolar. Ajude os clientes com dúvidas sobre o cardápio e pedidos."
)

type Config struct {
	DB    *Postgres  `yaml:"database"`
	RMQ   *RabbitMQ  `yaml:"rabbitmq"`
	Chat  *Chat      `yaml:"chat"`
	GenAI *GenAI     `yaml:"genai"`
	Menu  []MenuItem `yaml:"menu"`
}

type Postgres struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type RabbitMQ struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	VHost    string `yaml:"vhost"`
}

type Chat struct {
	InitialStatus string `yaml:"initial_status"`
	Timezone      string `yaml:"timezone"`
	RecentTurns   int    `yaml:"recent_turns"`
	HistoryLimit  int    `yaml:"history_limit"`
}

type GenAI struct {
	APIKey       string `yaml:"api_key"`
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"system_prompt"`
}

// MenuItem seeds the in-memory catalog. Price is kept as text and parsed as a decimal.
type MenuItem struct {
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Available   *bool  `yaml:"available"`
}

// LoadConfig reads the yaml file, applies environment overrides and fills defaults.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	applyEnv(cfg)
	setDefaults(cfg)
	return cfg, nil
}

// LoadDotEnv builds the config from environment variables only.
func LoadDotEnv() *Config {
	cfg := &Config{
		DB: &Postgres{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "cantina"),
			Password: getEnv("POSTGRES_PASSWORD", "cantina"),
			Database: getEnv("POSTGRES_DBNAME", "cantina_db"),
		},
		RMQ: &RabbitMQ{
			Host:     getEnv("RABBITMQ_HOST", "localhost"),
			Port:     getEnv("RABBITMQ_PORT", "5672"),
			User:     getEnv("RABBITMQ_USER", "guest"),
			Password: getEnv("RABBITMQ_PASSWORD", "guest"),
			VHost:    getEnv("RABBITMQ_VHOST", ""),
		},
	}
	applyEnv(cfg)
	setDefaults(cfg)
	return cfg
}

func applyEnv(cfg *Config) {
	if cfg.DB != nil {
		cfg.DB.Host = getEnv("POSTGRES_HOST", cfg.DB.Host)
		cfg.DB.Port = getEnv("POSTGRES_PORT", cfg.DB.Port)
		cfg.DB.User = getEnv("POSTGRES_USER", cfg.DB.User)
		cfg.DB.Password = getEnv("POSTGRES_PASSWORD", cfg.DB.Password)
		cfg.DB.Database = getEnv("POSTGRES_DBNAME", cfg.DB.Database)
	}
	if cfg.RMQ != nil {
		cfg.RMQ.Host = getEnv("RABBITMQ_HOST", cfg.RMQ.Host)
		cfg.RMQ.Port = getEnv("RABBITMQ_PORT", cfg.RMQ.Port)
		cfg.RMQ.User = getEnv("RABBITMQ_USER", cfg.RMQ.User)
		cfg.RMQ.Password = getEnv("RABBITMQ_PASSWORD", cfg.RMQ.Password)
		cfg.RMQ.VHost = getEnv("RABBITMQ_VHOST", cfg.RMQ.VHost)
	}
	if cfg.Chat == nil {
		cfg.Chat = &Chat{}
	}
	cfg.Chat.InitialStatus = getEnv("CHAT_INITIAL_STATUS", cfg.Chat.InitialStatus)
	cfg.Chat.Timezone = getEnv("CHAT_TIMEZONE", cfg.Chat.Timezone)
	cfg.Chat.RecentTurns = getEnvInt("CHAT_RECENT_TURNS", cfg.Chat.RecentTurns)

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		if cfg.GenAI == nil {
			cfg.GenAI = &GenAI{}
		}
		cfg.GenAI.APIKey = key
	}
}

func setDefaults(cfg *Config) {
	if cfg.Chat.InitialStatus == "" {
		cfg.Chat.InitialStatus = DefaultInitialStatus
	}
	if cfg.Chat.Timezone == "" {
		cfg.Chat.Timezone = DefaultTimezone
	}
	if cfg.Chat.RecentTurns <= 0 {
		cfg.Chat.RecentTurns = DefaultRecentTurns
	}
	if cfg.Chat.HistoryLimit <= 0 {
		cfg.Chat.HistoryLimit = DefaultHistoryLimit
	}
	if cfg.GenAI != nil {
		if cfg.GenAI.Model == "" {
			cfg.GenAI.Model = DefaultGenAIModel
		}
		if cfg.GenAI.SystemPrompt == "" {
			cfg.GenAI.SystemPrompt = DefaultSystemPrompt
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
