// Package config загружает конфигурацию агента: JSON-файл, флаги и переменные окружения.
// Приоритет: окружение > флаги > файл > значения по умолчанию.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры агента.
type Config struct {
	// Addr адрес сервера состояния.
	Addr string `env:"ADDRESS" json:"address"`

	// PollInterval период сбора показателей в секундах.
	PollInterval int `env:"POLL_INTERVAL" json:"poll_interval"`

	// ReqInterval период отправки в секундах.
	ReqInterval int `env:"REPORT_INTERVAL" json:"report_interval"`

	// Prefix добавляется к именам всех метрик агента.
	Prefix string `env:"METRIC_PREFIX" json:"metric_prefix"`

	LogLevel string `env:"LOG_LEVEL" json:"log_level"`

	ConfigFilePath string `env:"CONFIG" json:"-"`
}

// Default возвращает конфигурацию агента по умолчанию.
func Default() Config {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "agent"
	}
	return Config{
		Addr:         "localhost:8080",
		PollInterval: 2,
		ReqInterval:  10,
		Prefix:       hostname,
		LogLevel:     "info",
	}
}

// GetAgentConfig загружает конфигурацию из аргументов процесса.
func GetAgentConfig() (Config, error) {
	return Load(os.Args[1:])
}

// Load разбирает флаги -a, -p, -r, -x, -l, -config, JSON-файл и окружение.
func Load(args []string) (Config, error) {
	cfg := Default()
	var fromFlags Config

	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	fs.StringVar(&fromFlags.Addr, "a", cfg.Addr, "Адрес сервера")
	fs.IntVar(&fromFlags.PollInterval, "p", cfg.PollInterval, "Значение интервала обновления метрик в секундах")
	fs.IntVar(&fromFlags.ReqInterval, "r", cfg.ReqInterval, "Значение интервала отправки в секундах")
	fs.StringVar(&fromFlags.Prefix, "x", cfg.Prefix, "Префикс имён метрик")
	fs.StringVar(&fromFlags.LogLevel, "l", cfg.LogLevel, "Уровень логирования")
	fs.StringVar(&fromFlags.ConfigFilePath, "config", "", "Путь к JSON-файлу конфигурации")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	configPath := fromFlags.ConfigFilePath
	if configPath == "" {
		configPath = os.Getenv("CONFIG")
	}
	if configPath != "" {
		data, err := os.Open(configPath)
		if err != nil {
			return Config{}, fmt.Errorf("open config file %s: %w", configPath, err)
		}
		err = json.NewDecoder(data).Decode(&cfg)
		data.Close()
		if err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", configPath, err)
		}
		cfg.ConfigFilePath = configPath
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "a":
			cfg.Addr = fromFlags.Addr
		case "p":
			cfg.PollInterval = fromFlags.PollInterval
		case "r":
			cfg.ReqInterval = fromFlags.ReqInterval
		case "x":
			cfg.Prefix = fromFlags.Prefix
		case "l":
			cfg.LogLevel = fromFlags.LogLevel
		}
	})

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("ошибка парсинга ENV: %w", err)
	}

	if cfg.PollInterval <= 0 || cfg.ReqInterval <= 0 {
		return Config{}, fmt.Errorf("intervals must be positive: poll=%d report=%d", cfg.PollInterval, cfg.ReqInterval)
	}
	return cfg, nil
}
