// Package config предоставляет функциональность для управления конфигурацией сервера.
// Поддерживает загрузку настроек из JSON-файла, флагов командной строки
// и переменных окружения. Приоритет: окружение > флаги > файл > значения по умолчанию.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// Config содержит все параметры конфигурации сервера состояния.
type Config struct {
	// Addr задает адрес и порт HTTP-сервера (например, "localhost:8080").
	Addr string `env:"ADDRESS" json:"address"`

	// StoreInterval определяет интервал в секундах между автоматическими сохранениями состояния.
	// Значение 0 отключает периодическое сохранение.
	StoreInterval int `env:"STORE_INTERVAL" json:"store_interval"`

	// FileStorage указывает путь к файлу для хранения состояния на диске.
	FileStorage string `env:"FILE_STORAGE_PATH" json:"file_storage_path"`

	// Restore определяет, нужно ли восстанавливать состояние при запуске сервера.
	Restore bool `env:"RESTORE" json:"restore"`

	// AddrDB содержит строку подключения к базе данных (DSN).
	// Если не указано, используется файловое хранилище или хранилище в памяти.
	AddrDB string `env:"DATABASE_DSN" json:"database_dsn"`

	// StorageDriver выбирает драйвер базы данных: "postgres" или "sqlite".
	StorageDriver string `env:"STORAGE_DRIVER" json:"storage_driver"`

	// AuditFile указывает путь к файлу для записи событий подсветки.
	AuditFile string `env:"AUDIT_FILE" json:"audit_file"`

	// AuditURL содержит URL для отправки событий подсветки на внешний сервис.
	AuditURL string `env:"AUDIT_URL" json:"audit_url"`

	// ThresholdsFile указывает YAML-файл с порогами, которые задаются при старте.
	ThresholdsFile string `env:"THRESHOLDS_FILE" json:"thresholds_file"`

	LogLevel string `env:"LOG_LEVEL" json:"log_level"`

	ConfigFilePath string `env:"CONFIG" json:"-"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() Config {
	return Config{
		Addr:          "localhost:8080",
		StoreInterval: 300,
		FileStorage:   "state.json",
		StorageDriver: "postgres",
		LogLevel:      "info",
	}
}

// GetConfig загружает конфигурацию из аргументов командной строки процесса.
func GetConfig() (Config, error) {
	return Load(os.Args[1:])
}

// Load разбирает флаги из args, читает JSON-файл конфигурации (флаг -config
// или переменная CONFIG) и применяет переменные окружения.
//
// Поддерживаемые флаги:
//
//	-a: адрес сервера (по умолчанию "localhost:8080")
//	-i: интервал сохранения в секундах (по умолчанию 300)
//	-f: путь к файлу хранилища (по умолчанию "state.json")
//	-r: восстанавливать ли состояние при запуске
//	-d: строка подключения к базе данных
//	-s: драйвер базы данных (postgres|sqlite)
//	-p: путь к файлу аудита
//	-u: URL для аудита
//	-t: YAML-файл с порогами
//	-l: уровень логирования
//	-config: путь к JSON-файлу конфигурации
//
// Соответствующие переменные окружения:
//
//	ADDRESS, STORE_INTERVAL, FILE_STORAGE_PATH, RESTORE, DATABASE_DSN,
//	STORAGE_DRIVER, AUDIT_FILE, AUDIT_URL, THRESHOLDS_FILE, LOG_LEVEL, CONFIG
func Load(args []string) (Config, error) {
	cfg := Default()
	var fromFlags Config

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&fromFlags.Addr, "a", cfg.Addr, "Адрес HTTP-сервера")
	fs.IntVar(&fromFlags.StoreInterval, "i", cfg.StoreInterval, "Интервал сохранения состояния в секундах")
	fs.StringVar(&fromFlags.FileStorage, "f", cfg.FileStorage, "Путь к файлу состояния")
	fs.BoolVar(&fromFlags.Restore, "r", cfg.Restore, "Восстанавливать состояние при запуске")
	fs.StringVar(&fromFlags.AddrDB, "d", "", "Строка подключения к базе данных")
	fs.StringVar(&fromFlags.StorageDriver, "s", cfg.StorageDriver, "Драйвер базы данных (postgres|sqlite)")
	fs.StringVar(&fromFlags.AuditFile, "p", "", "Путь к файлу аудита")
	fs.StringVar(&fromFlags.AuditURL, "u", "", "URL для отправки событий аудита")
	fs.StringVar(&fromFlags.ThresholdsFile, "t", "", "YAML-файл с порогами")
	fs.StringVar(&fromFlags.LogLevel, "l", cfg.LogLevel, "Уровень логирования")
	fs.StringVar(&fromFlags.ConfigFilePath, "config", "", "Путь к JSON-файлу конфигурации")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	configPath := getConfigPath(fromFlags.ConfigFilePath, os.Getenv("CONFIG"))
	if configPath != "" {
		if err := readConfigFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
		cfg.ConfigFilePath = configPath
	}

	fs.Visit(func(f *flag.Flag) {
		applyFlag(&cfg, &fromFlags, f.Name)
	})

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// applyFlag переносит в cfg только явно заданный флаг.
func applyFlag(cfg, fromFlags *Config, name string) {
	switch name {
	case "a":
		cfg.Addr = fromFlags.Addr
	case "i":
		cfg.StoreInterval = fromFlags.StoreInterval
	case "f":
		cfg.FileStorage = fromFlags.FileStorage
	case "r":
		cfg.Restore = fromFlags.Restore
	case "d":
		cfg.AddrDB = fromFlags.AddrDB
	case "s":
		cfg.StorageDriver = fromFlags.StorageDriver
	case "p":
		cfg.AuditFile = fromFlags.AuditFile
	case "u":
		cfg.AuditURL = fromFlags.AuditURL
	case "t":
		cfg.ThresholdsFile = fromFlags.ThresholdsFile
	case "l":
		cfg.LogLevel = fromFlags.LogLevel
	}
}

func readConfigFile(path string, cfg *Config) error {
	data, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file %s: %w", path, err)
	}
	defer data.Close()

	if err := json.NewDecoder(data).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

func getConfigPath(flagValue, envValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return envValue
}
