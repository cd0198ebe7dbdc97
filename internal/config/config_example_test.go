package config_test

import (
	"fmt"

	"github.com/levinOo/go-state-mirror/internal/config"
)

// Example_defaultConfig демонстрирует загрузку конфигурации со значениями по умолчанию.
func Example_defaultConfig() {
	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("Address: %s\n", cfg.Addr)
	fmt.Printf("Store Interval: %d\n", cfg.StoreInterval)
	fmt.Printf("File Storage: %s\n", cfg.FileStorage)
	// Output:
	// Address: localhost:8080
	// Store Interval: 300
	// File Storage: state.json
}

// Example_commandLineFlags демонстрирует задание параметров флагами.
func Example_commandLineFlags() {
	cfg, err := config.Load([]string{"-a", "0.0.0.0:9090", "-i", "0", "-s", "sqlite", "-d", "state.db"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println(cfg.Addr, cfg.StoreInterval, cfg.StorageDriver, cfg.AddrDB)
	// Output: 0.0.0.0:9090 0 sqlite state.db
}
