package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/levinOo/go-state-mirror/internal/agent"
	"github.com/levinOo/go-state-mirror/internal/agent/config"
	"github.com/levinOo/go-state-mirror/internal/client"
	"github.com/levinOo/go-state-mirror/internal/logger"
)

var (
	buildVersion string = "N/A"
	buildDate    string = "N/A"
	buildCommit  string = "N/A"
)

func main() {
	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.GetAgentConfig()
	if err != nil {
		return err
	}

	sugar, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer sugar.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := client.New(cfg.Addr, client.WithGzip(true), client.WithTimeout(5*time.Second))
	return agent.New(cfg, c, sugar).Run(ctx)
}
