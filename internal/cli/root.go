// Package cli реализует команды mirrorctl поверх HTTP-клиента сервера состояния.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/levinOo/go-state-mirror/internal/client"
	"github.com/spf13/cobra"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo задаёт сведения о сборке, переданные через ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// DefaultServer возвращает адрес сервера из MIRROR_SERVER или "localhost:8080".
func DefaultServer() string {
	if addr := os.Getenv("MIRROR_SERVER"); addr != "" {
		return addr
	}
	return "localhost:8080"
}

type options struct {
	server  string
	timeout time.Duration
	gzip    bool
}

func (o *options) client() *client.Client {
	return client.New(o.server, client.WithTimeout(o.timeout), client.WithGzip(o.gzip))
}

// NewRootCmd собирает дерево команд mirrorctl.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "mirrorctl",
		Short: "Клиент командной строки для сервера состояния",
		Long: `mirrorctl читает и записывает метрики, флаги и пороги на сервере состояния,
выполняет пакетные записи и снимки, следит за подсветками и экспортирует состояние.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.server, "server", DefaultServer(), "Адрес сервера (переменная MIRROR_SERVER)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Таймаут запроса")
	root.PersistentFlags().BoolVar(&opts.gzip, "gzip", false, "Сжимать тела запросов gzip")

	root.AddCommand(
		newMetricCmd(opts),
		newFlagCmd(opts),
		newThresholdCmd(opts),
		newBatchCmd(opts),
		newSnapshotCmd(opts),
		newHistoryCmd(opts),
		newHighlightsCmd(opts),
		newExportCmd(opts),
		newRestoreCmd(opts),
		newPingCmd(opts),
		&cobra.Command{
			Use:   "version",
			Short: "Вывести сведения о версии",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "mirrorctl %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
			},
		},
	)

	return root
}

// Execute запускает корневую команду.
func Execute() error {
	return NewRootCmd().Execute()
}
