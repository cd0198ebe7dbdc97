package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/spf13/cobra"
)

func newBatchCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Пакетная запись в порядке аргументов",
		Long: `Применяет пары key=value в порядке аргументов. Ошибочная запись останавливает
пакет, предыдущие записи остаются применёнными.`,
	}

	metrics := &cobra.Command{
		Use:   "metrics <key=value>...",
		Short: "Записать несколько метрик по порядку",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parsePairs(args, func(s string) (int64, error) {
				return strconv.ParseInt(s, 10, 64)
			})
			if err != nil {
				return err
			}
			result, err := opts.client().BatchUpdateMetrics(cmd.Context(), updates)
			return reportBatch(cmd, result, err)
		},
	}

	flags := &cobra.Command{
		Use:   "flags <key=true|false>...",
		Short: "Записать несколько флагов по порядку",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parsePairs(args, strconv.ParseBool)
			if err != nil {
				return err
			}
			result, err := opts.client().BatchToggleFlags(cmd.Context(), updates)
			return reportBatch(cmd, result, err)
		},
	}

	cmd.AddCommand(metrics, flags)
	return cmd
}

func reportBatch(cmd *cobra.Command, result *models.WriteResult, err error) error {
	if result != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "applied: %d\n", len(result.Applied))
		for _, key := range result.Applied {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", key)
		}
	}
	if errors.Is(err, engine.ErrHookFailure) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		return nil
	}
	return err
}

func newSnapshotCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Добавить запись истории для каждой метрики и флага",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportWrite(cmd, opts.client().SnapshotState(cmd.Context()))
		},
	}
}

func newHistoryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "history <key>",
		Short: "Вывести историю метрики или флага",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			history, err := opts.client().GetHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			for _, entry := range history {
				fmt.Fprintln(cmd.OutOrStdout(), entry)
			}
			return nil
		},
	}
}

func newHighlightsCmd(opts *options) *cobra.Command {
	var (
		watch    bool
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "highlights",
		Short: "Вывести журнал подсветок",
		Long: `Вывести журнал подсветок. С флагом --watch команда опрашивает сервер
и выводит новые подсветки по мере появления, пока её не прервут.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			out := cmd.OutOrStdout()

			if !watch {
				highlights, err := c.GetHighlights(cmd.Context())
				if err != nil {
					return err
				}
				for _, h := range highlights {
					fmt.Fprintln(out, h)
				}
				return nil
			}

			err := c.PollHighlights(cmd.Context(), interval, func(entry string) {
				fmt.Fprintln(out, entry)
			}, func(err error) {
				fmt.Fprintf(cmd.ErrOrStderr(), "poll error: %v\n", err)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Продолжать опрос новых подсветок")
	cmd.Flags().DurationVar(&interval, "interval", 2*time.Second, "Период опроса для --watch")
	return cmd
}

func newExportCmd(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Экспортировать всё состояние в JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if out != "" {
				if err := c.ExportState(cmd.Context(), out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported to %s\n", out)
				return nil
			}

			state, err := c.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(state, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Записать экспорт в файл вместо stdout")
	return cmd
}

func newRestoreCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Заменить состояние сервера содержимым файла экспорта",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading export: %w", err)
			}
			state := models.NewStateExport()
			if err := json.Unmarshal(data, state); err != nil {
				return fmt.Errorf("parsing export: %w", err)
			}
			return reportWrite(cmd, opts.client().Restore(cmd.Context(), state))
		},
	}
}

func newPingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Проверить доступность сервера и хранилища",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return reportWrite(cmd, opts.client().Ping(cmd.Context()))
		},
	}
}
