package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
	"github.com/spf13/cobra"
)

func newMetricCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metric",
		Short: "Чтение и запись целочисленных метрик",
	}

	var def int64
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Вывести значение метрики",
		Long: `Вывести значение метрики. С флагом --default отсутствующая метрика
создаётся с этим значением, и оно же выводится.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if cmd.Flags().Changed("default") {
				v, err := c.SafeGetMetric(cmd.Context(), args[0], def)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			v, ok, err := c.GetMetric(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("metric %q: %w", args[0], engine.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	get.Flags().Int64Var(&def, "default", 0, "Значение, которое записывается и выводится, если метрики нет")

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Записать значение метрики",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing value: %w", err)
			}
			_, err = opts.client().UpdateMetric(cmd.Context(), args[0], value)
			return reportWrite(cmd, err)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Вывести все метрики в порядке создания",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics, err := opts.client().GetAllMetrics(cmd.Context())
			if err != nil {
				return err
			}
			printMap(cmd.OutOrStdout(), metrics)
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}

func newFlagCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flag",
		Short: "Чтение и запись логических флагов",
	}

	var def bool
	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Вывести значение флага",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			if cmd.Flags().Changed("default") {
				v, err := c.SafeGetFlag(cmd.Context(), args[0], def)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
				return nil
			}

			v, ok, err := c.GetFlag(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("flag %q: %w", args[0], engine.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	get.Flags().BoolVar(&def, "default", false, "Значение, которое записывается и выводится, если флага нет")

	set := &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Записать значение флага",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseBool(args[1])
			if err != nil {
				return fmt.Errorf("parsing value: %w", err)
			}
			_, err = opts.client().ToggleFlag(cmd.Context(), args[0], value)
			return reportWrite(cmd, err)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Вывести все флаги в порядке создания",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := opts.client().GetAllFlags(cmd.Context())
			if err != nil {
				return err
			}
			printMap(cmd.OutOrStdout(), flags)
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}

func newThresholdCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threshold",
		Short: "Чтение и запись порогов метрик",
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Вывести явно заданные порог и уровень метрики",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, ok, err := opts.client().GetThreshold(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("threshold %q: %w", args[0], engine.ErrNotFound)
			}
			out := cmd.OutOrStdout()
			if info.Threshold != nil {
				fmt.Fprintf(out, "threshold: %d\n", *info.Threshold)
			}
			if info.Level != nil {
				fmt.Fprintf(out, "level: %s\n", *info.Level)
			}
			return nil
		},
	}

	var (
		level    string
		ifAbsent bool
	)
	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Задать порог и уровень метрики",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("parsing value: %w", err)
			}

			c := opts.client()
			if ifAbsent {
				applied, err := c.SafeSetThreshold(cmd.Context(), args[0], value)
				if err != nil {
					return err
				}
				if !applied {
					fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}

			_, err = c.SetThreshold(cmd.Context(), args[0], value, level)
			return reportWrite(cmd, err)
		},
	}
	set.Flags().StringVar(&level, "level", models.LevelInfo, "Уровень подсветки (INFO, WARNING, CRITICAL)")
	set.Flags().BoolVar(&ifAbsent, "if-absent", false, "Задать порог, только если явного порога нет (уровень INFO)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Вывести все явные пороги с уровнями",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			thresholds, err := c.GetAllThresholds(cmd.Context())
			if err != nil {
				return err
			}
			levels, err := c.GetAllLevels(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			thresholds.Range(func(key string, value int64) bool {
				level, _ := levels.Get(key)
				fmt.Fprintf(out, "%s: %d %s\n", key, value, level)
				return true
			})
			return nil
		},
	}

	cmd.AddCommand(get, set, list)
	return cmd
}

// reportWrite печатает "ok" для успешной записи. Сбой хука печатается
// предупреждением в stderr, а команда завершается успешно: запись применена.
func reportWrite(cmd *cobra.Command, err error) error {
	if errors.Is(err, engine.ErrHookFailure) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
		err = nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}

func printMap[V any](out io.Writer, m *models.OrderedMap[V]) {
	m.Range(func(key string, value V) bool {
		fmt.Fprintf(out, "%s: %v\n", key, value)
		return true
	})
}

// parsePairs разбирает аргументы вида key=value, сохраняя порядок.
func parsePairs[V any](args []string, parse func(string) (V, error)) (*models.OrderedMap[V], error) {
	out := models.NewOrderedMap[V]()
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %q: expected key=value", arg)
		}
		value, err := parse(raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		out.Set(key, value)
	}
	return out, nil
}
