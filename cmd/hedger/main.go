package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FxHedger/internal/calculator"
	"FxHedger/internal/collector"
	"FxHedger/internal/config"
	"FxHedger/internal/session"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describeError(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hedger",
		Short: "Commodity and forex hedging tool",
		Long: `Estimates the hedge ratio between a commodity and a currency pair from
historical daily returns and recommends the forex exposure that offsets the
commodity position. Running without a subcommand is the same as "hedger run".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if v, _ := cmd.Flags().GetBool("verbose"); v {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
	root.PersistentFlags().String("config", "", "Config file path (default $CONFIG_PATH or "+defaultConfigPath+")")
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	run := newRunCmd()
	root.RunE = run.RunE
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run, newHistoryCmd())
	return root
}

// loadConfig resolves the config path from the flag, then CONFIG_PATH, then the default.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = defaultConfigPath
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// describeError turns a failed run into a one-line message for the user.
func describeError(err error) string {
	var dsErr *collector.DataSourceError
	var inErr *inputError
	switch {
	case errors.As(err, &inErr), errors.Is(err, session.ErrInvalidRequest):
		return "Invalid input: " + err.Error()
	case errors.As(err, &dsErr):
		return "Error fetching data: " + dsErr.Error()
	case errors.Is(err, calculator.ErrInvalidPriceData), errors.Is(err, calculator.ErrInsufficientData):
		return "Price data unusable: " + err.Error()
	case errors.Is(err, calculator.ErrInsufficientOverlap):
		return "Not enough overlapping trading days between the two tickers: " + err.Error()
	case errors.Is(err, calculator.ErrDegenerateVariance):
		return "Hedge ratio undefined, returns do not vary: " + err.Error()
	default:
		return "Error: " + err.Error()
	}
}
