package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FxHedger/internal/collector"
	"FxHedger/internal/config"
	"FxHedger/internal/exporter"
	"FxHedger/internal/notifier"
	"FxHedger/internal/recorder"
	"FxHedger/internal/session"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Estimate a hedge ratio and recommended forex exposure",
		Long: `Fetches daily closes for the commodity and forex tickers, computes their
returns on shared trading days and reports the hedge ratio, correlation and
recommended forex exposure. Any input not given as a flag is prompted for.`,
		Example: "  hedger run --exposure 10000 --commodity CL=F --forex EURUSD=X --start 2024-01-01 --end 2024-06-30",
		RunE:    runHedge,
	}
	cmd.Flags().String("exposure", "", "Commodity exposure in currency units (negative for short)")
	cmd.Flags().String("commodity", "", "Commodity ticker, e.g. CL=F")
	cmd.Flags().String("forex", "", "Forex ticker, e.g. EURUSD=X")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("plot-out", "", "Write aligned returns as CSV for plotting")
	cmd.Flags().Bool("notify", false, "Send the report to the configured Telegram chat")
	cmd.Flags().Bool("dry-run", false, "Use generated prices instead of a live data source")
	return cmd
}

func runHedge(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	var raw rawInputs
	raw.Exposure, _ = flags.GetString("exposure")
	raw.Commodity, _ = flags.GetString("commodity")
	raw.Forex, _ = flags.GetString("forex")
	raw.Start, _ = flags.GetString("start")
	raw.End, _ = flags.GetString("end")
	plotOut, _ := flags.GetString("plot-out")
	notify, _ := flags.GetBool("notify")
	dryRun, _ := flags.GetBool("dry-run")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nCommodity and Forex Hedging Tool")
	fmt.Fprintln(out, "----------------------------------------")
	if err := raw.fillMissing(cmd.InOrStdin(), out); err != nil {
		return err
	}
	req, err := raw.toRequest()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fetcher := newFetcher(cfg, dryRun)
	log.Debug().Str("source", fetcher.Name()).Msg("data source selected")

	rec := openRecorder(cfg.Database.SQLitePath)
	defer rec.Close()

	fmt.Fprintln(out, "\nFetching data...")
	sess := session.NewSession(collector.NewCollector(fetcher))
	res, err := sess.Run(ctx, req)
	if err != nil {
		journal(rec, &recorder.RunRecord{
			At:              time.Now(),
			Source:          fetcher.Name(),
			CommodityTicker: req.CommodityTicker,
			ForexTicker:     req.ForexTicker,
			Start:           req.Start,
			End:             req.End,
			Exposure:        req.Exposure,
			Error:           err.Error(),
		})
		return err
	}
	journal(rec, recorder.FromResult(res, fetcher.Name()))

	fmt.Fprintln(out)
	fmt.Fprint(out, notifier.FormatReport(res, cfg.Currency))

	if plotOut != "" {
		if err := exporter.WritePlotFile(plotOut, res.Pair); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPlot data written to %s\n", plotOut)
	}

	if notify {
		sendReport(ctx, cfg, notifier.FormatTelegram(res, cfg.Currency))
	}
	return nil
}

func newFetcher(cfg *config.Config, dryRun bool) collector.Fetcher {
	switch {
	case dryRun:
		return &collector.MockFetcher{}
	case cfg.DataSource.BaseURL != "":
		return collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		return collector.NewYahooFetcher(cfg.Proxy, cfg.DataSource.RequestsPerSecond, cfg.Yahoo.Aliases)
	}
}

// openRecorder falls back to a no-op journal when SQLite is unavailable.
func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}

func journal(rec recorder.Recorder, r *recorder.RunRecord) {
	if err := rec.RecordRun(r); err != nil {
		log.Warn().Err(err).Msg("record run failed")
	}
}

// sendReport delivers the report; delivery problems never fail the run.
func sendReport(ctx context.Context, cfg *config.Config, text string) {
	if !cfg.TelegramEnabled() {
		log.Warn().Msg("--notify given but telegram.bot_token/chat_id are not configured")
		return
	}
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if err := tn.SendWithRetry(ctx, text, cfg.Telegram.MaxRetries, time.Second); err != nil {
		log.Warn().Err(err).Msg("telegram notification failed")
		return
	}
	log.Info().Msg("report sent to telegram")
}
