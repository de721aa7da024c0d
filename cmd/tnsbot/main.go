package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"TNSBot/internal/app"
	"TNSBot/internal/config"
	"TNSBot/internal/logging"
)

var (
	cfgFile    string
	deltaT     float64
	outfile    string
	logFile    string
	logLevel   string
	dryRun     bool
	listingURL string
	every      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "tnsbot",
	Short: "Posts recently modified TDEs from the Transient Name Server to Slack.",
	Long: `tnsbot refreshes the daily TNS public objects export, selects the tidal
disruption events modified within the last --delta-t days, scrapes new
AstroNotes mentioning TDEs and posts one summary message to Slack.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "YAML config file (default $TNS_BOT_CONFIG)")
	flags.Float64VarP(&deltaT, "delta-t", "d", 1, "report objects modified within this many days")
	flags.StringVarP(&outfile, "outfile", "o", "tns_public_objects.csv", "local path of the catalog snapshot")
	flags.StringVar(&logFile, "log-file", "", "append logs to this file instead of stderr")
	flags.StringVarP(&logLevel, "log-level", "l", "info", "log level: debug, info, warn, error")
	flags.BoolVar(&dryRun, "test", false, "print the report instead of posting it")
	flags.StringVar(&listingURL, "listing-url", "", "AstroNotes listing page")
	flags.DurationVar(&every, "every", 0, "repeat the report at this interval (e.g. 6h); 0 runs once")
}

func run(cmd *cobra.Command, _ []string) error {
	// A missing .env is normal in production where the environment is set by the host.
	_ = godotenv.Load()

	cfg := config.Load(cfgFile)
	applyFlags(cmd, &cfg)

	logger, closer, err := logging.NewWithFile(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := checkConfig(cfg, logger); err != nil {
		return err
	}

	application, err := app.New(cfg, logger, cmd.OutOrStdout())
	if err != nil {
		logger.Error("startup failed", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	return nil
}

// checkConfig validates cfg and records a failure in the log sink.
func checkConfig(cfg config.Config, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}
	return nil
}

// applyFlags overrides config values only for flags given on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("delta-t") {
		cfg.TNS.MaxAgeDays = deltaT
	}
	if flags.Changed("outfile") {
		cfg.TNS.SnapshotPath = outfile
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("listing-url") {
		cfg.Astronotes.ListingURL = listingURL
	}
	if flags.Changed("every") {
		cfg.Schedule.Every = every
	}
	cfg.DryRun = dryRun
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
