package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"zerocoin/internal/metrics"
)

var (
	flagConfig   string
	flagLogLevel string
	flagParams   string

	cfg       *Config
	log       zerolog.Logger
	logCloser io.Closer
	registry  *prometheus.Registry
	collector metrics.Collector
)

var rootCmd = &cobra.Command{
	Use:   "zerocoin",
	Short: "Mint, accumulate and prove Zerocoin-style coins",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the root command and reports a failure on the command's error stream.
// PersistentPostRun is skipped when a command fails, so the log is closed here too.
func execute() error {
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "zerocoin.json",
		"path to the JSON config file, created with defaults when missing")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info",
		"log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&flagParams, "params", "p", "params.json",
		"path to the scheme parameters")
	_ = viper.BindPFlag(keyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(keyParamsPath, rootCmd.PersistentFlags().Lookup("params"))

	log = consoleLogger()

	cobra.OnInitialize(initConfig)
}

func consoleLogger() zerolog.Logger {
	return zerolog.New(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) { w.Out = os.Stderr }))
}

// closeLog releases the log file and points log back at the console.
func closeLog() {
	if logCloser == nil {
		return
	}
	if err := logCloser.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "failed to close log file:", err)
	}
	logCloser = nil
	log = consoleLogger()
}

func initConfig() {
	viper.SetEnvPrefix("zerocoin")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setup loads the config, applies overrides and builds the logger and metrics registry.
func setup() error {
	c, err := LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	c.ApplyOverrides(viper.GetViper())
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", flagConfig, err)
	}

	l, closer, err := NewLogger(c.LogLevel, c.LogFile)
	if err != nil {
		return err
	}

	registry = prometheus.NewRegistry()
	pc, err := metrics.NewCollector(registry)
	if err != nil {
		return err
	}

	cfg, log, logCloser, collector = c, l, closer, pc
	log.Debug().Str("config", flagConfig).Str("params", cfg.ParamsPath).Msg("configuration loaded")
	return nil
}

// printMetrics logs every recorded metric at info level, sorted by name.
func printMetrics() {
	summary, err := metrics.Summary(registry)
	if err != nil {
		log.Warn().Err(err).Msg("could not gather metrics")
		return
	}
	for _, name := range metrics.SortedKeys(summary) {
		log.Info().Float64("value", summary[name]).Msg(name)
	}
}
