package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kyselak85/synchronizer/internal/sync"
	"github.com/kyselak85/synchronizer/internal/synchronizer"
	"github.com/kyselak85/synchronizer/internal/utils"
	"github.com/kyselak85/synchronizer/internal/version"
)

var home, _ = os.UserHomeDir()

var rootCmd = &cobra.Command{
	Use:     "synchronizer",
	Short:   "One-way folder synchronizer",
	Long: "Periodically mirrors a source folder onto a replica folder: the replica is\n" +
		"made identical to the source and replica-only entries are removed. Changes\n" +
		"in the replica are never propagated back.",
	Version: version.Detailed(),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// create & validate config
		cfg := &synchronizer.Config{
			Path:       viper.ConfigFileUsed(),
			SourceDir:  viper.GetString("source_dir"),
			ReplicaDir: viper.GetString("replica_dir"),
			LogFile:    viper.GetString("log_file"),
			Algorithm:  viper.GetString("algorithm"),
			Interval:   viper.GetDuration("interval"),
			Exclude:    viper.GetStringSlice("exclude"),
			Watch:      viper.GetBool("watch"),
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		// all good now, errors past this point are runtime failures
		cmd.SilenceUsage = true

		closeLog, err := setupLogging(cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()

		s, err := synchronizer.New(cfg)
		if err != nil {
			return err
		}

		if once, _ := cmd.Flags().GetBool("once"); once {
			_, err := s.RunOnce(cmd.Context())
			return err
		}

		defer slog.Info("Bye!")
		return s.Start(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().SortFlags = false
	rootCmd.Flags().StringP("source", "s", "", "Source folder (the authority)")
	rootCmd.Flags().StringP("replica", "r", "", "Replica folder kept identical to the source")
	rootCmd.Flags().StringP("logfile", "l", synchronizer.DefaultLogFilePath, "Log file")
	rootCmd.Flags().StringP("algorithm", "a", synchronizer.DefaultAlgorithm,
		"Checksum algorithm ("+strings.Join(sync.SupportedAlgorithms(), ", ")+")")
	rootCmd.Flags().DurationP("interval", "i", synchronizer.DefaultInterval, "Delay between synchronization passes")
	rootCmd.Flags().StringArray("exclude", nil, "Exclude pattern, gitignore syntax (repeatable)")
	rootCmd.Flags().Bool("watch", false, "Also trigger a pass on source writes")
	rootCmd.Flags().Bool("once", false, "Run a single pass and exit")
	rootCmd.PersistentFlags().StringP("config", "c", synchronizer.DefaultConfigPath, "Config file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func loadConfig(cmd *cobra.Command) error {
	// config path
	if cmd.Flag("config").Changed {
		configFilePath, _ := cmd.Flags().GetString("config")
		viper.SetConfigFile(configFilePath)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".synchronizer"))
		viper.SetConfigName("config")
		viper.SetConfigType("json")
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		enoent := errors.Is(err, os.ErrNotExist)
		_, ok := err.(viper.ConfigFileNotFoundError)
		if !enoent && !ok {
			return fmt.Errorf("config read '%s': %w", viper.ConfigFileUsed(), err)
		}
	}

	// Bind flags to viper
	viper.BindPFlag("source_dir", cmd.Flags().Lookup("source"))
	viper.BindPFlag("replica_dir", cmd.Flags().Lookup("replica"))
	viper.BindPFlag("log_file", cmd.Flags().Lookup("logfile"))
	viper.BindPFlag("algorithm", cmd.Flags().Lookup("algorithm"))
	viper.BindPFlag("interval", cmd.Flags().Lookup("interval"))
	viper.BindPFlag("exclude", cmd.Flags().Lookup("exclude"))
	viper.BindPFlag("watch", cmd.Flags().Lookup("watch"))

	// Set up environment variables
	viper.SetEnvPrefix("SYNCHRONIZER")
	viper.AutomaticEnv()

	return nil
}

// setupLogging installs the default slog logger: tinted output on stdout plus
// a plain text handler appending to the configured log file.
func setupLogging(logFile string) (func() error, error) {
	if err := utils.EnsureParent(logFile); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	stdoutHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		NoColor:    !isatty.IsTerminal(os.Stdout.Fd()),
	})
	fileHandler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	slog.SetDefault(slog.New(utils.NewTeeLogHandler(stdoutHandler, fileHandler)))
	return file.Close, nil
}
