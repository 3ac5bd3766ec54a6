// Command formbuilder hosts the contact form builder over HTTP or as an
// interactive terminal session.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/internal/logging"
)

const appName = "formbuilder"

var version = "dev"

type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg    config.Config
	logger *zap.Logger
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Drag-and-drop contact form builder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file path (TOML)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", "", "Log format (json, console)")

	cmd.AddCommand(
		serveCmd(a),
		buildCmd(a),
		catalogCmd(a),
		exportCmd(a),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, version)
			},
		},
	)
	return cmd
}

// init loads the config file and applies flags that were set explicitly.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	overrideString(cmd, "addr", &cfg.Addr)
	overrideString(cmd, "title", &cfg.Title)
	overrideString(cmd, "catalog", &cfg.Catalog)
	overrideString(cmd, "theme", &cfg.Theme)
	overrideString(cmd, "variant", &cfg.Variant)
	overrideString(cmd, "theme-dir", &cfg.ThemeDir)
	if flags.Lookup("watch-catalog") != nil && flags.Changed("watch-catalog") {
		cfg.WatchCatalog, _ = flags.GetBool("watch-catalog")
	}
	if flags.Lookup("shutdown-timeout") != nil && flags.Changed("shutdown-timeout") {
		d, _ := flags.GetDuration("shutdown-timeout")
		cfg.ShutdownTimeout = d
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.logger = logger.Named(appName)
	return nil
}

func overrideString(cmd *cobra.Command, name string, dst *string) {
	flag := cmd.Flags().Lookup(name)
	if flag == nil || !flag.Changed {
		return
	}
	*dst = flag.Value.String()
}

// shutdownTimeoutFlag registers the shared grace period flag.
func shutdownTimeoutFlag(cmd *cobra.Command) {
	cmd.Flags().Duration("shutdown-timeout", 10*time.Second, "Grace period for in-flight requests")
}
