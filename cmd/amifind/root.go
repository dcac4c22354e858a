// Package main implements the command-line interface for the amifind tool.
// It resolves the most recent machine image for an (operating-system family,
// architecture, region) tuple from the EC2 image catalog and emits it in a
// form consumable by shell scripts that launch instances.
//
// The main CLI commands are:
//   - select:  Resolve the most recent AMI matching the given conditions
//   - version: Show version information for this program
package main

import (
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/amifind/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/amifind/pkg/log"
)

// Global flag variables
var (
	cfgFile  string
	logLevel string
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a
// function to restore it. This is primarily used for testing.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

var rootCmd = &cobra.Command{
	Use:   "amifind",
	Short: "Resolve the most recent AMI for an OS family, architecture, and region",
	Long: `amifind queries the EC2 image catalog and resolves the single most recent
machine image for a requested operating-system family (Amazon Linux, Debian,
Ubuntu, Windows) and CPU architecture, in one region.

The selected identifier can be emitted bare for shell-variable capture, as
launch arguments for smoke tests, or as a table for human inspection.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level := log.LevelInfo
		if logLevel != "" {
			parsed, err := log.ParseLevel(logLevel)
			if err != nil {
				log.Warn("Invalid log level specified, using default", "input", logLevel, "default", level)
			} else {
				level = parsed
			}
		}
		log.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main() and only needs to happen once.
//
// Errors raised by the flag layer itself carry no exit code, so they are
// mapped here: a missing required flag exits 1, any other usage error
// exits 2.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}
	if _, ok := exitcodes.IsExitCodeError(err); ok {
		return err
	}
	code := exitcodes.ExitInputConfigurationError
	if strings.Contains(err.Error(), "required flag") {
		code = exitcodes.ExitMissingRequiredFlag
	}
	return &exitcodes.ExitCodeError{Code: code, Err: err}
}

// init sets up the root command and its flags.
func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.amifind.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "set log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSelectCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigName(".amifind")
			viper.SetConfigType("yaml")
		}
	}

	viper.SetEnvPrefix("AMIFIND")
	viper.AutomaticEnv()
	viper.SetDefault("region", defaultRegion)

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}

// getRootCmd returns the root command, primarily for testing.
func getRootCmd() *cobra.Command {
	return rootCmd
}
