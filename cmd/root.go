// Package cmd implements the command-line interface for agentrace.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentrace/agentrace/internal/store"
	"github.com/agentrace/agentrace/internal/utils"
)

var (
	cfgFile string
	verbose bool
	debug   bool
	dbPath  string
	logger  *zerolog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "agentrace",
	Short: "Agent execution trace viewer",
	Long: `Agentrace reconstructs and visualizes agent execution traces.

Import step logs, browse the execution tree interactively, and export
traces for external tools.

Features:
  • Interactive tree and timeline viewer
  • Live following of running traces
  • Local run storage with history
  • JSON, YAML and Mermaid export

Get started with: agentrace view --file trace.jsonl`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		logger, err = utils.NewLogger(debug)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
			os.Exit(1)
		}
		// Set a global level as well for libraries using zerolog's package logger
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
		zerolog.TimeFieldFormat = time.RFC3339
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.agentrace.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug mode")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the run database (default is $HOME/.agentrace/runs.db)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("db", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("toml")
		viper.SetConfigName(".agentrace")
	}

	viper.SetEnvPrefix("AGENTRACE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetLogger returns the configured logger
func GetLogger() *zerolog.Logger {
	if logger == nil {
		if l, err := utils.NewLogger(false); err == nil {
			logger = l
		} else {
			// Fallback to a basic stderr logger
			l := zerolog.New(os.Stderr).With().Timestamp().Logger()
			logger = &l
		}
	}
	return logger
}

// databasePath resolves the run database location from flag, env or config
func databasePath() (string, error) {
	if path := viper.GetString("db"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".agentrace", "runs.db"), nil
}

// openStore opens the run database shared by all subcommands
func openStore() (*store.Store, error) {
	path, err := databasePath()
	if err != nil {
		return nil, err
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, utils.NewUserError(
			"Failed to open run database",
			"Check that "+path+" is writable, or pass --db",
			err)
	}
	return s, nil
}
