package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/govm-net/hookvm/executor/wasm"
	"github.com/govm-net/hookvm/state"
	"github.com/govm-net/hookvm/vm"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "hookvm",
	Short: "Run WebAssembly contracts against the VM hooks",
	Long: `hookvm deploys, upgrades and calls WebAssembly contracts that import the
VM hooks from the "env" module. Accounts are kept in a sqlite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var level slog.Level
		if err := level.UnmarshalText([]byte(logLevel)); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "VM config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./hookvm.db", "Account database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(deployCmd)
	rootCmd.AddCommand(upgradeCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(mintCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(hooksCmd)
}

func loadConfig() (*vm.Config, error) {
	config := vm.DefaultConfig()
	if configPath != "" {
		var err error
		if config, err = vm.LoadConfig(configPath); err != nil {
			return nil, err
		}
	}
	if configPath == "" || rootCmd.PersistentFlags().Changed("db") {
		config.WorldType = string(state.DBWorldType)
		config.WorldParams = map[string]any{"db_path": dbPath}
	}
	return config, nil
}

// openEngine builds an engine running wasm contracts. The returned
// function releases both.
func openEngine(ctx context.Context, tune func(*vm.Config)) (*vm.Engine, func(), error) {
	config, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if tune != nil {
		tune(config)
	}
	exec, err := wasm.New(ctx, wasm.DefaultConfig())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create wasm executor: %w", err)
	}
	engine, err := vm.NewEngine(config, exec)
	if err != nil {
		exec.Close(ctx)
		return nil, nil, fmt.Errorf("failed to create VM engine: %w", err)
	}
	return engine, func() {
		if err := engine.Close(); err != nil {
			slog.Warn("failed to close world", "error", err)
		}
		exec.Close(ctx)
	}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
