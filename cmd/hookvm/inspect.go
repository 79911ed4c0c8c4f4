package main

import (
	"fmt"
	"math/big"
	"os"
	"text/tabwriter"

	"github.com/govm-net/hookvm/executor/wasm"
	"github.com/govm-net/hookvm/gas"
	"github.com/govm-net/hookvm/state"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wasm>",
	Short: "List the endpoints and imports of a contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read contract code: %w", err)
		}
		exec, err := wasm.New(cmd.Context(), wasm.DefaultConfig())
		if err != nil {
			return fmt.Errorf("failed to create wasm executor: %w", err)
		}
		defer exec.Close(cmd.Context())

		info, err := exec.Inspect(code)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "endpoints:")
		for _, name := range info.Endpoints {
			fmt.Fprintf(out, "  %s\n", name)
		}
		if len(info.Other) > 0 {
			fmt.Fprintln(out, "other exports:")
			for _, name := range info.Other {
				fmt.Fprintf(out, "  %s\n", name)
			}
		}
		fmt.Fprintf(out, "imports: %d\n", len(info.Imports))
		if !info.HasMemory {
			fmt.Fprintln(out, "memory:  not exported")
		}
		for _, imp := range info.Unknown {
			fmt.Fprintf(out, "unknown import: %s\n", imp)
		}
		if len(info.Unknown) > 0 || !info.HasMemory {
			return fmt.Errorf("contract cannot be deployed")
		}
		return nil
	},
}

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "List the hook catalogue with the configured costs",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		schedule := gas.DefaultSchedule()
		if config.SchedulePath != "" {
			if schedule, err = gas.LoadSchedule(config.SchedulePath); err != nil {
				return err
			}
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "HOOK\tCATEGORY\tCOST")
		for _, name := range gas.Hooks() {
			category, _ := gas.CategoryOf(name)
			cost, _ := schedule.Cost(name)
			fmt.Fprintf(w, "%s\t%s\t%d\n", name, category, cost)
		}
		return w.Flush()
	},
}

var (
	mintTarget string
	mintAmount string
)

// mintCmd credits an account directly in the world, outside any
// transaction. It is meant for local testing.
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Credit EGLD to an account",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseAddress(mintTarget)
		if err != nil {
			return fmt.Errorf("invalid address: %w", err)
		}
		amount, ok := new(big.Int).SetString(mintAmount, 10)
		if !ok || amount.Sign() <= 0 {
			return fmt.Errorf("invalid amount: %q", mintAmount)
		}

		engine, release, err := openEngine(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer release()

		world := engine.World()
		acc, exists, err := world.GetAccount(addr)
		if err != nil {
			return fmt.Errorf("failed to read account: %w", err)
		}
		if !exists {
			acc = state.NewAccount(addr)
		}
		acc.Balance.Add(acc.Balance, amount)
		if err := world.Commit([]*state.AccountData{acc}); err != nil {
			return fmt.Errorf("failed to credit account: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "balance:  %s\n", acc.Balance)
		return nil
	},
}

func init() {
	mintCmd.Flags().StringVar(&mintTarget, "to", "", "Account address, hex (required)")
	mintCmd.Flags().StringVar(&mintAmount, "amount", "", "Amount, decimal (required)")
	mintCmd.MarkFlagRequired("to")
	mintCmd.MarkFlagRequired("amount")
}
