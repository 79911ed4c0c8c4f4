package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/govm-net/hookvm/types"
	"github.com/govm-net/hookvm/vm"
	"github.com/spf13/cobra"
)

// txFlags are shared by the commands that send a transaction.
type txFlags struct {
	from     string
	value    string
	gasLimit uint64
	gasPrice uint64
	args     []string
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.from, "from", "", "Sender address, hex (required)")
	cmd.Flags().StringVar(&f.value, "value", "0", "EGLD value, decimal")
	cmd.Flags().Uint64Var(&f.gasLimit, "gas", 10_000_000, "Gas limit")
	cmd.Flags().Uint64Var(&f.gasPrice, "gas-price", 1, "Gas price")
	cmd.Flags().StringSliceVar(&f.args, "arg", nil, "Argument, hex (repeatable)")
	cmd.MarkFlagRequired("from")
}

func (f *txFlags) input(to types.Address, function string) (*types.TxInput, error) {
	from, err := parseAddress(f.from)
	if err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	value, ok := new(big.Int).SetString(f.value, 10)
	if !ok || value.Sign() < 0 {
		return nil, fmt.Errorf("invalid value: %q", f.value)
	}
	args := make([][]byte, len(f.args))
	for i, a := range f.args {
		if args[i], err = hex.DecodeString(strings.TrimPrefix(a, "0x")); err != nil {
			return nil, fmt.Errorf("invalid argument %d: %w", i, err)
		}
	}
	return &types.TxInput{
		From:      from,
		To:        to,
		EGLDValue: value,
		Function:  function,
		Args:      args,
		GasLimit:  f.gasLimit,
		GasPrice:  f.gasPrice,
	}, nil
}

func parseAddress(s string) (types.Address, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return types.Address{}, err
	}
	addr, ok := types.AddressFromBytes(b)
	if !ok {
		return types.Address{}, fmt.Errorf("address must be %d bytes, got %d", types.AddressLength, len(b))
	}
	return addr, nil
}

// metadataFlags select the code metadata of a deployed contract.
type metadataFlags struct {
	metadata types.CodeMetadata
}

func (f *metadataFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.metadata.Upgradeable, "upgradeable", true, "Allow the owner to upgrade the code")
	cmd.Flags().BoolVar(&f.metadata.Readable, "readable", false, "Allow other contracts to read the storage")
	cmd.Flags().BoolVar(&f.metadata.Payable, "payable", false, "Accept plain EGLD payments")
	cmd.Flags().BoolVar(&f.metadata.PayableBySC, "payable-by-sc", false, "Accept plain EGLD payments from contracts")
}

func printResult(w io.Writer, res *types.TxResult) {
	fmt.Fprintf(w, "status:   %s\n", res.Status)
	if res.Message != "" {
		fmt.Fprintf(w, "message:  %s\n", res.Message)
	}
	fmt.Fprintf(w, "gas used: %d\n", res.GasUsed)
	for i, out := range res.Out {
		fmt.Fprintf(w, "out[%d]:   %x\n", i, out)
	}
	for _, entry := range res.Logs {
		fmt.Fprintf(w, "log:      %s %s", entry.Address, entry.Identifier)
		for _, topic := range entry.Topics {
			fmt.Fprintf(w, " %x", topic)
		}
		fmt.Fprintln(w)
	}
	for _, c := range res.AllCalls {
		fmt.Fprintf(w, "call:     %s %s -> %s %s (%s)\n", c.Flavor, c.From, c.To, c.Function, c.Status)
	}
	if call := res.PendingCalls.AsyncCall; call != nil {
		fmt.Fprintf(w, "pending:  %s -> %s %s\n", call.From, call.To, call.Function)
	}
}

var (
	deployFlags   txFlags
	deployMeta    metadataFlags
	deployCode    string
	upgradeFlags  txFlags
	upgradeMeta   metadataFlags
	upgradeCode   string
	upgradeTarget string
	callFlags     txFlags
	callTarget    string
	callFunction  string
	resolveAsync  bool
)

var deployCmd = &cobra.Command{
	Use:     "deploy",
	Short:   "Deploy a contract and run its init function",
	Example: "  hookvm deploy --code counter.wasm --from <32 byte hex address>",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(deployCode)
		if err != nil {
			return fmt.Errorf("failed to read contract code: %w", err)
		}
		input, err := deployFlags.input(types.Address{}, vm.InitFunction)
		if err != nil {
			return err
		}

		engine, release, err := openEngine(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer release()

		addr, res, err := engine.DeployContract(cmd.Context(), &types.CreateInput{
			TxInput:      *input,
			Code:         code,
			CodeMetadata: deployMeta.metadata,
		})
		if err != nil {
			return fmt.Errorf("failed to deploy contract: %w", err)
		}
		out := cmd.OutOrStdout()
		if !res.Failed() {
			fmt.Fprintf(out, "address:  %s\n", addr)
		}
		printResult(out, res)
		return nil
	},
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Replace the code of a contract and run its upgrade function",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := os.ReadFile(upgradeCode)
		if err != nil {
			return fmt.Errorf("failed to read contract code: %w", err)
		}
		to, err := parseAddress(upgradeTarget)
		if err != nil {
			return fmt.Errorf("invalid contract address: %w", err)
		}
		input, err := upgradeFlags.input(to, vm.UpgradeFunction)
		if err != nil {
			return err
		}

		engine, release, err := openEngine(cmd.Context(), nil)
		if err != nil {
			return err
		}
		defer release()

		res, err := engine.UpgradeContract(cmd.Context(), &types.CreateInput{
			TxInput:      *input,
			Code:         code,
			CodeMetadata: upgradeMeta.metadata,
		})
		if err != nil {
			return fmt.Errorf("failed to upgrade contract: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Send a transaction, optionally calling a contract function",
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := parseAddress(callTarget)
		if err != nil {
			return fmt.Errorf("invalid destination: %w", err)
		}
		input, err := callFlags.input(to, callFunction)
		if err != nil {
			return err
		}

		engine, release, err := openEngine(cmd.Context(), func(c *vm.Config) {
			c.AutoResolveAsync = resolveAsync
		})
		if err != nil {
			return err
		}
		defer release()

		res, err := engine.ExecuteTx(cmd.Context(), input)
		if err != nil {
			return fmt.Errorf("failed to execute transaction: %w", err)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	deployFlags.register(deployCmd)
	deployMeta.register(deployCmd)
	deployCmd.Flags().StringVar(&deployCode, "code", "", "Contract wasm file (required)")
	deployCmd.MarkFlagRequired("code")

	upgradeFlags.register(upgradeCmd)
	upgradeMeta.register(upgradeCmd)
	upgradeCmd.Flags().StringVar(&upgradeCode, "code", "", "New contract wasm file (required)")
	upgradeCmd.Flags().StringVar(&upgradeTarget, "to", "", "Contract address, hex (required)")
	upgradeCmd.MarkFlagRequired("code")
	upgradeCmd.MarkFlagRequired("to")

	callFlags.register(callCmd)
	callCmd.Flags().StringVar(&callTarget, "to", "", "Destination address, hex (required)")
	callCmd.Flags().StringVarP(&callFunction, "function", "f", "", "Function to call, empty for a plain transfer")
	callCmd.Flags().BoolVar(&resolveAsync, "resolve-async", true, "Run a pending async call and its callback right away")
	callCmd.MarkFlagRequired("to")
}
