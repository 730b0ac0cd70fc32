package commands

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"mintgate/internal/mint/bootstrap"
)

func newAllowlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allowlist",
		Short: "Build allowlist Merkle roots and proofs",
	}

	var file string
	rootCmd := &cobra.Command{
		Use:   "root",
		Short: "Print the Merkle root of an allowlist file",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := bootstrap.LoadAllowlist(file)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"merkle_root":           list.Tree.Root().Hex(),
				"wallets":               list.Tree.Size(),
				"variable_wallet_limit": list.Variable,
			})
		},
	}
	rootCmd.Flags().StringVarP(&file, "file", "f", "", "allowlist YAML file")
	_ = rootCmd.MarkFlagRequired("file")

	var proofFile, wallet string
	proofCmd := &cobra.Command{
		Use:   "proof",
		Short: "Print the inclusion proof for one wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(wallet) {
				return fmt.Errorf("--wallet %q is not a hex address", wallet)
			}
			list, err := bootstrap.LoadAllowlist(proofFile)
			if err != nil {
				return err
			}
			proof, limit, err := list.Proof(common.HexToAddress(wallet))
			if err != nil {
				return err
			}
			nodes := make([]string, len(proof))
			for i, p := range proof {
				nodes[i] = hexutil.Encode(p)
			}
			out := map[string]any{"proof": nodes}
			if list.Variable {
				out["proof_limit"] = limit
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	proofCmd.Flags().StringVarP(&proofFile, "file", "f", "", "allowlist YAML file")
	proofCmd.Flags().StringVarP(&wallet, "wallet", "w", "", "wallet address")
	_ = proofCmd.MarkFlagRequired("file")
	_ = proofCmd.MarkFlagRequired("wallet")

	cmd.AddCommand(rootCmd, proofCmd)
	return cmd
}
