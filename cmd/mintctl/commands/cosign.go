package commands

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"mintgate/internal/mint/cosign"
)

type cosignFlags struct {
	contract  string
	chainID   uint64
	cosigner  string
	wallet    string
	quantity  uint32
	timestamp uint64
	nonce     uint64
}

func (f *cosignFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.contract, "contract", "", "collection contract address")
	cmd.Flags().Uint64Var(&f.chainID, "chain-id", 1, "chain id the collection is bound to")
	cmd.Flags().StringVar(&f.wallet, "wallet", "", "minting wallet address")
	cmd.Flags().Uint32Var(&f.quantity, "quantity", 1, "authorized quantity")
	cmd.Flags().Uint64Var(&f.timestamp, "timestamp", 0, "authorization unix time (default now)")
	cmd.Flags().Uint64Var(&f.nonce, "nonce", 0, "wallet cosign nonce")
	_ = cmd.MarkFlagRequired("wallet")
}

func (f *cosignFlags) params(cosigner common.Address) (cosign.Params, error) {
	if !common.IsHexAddress(f.wallet) {
		return cosign.Params{}, fmt.Errorf("--wallet %q is not a hex address", f.wallet)
	}
	var contract common.Address
	if f.contract != "" {
		if !common.IsHexAddress(f.contract) {
			return cosign.Params{}, fmt.Errorf("--contract %q is not a hex address", f.contract)
		}
		contract = common.HexToAddress(f.contract)
	}
	ts := f.timestamp
	if ts == 0 {
		ts = uint64(time.Now().Unix())
	}
	return cosign.Params{
		Contract:  contract,
		ChainID:   f.chainID,
		Cosigner:  cosigner,
		Wallet:    common.HexToAddress(f.wallet),
		Quantity:  f.quantity,
		Timestamp: ts,
		Nonce:     f.nonce,
	}, nil
}

func newCosignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cosign",
		Short: "Compute and sign cosigner authorizations",
	}

	var digestFlags cosignFlags
	digestCmd := &cobra.Command{
		Use:   "digest",
		Short: "Print the digest a cosigner signs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(digestFlags.cosigner) {
				return fmt.Errorf("--cosigner %q is not a hex address", digestFlags.cosigner)
			}
			p, err := digestFlags.params(common.HexToAddress(digestFlags.cosigner))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"digest":    cosign.Digest(p).Hex(),
				"timestamp": p.Timestamp,
			})
		},
	}
	digestFlags.register(digestCmd)
	digestCmd.Flags().StringVar(&digestFlags.cosigner, "cosigner", "", "cosigner address")
	_ = digestCmd.MarkFlagRequired("cosigner")

	var signFlags cosignFlags
	var key string
	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Sign an authorization with a cosigner private key",
		RunE: func(cmd *cobra.Command, args []string) error {
			signer, err := cosign.ParseSigner(key)
			if err != nil {
				return err
			}
			p, err := signFlags.params(signer.Address())
			if err != nil {
				return err
			}
			sig, err := signer.Sign(p)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"cosigner":  signer.Address().Hex(),
				"digest":    cosign.Digest(p).Hex(),
				"signature": hexutil.Encode(sig),
				"timestamp": p.Timestamp,
			})
		},
	}
	signFlags.register(signCmd)
	signCmd.Flags().StringVar(&key, "key", "", "cosigner private key (hex)")
	_ = signCmd.MarkFlagRequired("key")

	cmd.AddCommand(digestCmd, signCmd)
	return cmd
}
