// Package commands holds the mintctl operator commands.
package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the mintctl command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mintctl",
		Short: "mintctl - operator tooling for mintgate collections",
		Long: `mintctl prepares the inputs a mintgate instance consumes.

Available commands:
  allowlist - Build allowlist Merkle roots and proofs
  cosign    - Compute and sign cosigner authorizations
  token     - Issue caller tokens for the HTTP API
  stages    - Validate stage files

Examples:
  mintctl allowlist root --file allowlist.yaml
  mintctl allowlist proof --file allowlist.yaml --wallet 0xabc...
  mintctl cosign sign --key $COSIGNER_KEY --wallet 0xabc... --quantity 2
  mintctl stages validate --file stages.yaml`,
		SilenceUsage: true,
	}
	root.AddCommand(newAllowlistCmd(), newCosignCmd(), newTokenCmd(), newStagesCmd())
	return root
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
