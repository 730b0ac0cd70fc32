package commands

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	jwttoken "mintgate/internal/jwt_token"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue caller tokens for the HTTP API",
	}

	var (
		secret, issuer, audience, wallet string
		ttl                              time.Duration
	)
	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token for a wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !common.IsHexAddress(wallet) {
				return fmt.Errorf("--wallet %q is not a hex address", wallet)
			}
			svc := jwttoken.NewJWTService(secret, issuer, audience)
			token, err := svc.GenerateCallerToken(common.HexToAddress(wallet), ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	issueCmd.Flags().StringVar(&secret, "secret", "", "HS256 signing key (JWT_SIGNING_KEY of the server)")
	issueCmd.Flags().StringVar(&issuer, "issuer", "mintgate", "token issuer")
	issueCmd.Flags().StringVar(&audience, "audience", "mintgate-api", "token audience")
	issueCmd.Flags().StringVar(&wallet, "wallet", "", "wallet the bearer acts as")
	issueCmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	_ = issueCmd.MarkFlagRequired("secret")
	_ = issueCmd.MarkFlagRequired("wallet")

	cmd.AddCommand(issueCmd)
	return cmd
}
