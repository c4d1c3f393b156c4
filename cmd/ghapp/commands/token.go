package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewTokenCommand creates the token command.
func NewTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Mint an installation access token",
		Long: `Mint a fresh installation access token and print it.

The token is scoped to the configured installation and expires after about
an hour. Useful for handing short-lived credentials to git or other tools.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cli, err := buildClient()
			if err != nil {
				return err
			}

			token, expiresAt, err := cli.InstallationToken(cmd.Context())
			if err != nil {
				return err
			}

			format := outputFormat()
			if format == "table" {
				// Just the token on stdout so it can be captured directly.
				fmt.Println(token)
				fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))

				return nil
			}

			return renderStructured(format, map[string]string{
				"token":      token,
				"expires_at": expiresAt.Format(time.RFC3339),
			})
		},
	}
}
