package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wanderai-backend/internal/auth"
)

func newTokenCmd(e *env) *cobra.Command {
	var subject, email, name string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token signed with SECRET_KEY",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if e.cfg.Auth.SecretKey == "" {
				return errors.New("SECRET_KEY is not set")
			}
			if e.cfg.IsProduction() {
				return errors.New("development tokens are not accepted in production")
			}
			token, err := auth.NewDevTokenIssuer(e.cfg.Auth.SecretKey, e.cfg.Auth.AccessTokenTTL).Issue(subject, email, name)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "dev-user", "token subject, stored as the user's provider id")
	cmd.Flags().StringVar(&email, "email", "dev@example.com", "email claim")
	cmd.Flags().StringVar(&name, "name", "", "display name claim")
	return cmd
}
