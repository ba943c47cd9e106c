package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"wordplay-service/internal/auth"
	"wordplay-service/internal/config"
	"wordplay-service/internal/domain"
)

// NewTokenCmd mints a signed access token for local development.
func NewTokenCmd(configPath *string) *cobra.Command {
	var (
		userID string
		role   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			token, err := tokenService(cfg).Issue(userID, domain.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id to put in the token subject")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleUser), "role claim (USER, ADMIN, SUPER_ADMIN)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func tokenService(cfg config.Config) *auth.TokenService {
	return auth.NewTokenService(cfg.Auth.Secret, config.TTLDuration(cfg.Auth.TokenTTL, 24*time.Hour))
}
