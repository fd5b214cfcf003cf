package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"court-service/internal/domain/auth"
	jwtauth "court-service/pkg/auth"
)

// tokenCommand constructs the 'token' subcommand that mints an access token
// for a user ID and role with the configured signing key.
func tokenCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Generates an access token for given user ID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, _ := cmd.Flags().GetInt64("user-id")
			role, _ := cmd.Flags().GetString("role")
			name, _ := cmd.Flags().GetString("name")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			if userID <= 0 {
				return fmt.Errorf("user-id must be positive")
			}
			if !auth.ValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			if ttl <= 0 {
				ttl = c.cfg.Auth.AccessTokenTTL
			}

			tokens := jwtauth.NewTokenManager(c.cfg.Auth.SecretKey, c.cfg.Auth.Issuer, c.cfg.Auth.AccessTokenTTL, c.cfg.Auth.RefreshTokenTTL)
			signed, claims, err := tokens.IssueWithTTL(jwtauth.Subject{
				UserID: strconv.FormatInt(userID, 10),
				Role:   role,
				Name:   name,
			}, jwtauth.TokenTypeAccess, ttl)
			if err != nil {
				return fmt.Errorf("could not sign token: %w", err)
			}

			c.log.Debug("token issued", zap.Int64("user_id", userID), zap.Time("expires_at", claims.ExpiresAt.Time))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)
			return err
		},
	}

	cmd.Flags().Int64("user-id", 0, "Subject user ID")
	cmd.Flags().String("role", "", "Role carried by the token")
	cmd.Flags().String("name", "", "Display name carried by the token")
	cmd.Flags().Duration("ttl", 0, "Token TTL (e.g. 15m, 1h); defaults to ACCESS_TOKEN_EXPIRE_MINUTES")
	_ = cmd.MarkFlagRequired("user-id")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}
