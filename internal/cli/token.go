package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gdugdh24/meetmatch-backend/internal/domain"
	"github.com/gdugdh24/meetmatch-backend/internal/usecase/auth"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

func init() {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development bearer token for a user id",
		Args:  cobra.ExactArgs(1),
		RunE:  runToken,
	}
	cmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (default: JWT_TTL)")

	RootCmd.AddCommand(cmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	userID, err := domain.ParseID(args[0])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	ttl := cfg.JWT.TTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	token, expiresAt, err := auth.NewTokenService(cfg.JWT.Secret, ttl).Issue(userID)
	if err != nil {
		return err
	}

	out, _ := json.MarshalIndent(map[string]any{
		"userId":    userID,
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	}, "", "  ")
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
