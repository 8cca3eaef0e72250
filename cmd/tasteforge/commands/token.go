package commands

import (
	"fmt"
	"time"

	"github.com/ch10874/tasteforge-scraper/config"
	"github.com/ch10874/tasteforge-scraper/utils"
	"github.com/spf13/cobra"
)

var tokenTTL time.Duration

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 30*24*time.Hour, "Token lifetime.")
	rootCmd.AddCommand(tokenCmd)
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issues an API bearer token signed with JWT_SECRET.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := utils.GenerateToken(config.JWTSecret, args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
