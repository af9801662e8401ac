package cmd

import (
	"fmt"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/spf13/cobra"
)

func tokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token <occupant>",
		Short: "Signs an access token for an occupant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.loadKeys()

			token, err := jwt.Sign(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
