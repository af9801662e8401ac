package cmd

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

const ledgerTimeout = time.Second * 10

func balanceCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <occupant>",
		Short: "Prints the balance of an occupant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, release, err := a.openLedger()
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
			defer cancel()

			balance, err := l.Balance(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], balance)
			return nil
		},
	}
}

func creditCmd(a *app) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "credit <occupant> <amount>",
		Short: "Credits chips to an occupant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.Atoi(args[1])
			if err != nil || amount <= 0 {
				return fmt.Errorf("amount must be a positive integer, got %q", args[1])
			}

			l, release, err := a.openLedger()
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
			defer cancel()

			if err := l.Credit(ctx, args[0], amount, reason); err != nil {
				return err
			}

			balance, err := l.Balance(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d\n", args[0], balance)
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "admin-credit", "the reason recorded in the ledger")
	return cmd
}
