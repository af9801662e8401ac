package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/spf13/cobra"
)

// tableCmd drives the admin routes of a running server
func tableCmd(a *app) *cobra.Command {
	var server, as string

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Controls the tables of a running server",
	}

	cmd.PersistentFlags().StringVar(&server, "server", "http://localhost:5000", "the server's base URL")
	cmd.PersistentFlags().StringVar(&as, "as", "", "the admin occupant to sign the request as, defaults to the first configured admin")

	post := func(cmd *cobra.Command, path string) error {
		admin := as
		if admin == "" {
			admins := config.Instance().Admins
			if len(admins) == 0 {
				return errors.New("--as is required when no admins are configured")
			}

			admin = admins[0]
		}

		a.loadKeys()
		token, err := jwt.Sign(admin)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, strings.TrimRight(server, "/")+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)

		resp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(body)))
		}

		_, err = cmd.OutOrStdout().Write(body)
		return err
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "close <table>",
			Short: "Force closes a table, returning every stack",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return post(cmd, "/admin/table/"+args[0]+"/close")
			},
		},
		&cobra.Command{
			Use:   "refresh <table>",
			Short: "Sends the table to every connected client",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return post(cmd, "/admin/table/"+args[0]+"/refresh")
			},
		},
		&cobra.Command{
			Use:   "kick <table> <seat>",
			Short: "Removes whoever sits at a seat",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				seat, err := strconv.Atoi(args[1])
				if err != nil || seat < 0 {
					return fmt.Errorf("seat must be a number, got %q", args[1])
				}

				return post(cmd, fmt.Sprintf("/admin/table/%s/kick/%d", args[0], seat))
			},
		},
	)

	return cmd
}
