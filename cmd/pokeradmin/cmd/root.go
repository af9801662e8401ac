package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// app holds what the commands reach outside the process for
type app struct {
	// loadKeys is called once before a token is signed
	loadKeys func()
	// openLedger returns the ledger and a function releasing it
	openLedger func() (ledger.Ledger, func() error, error)
	client     *http.Client
}

// NewRootCmd returns the pokeradmin command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{
		loadKeys:   jwt.LoadKeys,
		openLedger: openSQLLedger,
		client:     &http.Client{Timeout: time.Second * 30},
	})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pokeradmin",
		Short:         "Administers the poker tables and balances",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Load(); err != nil {
				return err
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output")

	rootCmd.AddCommand(
		tokenCmd(a),
		migrateCmd(),
		balanceCmd(a),
		creditCmd(a),
		tableCmd(a),
	)

	return rootCmd
}

func openSQLLedger() (ledger.Ledger, func() error, error) {
	cfg := config.Instance()
	dbh, err := db.Open(cfg.DBDriver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	return ledger.NewSQL(dbh, cfg.DBDriver), dbh.Close, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Runs the database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Instance()
			dbh, err := db.Open(cfg.DBDriver, cfg.DSN)
			if err != nil {
				return err
			}
			defer dbh.Close()

			if err := db.Migrate(dbh, cfg.DBDriver, cfg.MigrationsPath); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
			return nil
		},
	}
}
