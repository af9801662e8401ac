package main

import (
	"database/sql"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Instance()
	if err := db.Migrate(waitForDB(), cfg.DBDriver, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not migrate the database")
	}

	logrus.Info("database is up to date")
}

func waitForDB() *sql.DB {
	timeout := time.NewTimer(time.Second * 10)
	for {
		select {
		case <-timeout.C:
			logrus.Fatal("could not connect to database")
		default:
			dbh := func() *sql.DB {
				defer func() { _ = recover() }()
				return db.Instance()
			}()

			if dbh != nil {
				return dbh
			}

			time.Sleep(time.Millisecond * 500)
		}
	}
}
