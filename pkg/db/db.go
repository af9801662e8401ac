package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                // postgres driver
	_ "github.com/mattn/go-sqlite3"                      // sqlite3 driver
)

// supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

//go:embed migrations
var migrations embed.FS

var instance *sql.DB

// Instance returns a database instance
func Instance() *sql.DB {
	if instance == nil {
		LoadInstance()
	}

	return instance
}

// LoadInstance will load the database instance from the configuration
func LoadInstance() {
	cfg := config.Instance()
	db, err := Open(cfg.DBDriver, cfg.DSN)
	if err != nil {
		panic(err)
	}

	instance = db
}

// Open connects to the database and makes sure it is reachable
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// sqlite only allows one writer
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs the migrations
// If migrationsPath is empty the migrations compiled into the binary are used.
func Migrate(db *sql.DB, driver, migrationsPath string) error {
	logrus.WithFields(logrus.Fields{
		"driver":         driver,
		"migrationsPath": migrationsPath,
	}).Info("running migrations")

	var dbDriver database.Driver
	var err error
	switch driver {
	case DriverPostgres:
		dbDriver, err = postgres.WithInstance(db, &postgres.Config{})
	case DriverSQLite:
		dbDriver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		err = fmt.Errorf("unsupported database driver: %s", driver)
	}

	if err != nil {
		return err
	}

	var m *migrate.Migrate
	if migrationsPath != "" {
		m, err = migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s/%s", migrationsPath, driver), driver, dbDriver)
	} else {
		src, srcErr := iofs.New(migrations, "migrations/"+driver)
		if srcErr != nil {
			return srcErr
		}

		m, err = migrate.NewWithInstance("iofs", src, driver, dbDriver)
	}

	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}

// Rebind rewrites ? placeholders into the driver's style
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Scanner is an interface that sql should've provided
// No snark here...
type Scanner interface {
	Scan(...interface{}) error
}
