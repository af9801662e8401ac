package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/mux"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/bot"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/history"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/gorilla/handlers"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 30

// historyBuffer is how many hand records may wait for the database
const historyBuffer = 1024

// Version is the server version
var Version = "v0.0.0-dev"

var addr = flag.String("addr", "", "overrides the configured listen address")

func main() {
	flag.Parse()
	cfg := config.Instance()
	setupLogger(cfg)

	// fail fast
	jwt.LoadKeys()

	dbh := db.Instance()
	if err := db.Migrate(dbh, cfg.DBDriver, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not migrate the database")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l := ledger.NewSQL(dbh, cfg.DBDriver)
	dispatcher := history.NewDispatcher(logrus.StandardLogger(), history.NewSQLSink(dbh, cfg.DBDriver), historyBuffer)
	go dispatcher.Run()

	// tables outlive ctx so they can be force closed, and every stack returned, on the way out
	registry := table.NewRegistry(context.Background(), table.Dependencies{
		Ledger:   l,
		History:  dispatcher,
		Settings: cfg.Settings(),
	})

	controllers := openTables(ctx, cfg, registry, l)

	pitBoss := room.NewPitBoss()
	pitBoss.StartShift(ctx)

	var store matchmaking.Store
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		store = matchmaking.NewRedisStore(rdb, cfg.Redis.Key)
	}

	queue, err := matchmaking.NewQueue(cfg.Tiers, matchmaking.Dependencies{
		Ledger:   l,
		Tables:   registry,
		Notifier: pitBoss,
		Store:    store,
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create the matchmaking queue")
	}

	if err := queue.Restore(ctx); err != nil {
		logrus.WithError(err).Error("could not restore the matchmaking queue")
	}

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With", "Authorization"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	})

	listenAddr := cfg.Addr
	if *addr != "" {
		listenAddr = *addr
	}

	srv := &http.Server{
		Addr: listenAddr,
		Handler: loggingHandler(cfg, c.Handler(mux.NewMux(Version, mux.Dependencies{
			Registry: registry,
			Queue:    queue,
			PitBoss:  pitBoss,
			Ledger:   l,
			IsAdmin:  cfg.IsAdmin,
		}))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("could not shut down the http server")
		}

		for _, controller := range controllers {
			if err := controller.Close(shutdownCtx); err != nil {
				logrus.WithError(err).Warn("could not stand up every bot")
			}
		}

		if err := registry.Close(shutdownCtx); err != nil {
			logrus.WithError(err).Error("could not return every stack to the ledger")
		}

		return dispatcher.Close(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

// openTables creates the configured cash tables and seats their bots
func openTables(ctx context.Context, cfg config.Config, registry *table.Registry, l ledger.Ledger) []*bot.Controller {
	budget := bot.NewBudget(cfg.Bots.DailyBudget, cfg.Bots.ResetHourUTC)

	var controllers []*bot.Controller
	for _, tc := range cfg.Tables {
		tbl, err := registry.Create(table.OptionsFromConfig(tc))
		if err != nil {
			logrus.WithError(err).WithField("name", tc.Name).Fatal("could not open table")
		}

		if !cfg.Bots.Enabled || tc.Bots == 0 {
			continue
		}

		style := bot.Style(tc.BotStyle)
		if style == "" {
			style = bot.Tight
		}

		controller := bot.NewController(tbl, bot.Dependencies{
			Ledger:   l,
			Budget:   budget,
			Settings: cfg.Settings(),
		})
		controller.Start()

		if _, err := controller.Fill(ctx, tc.Bots, style); err != nil {
			logrus.WithError(err).WithField("table", tbl.ID()).Warn("could not seat every bot")
		}

		controllers = append(controllers, controller)
	}

	return controllers
}

func loggingHandler(cfg config.Config, next http.Handler) http.Handler {
	if cfg.Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger(cfg config.Config) {
	if lvl := cfg.Log.Level; lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
