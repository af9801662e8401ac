package mux

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/jwt"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/util"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/ledger"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	gmux "github.com/gorilla/mux"
)

type ctxKey int

const (
	ctxOccupantKey ctxKey = iota
	ctxTableKey
)

// occupantHeader echoes the authenticated occupant on every authorized response
const occupantHeader = "Casino-Occupant"

// Dependencies are the services the routes are served from
type Dependencies struct {
	Registry *table.Registry
	Queue    *matchmaking.Queue
	PitBoss  *room.PitBoss
	Ledger   ledger.Ledger

	// IsAdmin reports whether occupant may use the admin routes
	IsAdmin func(occupant string) bool
}

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	deps    Dependencies

	// store for testing purposes
	authRouter  *gmux.Router
	adminRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, deps Dependencies) *Mux {
	if deps.IsAdmin == nil {
		deps.IsAdmin = func(string) bool { return false }
	}

	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		deps:    deps,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	this.adminRouter = this.authRouter.PathPrefix("/admin").Subrouter()
	this.adminRouter.Use(this.adminMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/balance").Handler(this.getBalance())
		r.Methods(http.MethodGet).Path("/table").Handler(this.getTable())

		tr := r.PathPrefix("/table/{id:[A-Za-z0-9-]+}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodGet).Path("").Handler(this.getTableID())
		tr.Methods(http.MethodGet).Path("/ws").Handler(this.getTableIDWS())

		r.Methods(http.MethodGet).Path("/lobby/ws").Handler(this.getLobbyWS())

		r.Methods(http.MethodGet).Path("/matchmaking").Handler(this.getMatchmaking())
		r.Methods(http.MethodPost).Path("/matchmaking/{tier}").Handler(this.postMatchmakingTier())
		r.Methods(http.MethodDelete).Path("/matchmaking").Handler(this.deleteMatchmaking())
	}

	// requires admin access
	// depends on authMiddleware
	{
		r := this.adminRouter
		r.Methods(http.MethodGet).Path("/table").Handler(this.getAdminTable())
		r.Methods(http.MethodPost).Path("/table").Handler(this.postAdminTable())

		tr := r.PathPrefix("/table/{id:[A-Za-z0-9-]+}").Subrouter()
		tr.Use(this.tableMiddleware)

		tr.Methods(http.MethodPost).Path("/close").Handler(this.postAdminTableClose())
		tr.Methods(http.MethodPost).Path("/refresh").Handler(this.postAdminTableRefresh())
		tr.Methods(http.MethodPost).Path("/kick/{seat:[0-9]+}").Handler(this.postAdminTableKick())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		// bot seats are only played by the server
		occupant, err := jwt.ValidOccupant(token)
		if err != nil || util.IsBot(occupant) {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxOccupantKey, occupant)
		w.Header().Set(occupantHeader, occupant)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// adminMiddleware requires authMiddleware to execute first
func (m *Mux) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.deps.IsAdmin(occupantFrom(r)) {
			writeJSONError(w, http.StatusForbidden, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *Mux) tableMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tbl, ok := m.deps.Registry.Get(gmux.Vars(r)["id"])
		if !ok {
			writeJSONError(w, http.StatusNotFound, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxTableKey, tbl)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func occupantFrom(r *http.Request) string {
	return r.Context().Value(ctxOccupantKey).(string)
}

func tableFrom(r *http.Request) *table.Table {
	return r.Context().Value(ctxTableKey).(*table.Table)
}
