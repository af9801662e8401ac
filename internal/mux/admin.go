package mux

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/room"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	gmux "github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// getAdminTable lists every table, Spin & Go tables included
func (m *Mux) getAdminTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tables := make([]tableSummary, 0)
		for _, t := range m.deps.Registry.List() {
			tables = append(tables, newTableSummary(t))
		}

		writeJSON(w, http.StatusOK, tables)
	}
}

func (m *Mux) postAdminTable() http.HandlerFunc {
	var wordChar = regexp.MustCompile(`\w`)
	return func(w http.ResponseWriter, r *http.Request) {
		var opts table.Options
		if !decodeRequest(w, r, &opts) {
			return
		}

		if !wordChar.MatchString(opts.Name) || len(opts.Name) < 3 || len(opts.Name) > 40 {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		if opts.Tournament != nil {
			writeJSONError(w, http.StatusBadRequest, errors.New("tournament tables are opened by matchmaking"))
			return
		}

		tbl, err := m.deps.Registry.Create(opts)
		if err != nil {
			if errors.Is(err, table.ErrRegistryClosed) {
				writeJSONError(w, http.StatusServiceUnavailable, err)
			} else {
				writeJSONError(w, http.StatusBadRequest, err)
			}
			return
		}

		m.audit(r, tbl).Info("admin opened table")
		writeJSON(w, http.StatusCreated, newTableSummary(tbl))
	}
}

func (m *Mux) postAdminTableClose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := tableFrom(r)
		if err := tbl.ForceClose(r.Context()); err != nil {
			writeDomainError(w, err)
			return
		}

		m.audit(r, tbl).Warn("admin closed table")
		writeJSON(w, http.StatusOK, room.Redact(tbl.Snapshot(), ""))
	}
}

func (m *Mux) postAdminTableRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tbl := tableFrom(r)
		tbl.Refresh()

		m.audit(r, tbl).Info("admin refreshed table")
		writeJSON(w, http.StatusOK, room.Redact(tbl.Snapshot(), ""))
	}
}

func (m *Mux) postAdminTableKick() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		seat, err := strconv.Atoi(gmux.Vars(r)["seat"])
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		tbl := tableFrom(r)
		if err := tbl.Kick(r.Context(), seat); err != nil {
			writeDomainError(w, err)
			return
		}

		m.audit(r, tbl).WithField("seat", seat).Warn("admin kicked seat")
		writeJSON(w, http.StatusOK, room.Redact(tbl.Snapshot(), ""))
	}
}

func (m *Mux) audit(r *http.Request, tbl *table.Table) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"admin": occupantFrom(r),
		"table": tbl.ID(),
	})
}
