package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"sync"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/db"
)

// SQLSink writes records into the hands table
type SQLSink struct {
	db     *sql.DB
	driver string
}

// NewSQLSink returns a sink using dbh
func NewSQLSink(dbh *sql.DB, driver string) *SQLSink {
	return &SQLSink{
		db:     dbh,
		driver: driver,
	}
}

// Record inserts the record
func (s *SQLSink) Record(ctx context.Context, r *Record) error {
	const query = `
INSERT INTO hands (id, table_id, hand_number, small_blind, big_blind, pot, rake, boards, record)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	b, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, db.Rebind(s.driver, query),
		r.ID, r.TableID, r.HandNumber, r.SmallBlind, r.BigBlind, r.Pot, r.Rake, strings.Join(r.Boards, "|"), string(b))
	return err
}

// MemorySink keeps records in memory
type MemorySink struct {
	mu      sync.Mutex
	records []*Record
}

// Record appends the record
func (m *MemorySink) Record(_ context.Context, r *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, r)
	return nil
}

// Records returns every record received
func (m *MemorySink) Records() []*Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]*Record, len(m.records))
	copy(records, m.records)
	return records
}
