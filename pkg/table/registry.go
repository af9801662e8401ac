package table

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/config"
	"golang.org/x/sync/errgroup"
)

// ErrRegistryClosed is returned when a table is created after Close
var ErrRegistryClosed = errors.New("the registry is closed")

// Registry owns every live table and runs their clocks
type Registry struct {
	deps Dependencies

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu     sync.RWMutex
	tables map[string]*Table
	closed bool
}

// NewRegistry returns an empty registry
// Tables are run until ctx is done or Close is called.
func NewRegistry(ctx context.Context, deps Dependencies) *Registry {
	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	return &Registry{
		deps:   deps.withDefaults(),
		ctx:    ctx,
		cancel: cancel,
		group:  group,
		tables: make(map[string]*Table),
	}
}

// SetSettings replaces the settings snapshot handed to tables created from now on
func (r *Registry) SetSettings(s config.Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deps.Settings = s
}

// Create builds a table and starts its clock
func (r *Registry) Create(opts Options) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	if _, exists := r.tables[opts.ID]; exists && opts.ID != "" {
		return nil, errors.New("a table with that ID already exists")
	}

	t, err := New(opts, r.deps)
	if err != nil {
		return nil, err
	}

	r.tables[t.ID()] = t
	r.group.Go(func() error {
		t.Run(r.ctx)

		select {
		case <-t.Done():
			r.Remove(t.ID())
		default:
		}

		return nil
	})

	r.deps.Logger.WithField("table", t.ID()).WithField("name", t.Name()).Info("opened table")
	return t, nil
}

// Get returns the table by its ID
func (r *Registry) Get(id string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tables[id]
	return t, ok
}

// List returns every table, cash tables first, then by name
func (r *Registry) List() []*Table {
	r.mu.RLock()
	tables := make([]*Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	sort.Slice(tables, func(i, j int) bool {
		if tables[i].IsTournament() != tables[j].IsTournament() {
			return !tables[i].IsTournament()
		}

		if tables[i].Name() == tables[j].Name() {
			return tables[i].ID() < tables[j].ID()
		}

		return tables[i].Name() < tables[j].Name()
	})

	return tables
}

// Remove forgets the table
// It does not close it. Closed tables remove themselves.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tables[id]; !ok {
		return false
	}

	delete(r.tables, id)
	return true
}

// Close force closes every table, returning every stack to the ledger, and waits for the clocks to stop
func (r *Registry) Close(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for _, t := range r.List() {
		if err := t.ForceClose(ctx); err != nil && !errors.Is(err, ErrTableClosed) {
			errs = append(errs, err)
		}
	}

	r.cancel()
	if err := r.group.Wait(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
