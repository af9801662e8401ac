package history

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrClosed is returned when a record is dispatched after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher delivers records to a sink in the background
// Delivery is best-effort. Tables never wait on it.
type Dispatcher struct {
	logger  logrus.FieldLogger
	sink    Sink
	records chan *Record
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewDispatcher returns a dispatcher buffering up to size records
func NewDispatcher(logger logrus.FieldLogger, sink Sink, size int) *Dispatcher {
	return &Dispatcher{
		logger:  logger,
		sink:    sink,
		records: make(chan *Record, size),
		timeout: time.Second * 5,
		done:    make(chan struct{}),
	}
}

// Dispatch queues a record
// If the buffer is full the record is dropped and logged.
func (d *Dispatcher) Dispatch(r *Record) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	select {
	case d.records <- r:
	default:
		d.logger.WithFields(logrus.Fields{
			"table": r.TableID,
			"hand":  r.HandNumber,
		}).Warn("history buffer is full, dropping record")
	}

	return nil
}

// Run writes records to the sink until Close is called and the buffer is drained
func (d *Dispatcher) Run() {
	defer close(d.done)

	for r := range d.records {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Record(ctx, r); err != nil {
			d.logger.WithError(err).WithFields(logrus.Fields{
				"table": r.TableID,
				"hand":  r.HandNumber,
			}).Error("could not record hand history")
		}
		cancel()
	}
}

// Close stops accepting records and waits until the queued ones are written or ctx is done
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.records)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
