package room

import (
	"context"
	"sync"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/poker/action"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/sirupsen/logrus"
)

// ledgerTimeout bounds a sit, rebuy or leave request
const ledgerTimeout = time.Second * 10

// Dealer relays the messages of every client watching one table
type Dealer struct {
	pitBoss *PitBoss
	table   *table.Table
	clients map[*Client]bool
	lock    sync.RWMutex
	logger  logrus.FieldLogger

	latest      *table.Snapshot
	unsubscribe func()

	execInRunLoop chan func()
	stateChanged  chan struct{}
	close         chan bool
}

// NewDealer creates a new dealer object
// This is called from a blocking state, so it needs to return quickly
func NewDealer(pitBoss *PitBoss, tbl *table.Table) *Dealer {
	return &Dealer{
		pitBoss:       pitBoss,
		table:         tbl,
		clients:       make(map[*Client]bool),
		logger:        logrus.WithField("table", tbl.ID()),
		execInRunLoop: make(chan func(), 256),
		stateChanged:  make(chan struct{}, 1),
		close:         make(chan bool),
	}
}

// Clients will return a slice of connected (at the time) clients
func (d *Dealer) Clients() []*Client {
	d.lock.RLock()
	defer d.lock.RUnlock()

	clients := make([]*Client, 0, len(d.clients))
	for client := range d.clients {
		clients = append(clients, client)
	}

	return clients
}

// StartShift subscribes to the table and starts the run loop
func (d *Dealer) StartShift() {
	d.unsubscribe = d.table.Subscribe(d.tableChanged)
	go d.runLoop()
}

// tableChanged is called by the table with its lock held, so it must not block
func (d *Dealer) tableChanged(s *table.Snapshot) {
	d.lock.Lock()
	d.latest = s
	d.lock.Unlock()

	select {
	case d.stateChanged <- struct{}{}:
	default:
	}
}

func (d *Dealer) snapshot() *table.Snapshot {
	d.lock.RLock()
	defer d.lock.RUnlock()

	return d.latest
}

func (d *Dealer) runLoop() {
	d.logger.Debug("creating dealer run loop")
	for {
		select {
		case <-d.stateChanged:
			d.sendTableState()
		case fn := <-d.execInRunLoop:
			fn()
		case <-d.close:
			d.logger.Debug("terminating dealer run loop")
			return
		}
	}
}

// AddClient adds a client and sends it the table
// This method must return quickly
func (d *Dealer) AddClient(client *Client) {
	d.lock.Lock()
	client.dealer = d
	d.clients[client] = true
	d.lock.Unlock()

	d.execInRunLoop <- func() {
		client.Send(newTableStateResponse(d.snapshot(), client.occupant))
	}
}

// RemoveClient removes a client
// This method must return quickly
func (d *Dealer) RemoveClient(client *Client) (lastClient bool) {
	d.lock.Lock()
	delete(d.clients, client)
	nClients := len(d.clients)
	d.lock.Unlock()

	return nClients == 0
}

// EndShift is called when the dealer is no longer needed
func (d *Dealer) EndShift() {
	if d.unsubscribe != nil {
		d.unsubscribe()
	}

	close(d.close)
}

// NOTE: must only be called from the run loop
func (d *Dealer) sendTableState() {
	s := d.snapshot()
	if s == nil {
		return
	}

	for _, client := range d.Clients() {
		if !client.Send(newTableStateResponse(s, client.occupant)) {
			d.logger.WithField("client", client.String()).Warn("client is not keeping up, dropped table state")
		}
	}
}

// ReceivedMessage is called when a client sends a message to the server
func (d *Dealer) ReceivedMessage(c *Client, msg *playable.PayloadIn) {
	d.execInRunLoop <- func() {
		if msg.Action == "state" {
			c.Send(newTableStateResponse(d.table.Snapshot(), c.occupant))
			return
		}

		if err := d.handle(c, msg); err != nil {
			c.Send(newErrorResponse(msg.Context, err))
			return
		}

		c.Send(playable.OK(msg.Context))
	}
}

// NOTE: must only be called from the run loop
func (d *Dealer) handle(c *Client, msg *playable.PayloadIn) error {
	ctx, cancel := context.WithTimeout(context.Background(), ledgerTimeout)
	defer cancel()

	data := msg.AdditionalData
	switch msg.Action {
	case "sit":
		seat, ok := data.GetInt("seat")
		if !ok {
			return table.UserError("seat is required")
		}

		buyIn, ok := data.GetInt("buyIn")
		if !ok {
			return table.UserError("buyIn is required")
		}

		return d.table.Sit(ctx, c.occupant, seat, buyIn)
	case "leave":
		return d.table.StandUp(ctx, c.occupant)
	case "rebuy":
		amount, ok := data.GetInt("amount")
		if !ok {
			return table.UserError("amount is required")
		}

		return d.table.Rebuy(ctx, c.occupant, amount)
	case "vote":
		boards, ok := data.GetInt("boards")
		if !ok {
			return table.UserError("boards is required")
		}

		return d.table.Vote(c.occupant, boards)
	case "sitOut":
		sittingOut, ok := data.GetBool("sittingOut")
		if !ok {
			return table.UserError("sittingOut is required")
		}

		return d.table.SetSittingOut(c.occupant, sittingOut)
	case "show":
		return d.table.Show(c.occupant)
	}

	a, err := action.FromString(msg.Action)
	if err != nil {
		return table.UserError(err.Error())
	}

	amount, _ := data.GetInt("amount")
	return d.table.Act(c.occupant, a, amount)
}
