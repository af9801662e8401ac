package room

import (
	"context"
	"sync"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/matchmaking"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/sirupsen/logrus"
)

// PitBoss is responsible for dispatching clients to dealers
// Lobby clients are kept by the PitBoss itself to receive match announcements.
type PitBoss struct {
	dealers    map[string]*Dealer
	connect    chan *Client
	disconnect chan *Client

	lobbyLock sync.RWMutex
	lobby     map[*Client]bool
}

// NewPitBoss returns a new dispatch object
func NewPitBoss() *PitBoss {
	return &PitBoss{
		dealers:    make(map[string]*Dealer),
		connect:    make(chan *Client, 256),
		disconnect: make(chan *Client, 256),
		lobby:      make(map[*Client]bool),
	}
}

// StartShift starts the PitBoss run loop
// The loop ends, and every dealer with it, when ctx is done.
func (p *PitBoss) StartShift(ctx context.Context) {
	go p.runLoop(ctx)
}

func (p *PitBoss) runLoop(ctx context.Context) {
	for {
		select {
		case client := <-p.connect:
			logrus.WithField("client", client.String()).Debug("client connected")
			dealer, found := p.dealers[client.table.ID()]
			if !found {
				dealer = NewDealer(p, client.table)
				dealer.StartShift()
				p.dealers[client.table.ID()] = dealer
			}

			dealer.AddClient(client)
		case client := <-p.disconnect:
			logrus.WithField("client", client.String()).Debug("client disconnected")
			dealer, found := p.dealers[client.table.ID()]
			if !found {
				logrus.WithField("table", client.table.ID()).WithField("type", "exception").Error("dealer not found")
				continue
			}

			if dealer.RemoveClient(client) {
				dealer.EndShift()
				delete(p.dealers, client.table.ID())
			}
		case <-ctx.Done():
			for id, dealer := range p.dealers {
				dealer.EndShift()
				delete(p.dealers, id)
			}

			return
		}
	}
}

// ClientConnected is called when a client connects to the server
// A lobby client is registered before it returns.
func (p *PitBoss) ClientConnected(client *Client) {
	if client.table == nil {
		p.lobbyLock.Lock()
		p.lobby[client] = true
		p.lobbyLock.Unlock()
		return
	}

	p.connect <- client
}

// ClientDisconnected is called when a client disconnects from the server
func (p *PitBoss) ClientDisconnected(client *Client) {
	if client.table == nil {
		p.lobbyLock.Lock()
		delete(p.lobby, client)
		p.lobbyLock.Unlock()
		return
	}

	p.disconnect <- client
}

// Announce sends matchFound to the lobby clients of every participant
func (p *PitBoss) Announce(match *matchmaking.Match) {
	participants := make(map[string]bool, len(match.Occupants))
	for _, occupant := range match.Occupants {
		participants[occupant] = true
	}

	p.lobbyLock.RLock()
	defer p.lobbyLock.RUnlock()

	for client := range p.lobby {
		if !participants[client.occupant] {
			continue
		}

		if !client.Send(&playable.Response{Key: "matchFound", Data: match}) {
			logrus.WithField("client", client.String()).Warn("could not announce match")
		}
	}
}

var _ matchmaking.Notifier = (*PitBoss)(nil)
