package room

import (
	"fmt"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/playable"
	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/pkg/table"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer *Dealer

	occupant string
	// table is nil for lobby clients
	table *table.Table
}

// NewClient returns a client watching tbl
func NewClient(conn *websocket.Conn, occupant string, tbl *table.Table) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string),
		Conn:     conn,
		occupant: occupant,
		table:    tbl,
	}
}

// NewLobbyClient returns a client waiting for match announcements
func NewLobbyClient(conn *websocket.Conn, occupant string) *Client {
	return NewClient(conn, occupant, nil)
}

// Send send a message to the web client
// A client that cannot keep up misses the message
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Occupant returns who is connected
func (c *Client) Occupant() string {
	return c.occupant
}

// String returns a traceable identifier for the occupant and table
func (c *Client) String() string {
	if c.table == nil {
		return fmt.Sprintf("%s:lobby", c.occupant)
	}

	return fmt.Sprintf("%s:%s", c.occupant, c.table.ID())
}

// ReceivedMessage is called when the server receives a message from a connected client
func (c *Client) ReceivedMessage(msg *playable.PayloadIn) {
	if c.dealer == nil {
		if c.table == nil {
			c.Send(playable.Error(msg.Context, "the lobby does not accept messages"))
			return
		}

		logrus.WithField("msg", msg).Warn("received message, but dealer not found")
		return
	}

	c.dealer.ReceivedMessage(c, msg)
}
