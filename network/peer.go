// Package network carries rollback messages between the two peers over necs
// websockets. The host runs the websocket server, the joiner dials it; after that
// both sides are symmetric.
package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/automoto/p2pong/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type PeerState int

const (
	StateDisconnected PeerState = iota
	StateConnecting
	StateConnected
	StateError
)

func (s PeerState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("PeerState(%d)", int(s))
}

const inboxSize = 1024

var ErrNotConnected = errors.New("network: not connected")

// Peer implements rollback.Transport. All shared fields are protected by mu
// (router callbacks run on necs goroutines).
type Peer struct {
	mu sync.RWMutex

	state     PeerState
	lastError error
	hosting   bool
	remote    *router.NetworkClient // host side
	conn      *websocket.Conn       // join side
	server    *transports.WsServerTransport

	inbox   chan any
	dropped int
}

func NewPeer() *Peer {
	return &Peer{
		state: StateDisconnected,
		inbox: make(chan any, inboxSize),
	}
}

// Host listens on port and accepts exactly one remote peer.
func (p *Peer) Host(port uint) {
	p.mu.Lock()
	p.state = StateConnecting
	p.hosting = true
	p.lastError = nil
	p.mu.Unlock()

	p.routeMessages()

	router.OnConnect(func(client *router.NetworkClient) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.remote != nil {
			log.Printf("[peer] ignoring extra client %s", client.Id())
			return
		}
		log.Printf("[peer] peer %s connected", client.Id())
		p.remote = client
		p.state = StateConnected
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if client != p.remote {
			return
		}
		log.Printf("[peer] peer %s disconnected: %v", client.Id(), err)
		p.remote = nil
		if p.state != StateError {
			p.state = StateDisconnected
		}
	})

	p.server = transports.NewWsServerTransport(port, "", nil)
	go func() {
		log.Printf("[peer] hosting on :%d", port)
		if err := p.server.Start(); err != nil {
			p.setError(fmt.Errorf("host on port %d: %w", port, err))
		}
	}()
}

// Join dials the host at address (host:port) in a background goroutine.
func (p *Peer) Join(address string) {
	p.mu.Lock()
	p.state = StateConnecting
	p.hosting = false
	p.lastError = nil
	p.mu.Unlock()

	p.routeMessages()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Printf("[peer] connected to %s", address)
		p.mu.Lock()
		p.state = StateConnected
		p.mu.Unlock()
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[peer] disconnected: %v", err)
		p.mu.Lock()
		if p.state != StateError {
			p.state = StateDisconnected
		}
		p.conn = nil
		p.mu.Unlock()
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			p.mu.Lock()
			p.conn = conn
			p.mu.Unlock()
		})
		if err != nil {
			p.setError(fmt.Errorf("join %s: %w", address, err))
		}
	}()
}

func (p *Peer) routeMessages() {
	route[messages.Hello](p)
	route[messages.InputBatch](p)
	route[messages.ChecksumReport](p)
	route[messages.QualityReport](p)
	route[messages.QualityReply](p)
	route[messages.Goodbye](p)

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[peer] error: %v", err)
	})
}

func route[T any](p *Peer) {
	router.On(func(client *router.NetworkClient, msg T) {
		if !p.accepts(client) {
			return
		}
		select {
		case p.inbox <- msg:
		default:
			p.mu.Lock()
			p.dropped++
			p.mu.Unlock()
		}
	})
}

func (p *Peer) accepts(client *router.NetworkClient) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return !p.hosting || client == p.remote
}

// Send serializes msg and writes it to the remote peer.
func (p *Peer) Send(msg any) error {
	p.mu.RLock()
	remote, conn := p.remote, p.conn
	p.mu.RUnlock()

	switch {
	case remote != nil:
		return remote.SendMessage(msg)
	case conn != nil:
		payload, err := router.Serialize(msg)
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		return conn.Write(context.Background(), websocket.MessageBinary, payload)
	}
	return ErrNotConnected
}

// Receive drains every message that arrived since the last call. Non-blocking.
func (p *Peer) Receive() []any {
	var out []any
	for {
		select {
		case msg := <-p.inbox:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func (p *Peer) Close() {
	p.mu.Lock()
	conn := p.conn
	p.state = StateDisconnected
	p.conn = nil
	p.remote = nil
	p.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (p *Peer) State() PeerState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Peer) LastError() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastError
}

// Dropped counts messages discarded because the inbox was full.
func (p *Peer) Dropped() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.dropped
}

func (p *Peer) setError(err error) {
	log.Printf("[peer] %v", err)
	p.mu.Lock()
	p.state = StateError
	p.lastError = err
	p.mu.Unlock()
}
