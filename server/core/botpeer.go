package core

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/p2pong/network"
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/loop"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/replay"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/google/uuid"
)

// BotPeerConfig configures a headless bot opponent.
type BotPeerConfig struct {
	Port       uint
	Player     int
	Difficulty BotDifficulty
	PollRate   int
	Session    rollback.P2PConfig
	RecordPath string
}

func DefaultBotPeerConfig() BotPeerConfig {
	session := rollback.DefaultP2PConfig()
	session.LocalPlayer = pong.Player2
	return BotPeerConfig{
		Port:       7373,
		Player:     pong.Player2,
		Difficulty: BotDifficultyNormal,
		PollRate:   120,
		Session:    session,
	}
}

// BotPeer hosts a rollback session and plays one paddle with a Bot.
type BotPeer struct {
	cfg      BotPeerConfig
	peer     *network.Peer
	session  *rollback.P2PSession
	sim      *loop.SessionSimulation
	driver   *loop.Driver
	bot      *Bot
	recorder *replay.Recorder
	loop     *GameLoop

	mu     sync.Mutex
	err    error
	last   pong.Game
	stalls int
	ping   time.Duration
}

func NewBotPeer(cfg BotPeerConfig) (*BotPeer, error) {
	if cfg.PollRate <= 0 {
		cfg.PollRate = 120
	}
	if cfg.Session.SessionID == "" {
		cfg.Session.SessionID = uuid.NewString()
	}
	blank := input.Encode(input.None)
	cfg.Session.LocalPlayer = cfg.Player
	cfg.Session.BlankInput = blank[:]

	b := &BotPeer{
		cfg:    cfg,
		peer:   network.NewPeer(),
		driver: loop.NewDriver(nil),
		bot:    NewBot(cfg.Player, cfg.Difficulty),
	}

	session, err := rollback.NewP2PSession(cfg.Session, b.peer)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	b.session = session

	var rec loop.InputRecorder
	if cfg.RecordPath != "" {
		b.recorder = replay.NewRecorder(cfg.Session.SessionID)
		rec = b.recorder
	}
	b.sim = loop.NewSessionSimulation(session, b.bot, rec)
	b.sim.OnEvent = b.onEvent
	b.loop = NewGameLoop(b.tick, cfg.PollRate)
	return b, nil
}

// Start hosts on the configured port and runs the game loop in the background.
func (b *BotPeer) Start() {
	log.Printf("[bot] session %s, playing paddle %d", b.cfg.Session.SessionID, b.cfg.Player)
	b.peer.Host(b.cfg.Port)
	go b.loop.Run()
}

// Stop says goodbye to the peer and shuts everything down.
func (b *BotPeer) Stop() error {
	b.loop.Stop()
	b.session.Close("bot shutting down")
	b.peer.Close()
	return b.writeReplay()
}

// Done is closed when the match ended on its own.
func (b *BotPeer) Done() <-chan struct{} {
	return b.loop.Done()
}

// Err is the reason the match ended, if it failed.
func (b *BotPeer) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *BotPeer) tick() {
	if b.Err() != nil {
		return
	}
	game, err := b.driver.Frame(b.sim)
	if err == nil && b.peer.State() == network.StateError {
		err = b.peer.LastError()
	}
	if err != nil {
		b.fail(err)
		return
	}

	// the bot reacts to confirmed-or-predicted simulation state, not the blend
	state := b.sim.State()
	if state.Frame != b.last.Frame {
		b.bot.Observe(state)
	}

	b.mu.Lock()
	if game.Scores != b.last.Scores {
		log.Printf("[bot] frame %d score %d-%d", state.Frame, game.Scores[0], game.Scores[1])
	}
	b.last = state
	b.stalls = b.driver.Stalls()
	b.ping = b.session.Ping()
	b.mu.Unlock()
}

func (b *BotPeer) onEvent(ev rollback.Event) {
	log.Printf("[bot] %s", ev)
	switch ev.Kind {
	case rollback.EventDesync:
		b.fail(fmt.Errorf("desync at frame %d: local %04x remote %04x", ev.Frame, ev.LocalChecksum, ev.RemoteChecksum))
	case rollback.EventDisconnected:
		b.fail(fmt.Errorf("%w: %s", rollback.ErrDisconnected, ev.Reason))
	}
}

func (b *BotPeer) fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return
	}
	log.Printf("[bot] match over: %v", err)
	b.err = err
	b.loop.Halt()
}

// Stats reports the last simulated frame and session timing.
func (b *BotPeer) Stats() (rollback.Frame, int, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last.Frame, b.stalls, b.ping
}

func (b *BotPeer) writeReplay() error {
	if b.recorder == nil || b.recorder.Len() == 0 {
		return nil
	}
	rec, err := b.recorder.Finish(b.sim.State())
	if err != nil {
		return err
	}
	if err := replay.WriteFile(b.cfg.RecordPath, rec); err != nil {
		return err
	}
	log.Printf("[bot] replay of %d frames written to %s", len(rec.Frames), b.cfg.RecordPath)
	return nil
}

// IsDisconnect reports whether err ended the match because the peer left.
func IsDisconnect(err error) bool {
	return errors.Is(err, rollback.ErrDisconnected)
}
