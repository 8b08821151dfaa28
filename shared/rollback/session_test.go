package rollback_test

import (
	"errors"
	"testing"
	"time"

	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encoded(in input.Input) []byte {
	e := input.Encode(in)
	return e[:]
}

func scripted(player, frame int) input.Input {
	return input.Input((frame/9 + frame/23 + player) % 3)
}

func TestLocalSession(t *testing.T) {
	s := rollback.NewLocalSession()
	require.NoError(t, s.AddLocalInput(0, encoded(input.Up)))
	_, err := s.AdvanceFrame()
	assert.ErrorIs(t, err, rollback.ErrMissingInput)

	require.NoError(t, s.AddLocalInput(1, encoded(input.Down)))
	reqs, err := s.AdvanceFrame()
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, rollback.AdvanceRequest{Inputs: [2][]byte{encoded(input.Up), encoded(input.Down)}}, reqs[0])
	assert.Equal(t, rollback.Frame(1), s.CurrentFrame())

	assert.ErrorIs(t, s.AddLocalInput(2, nil), rollback.ErrInvalidPlayer)
}

func TestSyncTestSessionPassesForPong(t *testing.T) {
	s := rollback.NewSyncTestSession(7)
	g := pong.NewGame()
	for f := 0; f < 600; f++ {
		require.NoError(t, s.AddLocalInput(0, encoded(scripted(0, f))))
		require.NoError(t, s.AddLocalInput(1, encoded(scripted(1, f))))
		reqs, err := s.AdvanceFrame()
		require.NoError(t, err)
		require.NoError(t, g.Handle(reqs))
	}
	assert.Equal(t, rollback.Frame(600), g.Frame)

	plain := pong.NewGame()
	for f := 0; f < 600; f++ {
		plain.Advance([2]input.Input{scripted(0, f), scripted(1, f)})
	}
	assert.Equal(t, plain, g)
}

// leakyGame saves a checksum that depends on how often it was saved, the way a
// simulation reading a global would.
type leakyGame struct {
	frame rollback.Frame
	saves uint16
}

func (g *leakyGame) handle(reqs []rollback.Request) {
	for _, r := range reqs {
		switch r := r.(type) {
		case rollback.SaveRequest:
			g.saves++
			r.Cell.Save(rollback.Snapshot{Frame: g.frame, Checksum: uint16(g.frame) + g.saves})
		case rollback.LoadRequest:
			g.frame = r.Frame
		case rollback.AdvanceRequest:
			g.frame++
		}
	}
}

func TestSyncTestSessionDetectsNonDeterminism(t *testing.T) {
	s := rollback.NewSyncTestSession(2)
	g := &leakyGame{}
	var err error
	for f := 0; f < 10 && err == nil; f++ {
		_ = s.AddLocalInput(0, encoded(input.None))
		_ = s.AddLocalInput(1, encoded(input.None))
		var reqs []rollback.Request
		reqs, err = s.AdvanceFrame()
		g.handle(reqs)
	}
	var mismatch *rollback.ChecksumMismatchError
	require.True(t, errors.As(err, &mismatch), "got %v", err)
	assert.NotEqual(t, mismatch.First, mismatch.Resimmed)
}

func TestSyncTestSessionRequestOrder(t *testing.T) {
	s := rollback.NewSyncTestSession(2)
	g := pong.NewGame()
	var last []rollback.Request
	for f := 0; f < 4; f++ {
		_ = s.AddLocalInput(0, encoded(input.None))
		_ = s.AddLocalInput(1, encoded(input.None))
		reqs, err := s.AdvanceFrame()
		require.NoError(t, err)
		require.NoError(t, g.Handle(reqs))
		last = reqs
	}
	// frame 3: load 1, advance 1, save 2, advance 2, save 3, advance 3
	require.Len(t, last, 6)
	assert.IsType(t, rollback.LoadRequest{}, last[0])
	assert.Equal(t, rollback.Frame(1), last[0].(rollback.LoadRequest).Frame)
	assert.IsType(t, rollback.AdvanceRequest{}, last[1])
	assert.Equal(t, rollback.Frame(2), last[2].(rollback.SaveRequest).Frame)
	assert.Equal(t, rollback.Frame(3), last[4].(rollback.SaveRequest).Frame)
}

type packet struct {
	at  int
	msg any
}

// wire connects two in-memory endpoints with a fixed latency in steps.
type wire struct {
	step    int
	latency int
	cut     bool
	queues  [2][]packet
}

type endpoint struct {
	w    *wire
	side int
}

func (w *wire) end(side int) *endpoint { return &endpoint{w: w, side: side} }

func (e *endpoint) Send(msg any) error {
	if e.w.cut {
		return nil
	}
	other := 1 - e.side
	e.w.queues[other] = append(e.w.queues[other], packet{at: e.w.step + e.w.latency, msg: msg})
	return nil
}

func (e *endpoint) Receive() []any {
	var out []any
	q := e.w.queues[e.side]
	for len(q) > 0 && q[0].at <= e.w.step {
		out = append(out, q[0].msg)
		q = q[1:]
	}
	e.w.queues[e.side] = q
	return out
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type peers struct {
	t        *testing.T
	wire     *wire
	clock    *fakeClock
	sessions [2]*rollback.P2PSession
	games    [2]pong.Game
	events   [2][]rollback.Event
	loads    int
}

func newPeers(t *testing.T, latency int, timeout time.Duration) *peers {
	p := &peers{
		t:     t,
		wire:  &wire{latency: latency},
		clock: &fakeClock{now: time.Unix(1000, 0)},
	}
	for i := range p.sessions {
		cfg := rollback.DefaultP2PConfig()
		cfg.LocalPlayer = i
		cfg.BlankInput = encoded(input.None)
		cfg.Now = p.clock.Now
		cfg.DisconnectTimeout = timeout
		cfg.SessionID = []string{"host", "join"}[i]
		s, err := rollback.NewP2PSession(cfg, p.wire.end(i))
		require.NoError(t, err)
		p.sessions[i] = s
		p.games[i] = pong.NewGame()
	}
	return p
}

// step runs one tick on both peers and returns the AdvanceFrame errors.
func (p *peers) step(inputs func(player int, frame rollback.Frame) input.Input) [2]error {
	var errs [2]error
	for i, s := range p.sessions {
		require.NoError(p.t, s.AddLocalInput(i, encoded(inputs(i, s.CurrentFrame()))))
		reqs, err := s.AdvanceFrame()
		errs[i] = err
		p.events[i] = append(p.events[i], s.Events()...)
		if err != nil {
			continue
		}
		for _, r := range reqs {
			if _, ok := r.(rollback.LoadRequest); ok {
				p.loads++
			}
		}
		require.NoError(p.t, p.games[i].Handle(reqs))
	}
	p.wire.step++
	p.clock.now = p.clock.now.Add(16 * time.Millisecond)
	return errs
}

func (p *peers) synchronize() {
	for i := 0; i < 20; i++ {
		errs := p.step(func(int, rollback.Frame) input.Input { return input.None })
		if errs[0] == nil && errs[1] == nil {
			return
		}
		for _, err := range errs {
			if err != nil {
				require.ErrorIs(p.t, err, rollback.ErrNotSynchronized)
			}
		}
	}
	p.t.Fatal("peers never synchronized")
}

func kinds(events []rollback.Event) []rollback.EventKind {
	var out []rollback.EventKind
	for _, e := range events {
		out = append(out, e.Kind)
	}
	return out
}

func TestP2PSessionRepairsMispredictions(t *testing.T) {
	p := newPeers(t, 3, time.Minute)
	p.synchronize()
	assert.Contains(t, kinds(p.events[0]), rollback.EventSynchronized)
	assert.Contains(t, kinds(p.events[1]), rollback.EventSynchronized)
	assert.Equal(t, "join", p.sessions[0].RemoteSessionID())

	play := func(player int, frame rollback.Frame) input.Input {
		if frame > 400 {
			return input.None
		}
		return scripted(player, int(frame))
	}
	for i := 0; i < 460; i++ {
		errs := p.step(play)
		require.NoError(t, errs[0])
		require.NoError(t, errs[1])
	}

	assert.Positive(t, p.loads, "remote input changes should force rollbacks")
	assert.Equal(t, p.sessions[0].CurrentFrame(), p.sessions[1].CurrentFrame())
	a, err := p.games[0].MarshalBinary()
	require.NoError(t, err)
	b, err := p.games[1].MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.NotContains(t, kinds(p.events[0]), rollback.EventDesync)
	assert.NotContains(t, kinds(p.events[1]), rollback.EventDesync)
}

func TestP2PSessionReportsDesync(t *testing.T) {
	p := newPeers(t, 2, time.Minute)
	p.synchronize()
	for i := 0; i < 150; i++ {
		if i == 10 {
			p.games[1].Scores[0] = 9
		}
		p.step(func(int, rollback.Frame) input.Input { return input.None })
	}
	assert.Contains(t, kinds(p.events[0]), rollback.EventDesync)
	assert.Contains(t, kinds(p.events[1]), rollback.EventDesync)
}

func TestP2PSessionStallsAtPredictionThreshold(t *testing.T) {
	p := newPeers(t, 1, 0)
	p.synchronize()
	p.wire.cut = true
	p.wire.queues = [2][]packet{}

	var stalled bool
	for i := 0; i < 30 && !stalled; i++ {
		errs := p.step(func(int, rollback.Frame) input.Input { return input.Up })
		if errs[0] != nil {
			require.ErrorIs(t, errs[0], rollback.ErrPredictionThreshold)
			assert.True(t, rollback.Recoverable(errs[0]))
			stalled = true
		}
	}
	assert.True(t, stalled)
	before := p.sessions[0].CurrentFrame()
	p.step(func(int, rollback.Frame) input.Input { return input.Up })
	assert.Equal(t, before, p.sessions[0].CurrentFrame(), "a stalled session does not advance")
}

func TestP2PSessionDisconnectsOnSilence(t *testing.T) {
	p := newPeers(t, 1, time.Second)
	p.synchronize()
	p.wire.cut = true
	p.wire.queues = [2][]packet{}
	p.clock.now = p.clock.now.Add(2 * time.Second)

	errs := p.step(func(int, rollback.Frame) input.Input { return input.None })
	assert.ErrorIs(t, errs[0], rollback.ErrDisconnected)
	assert.Contains(t, kinds(p.events[0]), rollback.EventDisconnected)
}

func TestP2PSessionRejectsSamePlayer(t *testing.T) {
	w := &wire{}
	cfg := rollback.DefaultP2PConfig()
	cfg.BlankInput = encoded(input.None)
	a, err := rollback.NewP2PSession(cfg, w.end(0))
	require.NoError(t, err)
	b, err := rollback.NewP2PSession(cfg, w.end(1))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_ = a.AddLocalInput(0, encoded(input.None))
		_ = b.AddLocalInput(0, encoded(input.None))
		_, _ = a.AdvanceFrame()
		_, _ = b.AdvanceFrame()
		w.step++
	}
	_, err = a.AdvanceFrame()
	assert.ErrorIs(t, err, rollback.ErrDisconnected)
	assert.ErrorIs(t, a.AddLocalInput(1, nil), rollback.ErrInvalidPlayer)
}
