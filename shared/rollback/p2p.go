package rollback

import (
	"fmt"
	"time"

	"github.com/automoto/p2pong/shared/messages"
)

// ProtocolVersion is exchanged in the handshake; peers must match exactly.
const ProtocolVersion = "p2pong/1"

type P2PConfig struct {
	LocalPlayer       int
	InputDelay        int
	MaxPrediction     int
	ChecksumInterval  int
	QualityInterval   int
	TickRate          int
	DisconnectTimeout time.Duration
	SessionID         string
	// BlankInput is the encoded "no input", used for the delay frames and for
	// predictions before the first remote input arrives.
	BlankInput []byte
	Now        func() time.Time
}

func DefaultP2PConfig() P2PConfig {
	return P2PConfig{
		InputDelay:        2,
		MaxPrediction:     8,
		ChecksumInterval:  30,
		QualityInterval:   30,
		TickRate:          60,
		DisconnectTimeout: 3 * time.Second,
		Now:               time.Now,
	}
}

type sessionState int

const (
	stateSynchronizing sessionState = iota
	stateRunning
	stateDisconnected
)

// P2PSession runs one local and one remote player. Remote input is predicted by
// repeating the last confirmed input; when a confirmation disagrees with the
// prediction the next AdvanceFrame rolls back to the first wrong frame.
type P2PSession struct {
	cfg       P2PConfig
	transport Transport
	state     sessionState

	current Frame
	local   int
	remote  int
	queues  [NumPlayers]*inputQueue
	states  *savedStates

	remoteAck       Frame
	remoteSession   string
	localChecksums  map[Frame]uint16
	remoteChecksums map[Frame]uint16
	lastChecksum    Frame
	lastQuality     Frame

	localAdvantage  int32
	remoteAdvantage int32
	rtt             time.Duration

	lastRecv    time.Time
	interrupted bool
	events      []Event
}

func NewP2PSession(cfg P2PConfig, transport Transport) (*P2PSession, error) {
	if cfg.LocalPlayer < 0 || cfg.LocalPlayer >= NumPlayers {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPlayer, cfg.LocalPlayer)
	}
	if cfg.MaxPrediction < 1 {
		return nil, fmt.Errorf("rollback: max prediction must be positive, got %d", cfg.MaxPrediction)
	}
	if cfg.InputDelay < 0 || cfg.InputDelay >= queueLength/2 {
		return nil, fmt.Errorf("rollback: input delay %d out of range", cfg.InputDelay)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	s := &P2PSession{
		cfg:             cfg,
		transport:       transport,
		local:           cfg.LocalPlayer,
		remote:          1 - cfg.LocalPlayer,
		states:          newSavedStates(cfg.MaxPrediction + 2),
		remoteAck:       NullFrame,
		localChecksums:  make(map[Frame]uint16),
		remoteChecksums: make(map[Frame]uint16),
		lastQuality:     NullFrame,
		lastRecv:        cfg.Now(),
	}
	for p := range s.queues {
		s.queues[p] = newInputQueue(cfg.BlankInput)
	}
	for f := 0; f < cfg.InputDelay; f++ {
		s.queues[s.local].add(Frame(f), cfg.BlankInput)
	}
	return s, nil
}

func (s *P2PSession) AddLocalInput(player int, encoded []byte) error {
	if player != s.local {
		return fmt.Errorf("%w: %d is not local", ErrInvalidPlayer, player)
	}
	q := s.queues[s.local]
	target := s.current + Frame(s.cfg.InputDelay)
	if q.lastConfirmed >= target {
		// already registered for this frame, e.g. while stalled
		return nil
	}
	q.add(target, encoded)
	return nil
}

func (s *P2PSession) AdvanceFrame() ([]Request, error) {
	s.poll()
	switch s.state {
	case stateDisconnected:
		return nil, ErrDisconnected
	case stateSynchronizing:
		s.send(s.hello())
		return nil, ErrNotSynchronized
	}

	local, remote := s.queues[s.local], s.queues[s.remote]
	if local.lastConfirmed < s.current {
		return nil, fmt.Errorf("%w: player %d, frame %d", ErrMissingInput, s.local, s.current)
	}
	s.reportChecksums()
	s.sendInputs()
	s.sendQuality()

	if int(s.current-remote.lastConfirmed) > s.cfg.MaxPrediction {
		return nil, ErrPredictionThreshold
	}

	var reqs []Request
	if first := remote.takeIncorrect(); first != NullFrame {
		cell, ok := s.states.get(first)
		if !ok {
			return nil, fmt.Errorf("rollback: no saved state for frame %d (current %d)", first, s.current)
		}
		reqs = append(reqs, LoadRequest{Frame: first, Cell: cell})
		for f := first; f < s.current; f++ {
			if f > first {
				reqs = append(reqs, SaveRequest{Frame: f, Cell: s.states.slot(f)})
			}
			reqs = append(reqs, AdvanceRequest{Inputs: s.inputs(f)})
		}
	}
	reqs = append(reqs,
		SaveRequest{Frame: s.current, Cell: s.states.slot(s.current)},
		AdvanceRequest{Inputs: s.inputs(s.current)},
	)
	s.current++
	return reqs, nil
}

func (s *P2PSession) inputs(f Frame) [NumPlayers][]byte {
	var in [NumPlayers][]byte
	for p, q := range s.queues {
		in[p] = q.get(f)
	}
	return in
}

// FramesAhead is half the difference between the local and remote frame
// advantage, as last exchanged in quality reports.
func (s *P2PSession) FramesAhead() int {
	return int(s.localAdvantage-s.remoteAdvantage) / 2
}

func (s *P2PSession) Events() []Event {
	ev := s.events
	s.events = nil
	return ev
}

func (s *P2PSession) CurrentFrame() Frame { return s.current }
func (s *P2PSession) LocalPlayers() []int { return []int{s.local} }

// ConfirmedFrame is the last frame for which both players' inputs are known.
func (s *P2PSession) ConfirmedFrame() Frame {
	return min(s.queues[0].lastConfirmed, s.queues[1].lastConfirmed)
}

// Ping is the last measured round-trip time.
func (s *P2PSession) Ping() time.Duration { return s.rtt }

// Close tells the peer the session is over.
func (s *P2PSession) Close(reason string) {
	if s.state != stateDisconnected {
		s.send(messages.Goodbye{Reason: reason})
	}
	s.state = stateDisconnected
}

func (s *P2PSession) poll() {
	now := s.cfg.Now()
	msgs := s.transport.Receive()
	if len(msgs) > 0 {
		s.lastRecv = now
		s.interrupted = false
	}
	for _, m := range msgs {
		s.handle(m, now)
	}
	if s.state != stateRunning || s.cfg.DisconnectTimeout <= 0 {
		return
	}
	silent := now.Sub(s.lastRecv)
	switch {
	case silent > s.cfg.DisconnectTimeout:
		s.disconnect(fmt.Sprintf("no message for %s", silent.Round(time.Millisecond)))
	case silent > s.cfg.DisconnectTimeout/2 && !s.interrupted:
		s.interrupted = true
		s.events = append(s.events, Event{Kind: EventNetworkInterrupted, Frame: s.current})
	}
}

func (s *P2PSession) handle(msg any, now time.Time) {
	switch m := msg.(type) {
	case messages.Hello:
		s.handleHello(m)
	case messages.InputBatch:
		remote := s.queues[s.remote]
		for i, data := range m.Inputs {
			remote.add(Frame(m.StartFrame)+Frame(i), data)
		}
		if Frame(m.AckFrame) > s.remoteAck {
			s.remoteAck = Frame(m.AckFrame)
		}
	case messages.ChecksumReport:
		s.remoteChecksums[Frame(m.Frame)] = m.Checksum
		s.compareChecksums()
	case messages.QualityReport:
		s.remoteAdvantage = m.FrameAdvantage
		s.send(messages.QualityReply{SentAt: m.SentAt})
	case messages.QualityReply:
		s.rtt = now.Sub(time.UnixMilli(m.SentAt))
	case messages.Goodbye:
		s.disconnect("peer left: " + m.Reason)
	}
}

func (s *P2PSession) handleHello(m messages.Hello) {
	switch {
	case m.Version != ProtocolVersion:
		s.reject(fmt.Sprintf("protocol mismatch: %q", m.Version))
		return
	case m.Player != s.remote:
		s.reject(fmt.Sprintf("peer claims player %d, expected %d", m.Player, s.remote))
		return
	case m.InputDelay != s.cfg.InputDelay:
		s.reject(fmt.Sprintf("input delay mismatch: local %d remote %d", s.cfg.InputDelay, m.InputDelay))
		return
	}
	if s.state != stateSynchronizing {
		return
	}
	s.remoteSession = m.SessionID
	s.state = stateRunning
	s.lastRecv = s.cfg.Now()
	// the peer may have missed our earlier hellos
	s.send(s.hello())
	s.events = append(s.events, Event{Kind: EventSynchronized, Frame: s.current})
}

func (s *P2PSession) hello() messages.Hello {
	return messages.Hello{
		Version:    ProtocolVersion,
		SessionID:  s.cfg.SessionID,
		Player:     s.local,
		InputDelay: s.cfg.InputDelay,
	}
}

// RemoteSessionID is the id the peer sent in its hello.
func (s *P2PSession) RemoteSessionID() string { return s.remoteSession }

// reject ends a handshake the peer cannot join and tells it why.
func (s *P2PSession) reject(reason string) {
	s.send(messages.Goodbye{Reason: reason})
	s.disconnect(reason)
}

func (s *P2PSession) disconnect(reason string) {
	if s.state == stateDisconnected {
		return
	}
	s.state = stateDisconnected
	s.events = append(s.events, Event{Kind: EventDisconnected, Frame: s.current, Reason: reason})
}

func (s *P2PSession) send(msg any) {
	if err := s.transport.Send(msg); err != nil && !s.interrupted {
		s.interrupted = true
		s.events = append(s.events, Event{Kind: EventNetworkInterrupted, Frame: s.current, Reason: err.Error()})
	}
}

func (s *P2PSession) sendInputs() {
	local := s.queues[s.local]
	start := s.remoteAck + 1
	if oldest := local.lastConfirmed - queueLength + 1; start < oldest {
		start = oldest
	}
	if start > local.lastConfirmed {
		return
	}
	batch := messages.InputBatch{
		StartFrame: int32(start),
		AckFrame:   int32(s.queues[s.remote].lastConfirmed),
	}
	for f := start; f <= local.lastConfirmed; f++ {
		data, ok := local.confirmed(f)
		if !ok {
			break
		}
		batch.Inputs = append(batch.Inputs, data)
	}
	s.send(batch)
}

func (s *P2PSession) sendQuality() {
	if s.cfg.QualityInterval <= 0 || int(s.current)%s.cfg.QualityInterval != 0 || s.current == s.lastQuality {
		return
	}
	s.lastQuality = s.current
	tick := time.Second / time.Duration(s.cfg.TickRate)
	remoteEstimate := s.queues[s.remote].lastConfirmed - Frame(s.cfg.InputDelay) + Frame(s.rtt/tick/2)
	s.localAdvantage = int32(s.current - remoteEstimate)
	s.send(messages.QualityReport{FrameAdvantage: s.localAdvantage, SentAt: s.cfg.Now().UnixMilli()})
	if ahead := s.FramesAhead(); ahead > 2 {
		s.events = append(s.events, Event{Kind: EventWaitRecommendation, Frame: s.current, SkipFrames: ahead})
	}
}

// reportChecksums publishes the checksum of every confirmed interval frame whose
// saved state is final: all inputs before it are confirmed and no pending
// rollback reaches back past it.
func (s *P2PSession) reportChecksums() {
	if s.cfg.ChecksumInterval <= 0 {
		return
	}
	remote := s.queues[s.remote]
	limit := min(remote.lastConfirmed+1, s.current-1)
	if remote.firstIncorrect != NullFrame && remote.firstIncorrect < limit {
		limit = remote.firstIncorrect
	}
	interval := Frame(s.cfg.ChecksumInterval)
	for f := (s.lastChecksum/interval + 1) * interval; f <= limit; f += interval {
		cell, ok := s.states.get(f)
		if !ok {
			s.lastChecksum = f
			continue
		}
		s.localChecksums[f] = cell.Checksum()
		s.lastChecksum = f
		s.send(messages.ChecksumReport{Frame: int32(f), Checksum: cell.Checksum()})
	}
	s.compareChecksums()
}

func (s *P2PSession) compareChecksums() {
	for f, local := range s.localChecksums {
		remote, ok := s.remoteChecksums[f]
		if !ok {
			continue
		}
		if local != remote {
			s.events = append(s.events, Event{Kind: EventDesync, Frame: f, LocalChecksum: local, RemoteChecksum: remote})
		}
		delete(s.localChecksums, f)
		delete(s.remoteChecksums, f)
	}
}
