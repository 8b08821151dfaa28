package loop

import (
	"fmt"
	"log"

	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/rollback"
)

// InputSource reports what a locally controlled player is pressing right now.
type InputSource interface {
	Poll(player int) input.Input
}

// Renderer draws a (blended) game state.
type Renderer interface {
	Render(pong.Game)
}

// InputRecorder receives the inputs of every advanced frame. A frame may be
// reported again after a rollback; the latest report wins.
type InputRecorder interface {
	Record(frame rollback.Frame, inputs [rollback.NumPlayers][]byte)
}

// LocalSimulation is a single machine game: both paddles read the same source.
type LocalSimulation struct {
	game     pong.Game
	input    InputSource
	recorder InputRecorder
}

func NewLocalSimulation(src InputSource, rec InputRecorder) *LocalSimulation {
	return &LocalSimulation{game: pong.NewGame(), input: src, recorder: rec}
}

func (s *LocalSimulation) Tick() error {
	var req rollback.AdvanceRequest
	for p := range req.Inputs {
		enc := input.Encode(s.input.Poll(p))
		req.Inputs[p] = enc[:]
	}
	if s.recorder != nil {
		s.recorder.Record(s.game.Frame, req.Inputs)
	}
	return s.game.Handle([]rollback.Request{req})
}

func (s *LocalSimulation) State() pong.Game { return s.game }
func (s *LocalSimulation) FramesAhead() int { return 0 }

// SessionSimulation runs the game under a rollback session.
type SessionSimulation struct {
	game     pong.Game
	session  rollback.Session
	input    InputSource
	recorder InputRecorder

	// OnEvent receives session events. When nil they are logged.
	OnEvent func(rollback.Event)
}

func NewSessionSimulation(session rollback.Session, src InputSource, rec InputRecorder) *SessionSimulation {
	return &SessionSimulation{
		game:     pong.NewGame(),
		session:  session,
		input:    src,
		recorder: rec,
	}
}

// Tick feeds local input to the session and fulfils its requests. A session
// that cannot advance yet yields ErrStall.
func (s *SessionSimulation) Tick() error {
	for _, p := range s.session.LocalPlayers() {
		enc := input.Encode(s.input.Poll(p))
		if err := s.session.AddLocalInput(p, enc[:]); err != nil {
			return fmt.Errorf("add input for player %d: %w", p, err)
		}
	}
	reqs, err := s.session.AdvanceFrame()
	s.dispatchEvents()
	if rollback.Recoverable(err) {
		return fmt.Errorf("%w: %w", ErrStall, err)
	}
	if err != nil {
		return fmt.Errorf("advance frame %d: %w", s.session.CurrentFrame(), err)
	}
	for _, req := range reqs {
		if adv, ok := req.(rollback.AdvanceRequest); ok && s.recorder != nil {
			s.recorder.Record(s.game.Frame, adv.Inputs)
		}
		if err := s.game.Handle([]rollback.Request{req}); err != nil {
			return err
		}
	}
	return nil
}

func (s *SessionSimulation) dispatchEvents() {
	for _, ev := range s.session.Events() {
		if s.OnEvent != nil {
			s.OnEvent(ev)
			continue
		}
		log.Printf("[session] %s", ev)
	}
}

func (s *SessionSimulation) State() pong.Game          { return s.game }
func (s *SessionSimulation) FramesAhead() int          { return s.session.FramesAhead() }
func (s *SessionSimulation) Session() rollback.Session { return s.session }
