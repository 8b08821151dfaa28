package rollback

import "fmt"

// LocalSession drives a game where both players sit at the same machine. It never
// saves or rolls back.
type LocalSession struct {
	current Frame
	pending [NumPlayers][]byte
	added   [NumPlayers]bool
}

func NewLocalSession() *LocalSession {
	return &LocalSession{}
}

func (s *LocalSession) AddLocalInput(player int, encoded []byte) error {
	if player < 0 || player >= NumPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	s.pending[player] = encoded
	s.added[player] = true
	return nil
}

func (s *LocalSession) AdvanceFrame() ([]Request, error) {
	for p, ok := range s.added {
		if !ok {
			return nil, fmt.Errorf("%w: player %d, frame %d", ErrMissingInput, p, s.current)
		}
	}
	req := AdvanceRequest{Inputs: s.pending}
	s.pending = [NumPlayers][]byte{}
	s.added = [NumPlayers]bool{}
	s.current++
	return []Request{req}, nil
}

func (s *LocalSession) FramesAhead() int    { return 0 }
func (s *LocalSession) Events() []Event     { return nil }
func (s *LocalSession) CurrentFrame() Frame { return s.current }
func (s *LocalSession) LocalPlayers() []int { return []int{0, 1} }
