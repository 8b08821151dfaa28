package rollback

import "fmt"

// SyncTestSession checks a simulation for determinism on a single machine. Every
// tick it loads the state checkDistance frames back, re-simulates up to the
// current frame and compares each re-saved checksum with the first one recorded
// for that frame.
type SyncTestSession struct {
	checkDistance int
	current       Frame
	states        *savedStates
	inputs        [][NumPlayers][]byte
	pending       [NumPlayers][]byte
	added         [NumPlayers]bool
	checksums     map[Frame]uint16
	toCheck       []Frame
}

func NewSyncTestSession(checkDistance int) *SyncTestSession {
	if checkDistance < 0 {
		checkDistance = 0
	}
	return &SyncTestSession{
		checkDistance: checkDistance,
		states:        newSavedStates(checkDistance + 2),
		inputs:        make([][NumPlayers][]byte, checkDistance+2),
		checksums:     make(map[Frame]uint16),
	}
}

func (s *SyncTestSession) AddLocalInput(player int, encoded []byte) error {
	if player < 0 || player >= NumPlayers {
		return fmt.Errorf("%w: %d", ErrInvalidPlayer, player)
	}
	s.pending[player] = encoded
	s.added[player] = true
	return nil
}

func (s *SyncTestSession) AdvanceFrame() ([]Request, error) {
	if err := s.verify(); err != nil {
		return nil, err
	}
	for p, ok := range s.added {
		if !ok {
			return nil, fmt.Errorf("%w: player %d, frame %d", ErrMissingInput, p, s.current)
		}
	}
	s.inputs[int(s.current)%len(s.inputs)] = s.pending
	s.pending = [NumPlayers][]byte{}
	s.added = [NumPlayers]bool{}

	var reqs []Request
	s.toCheck = s.toCheck[:0]
	if start := s.current - Frame(s.checkDistance); s.checkDistance > 0 && start >= 0 {
		cell, ok := s.states.get(start)
		if !ok {
			return nil, fmt.Errorf("rollback: no saved state for frame %d", start)
		}
		reqs = append(reqs, LoadRequest{Frame: start, Cell: cell})
		for f := start; f < s.current; f++ {
			if f > start {
				reqs = append(reqs, SaveRequest{Frame: f, Cell: s.states.slot(f)})
				s.toCheck = append(s.toCheck, f)
			}
			reqs = append(reqs, AdvanceRequest{Inputs: s.inputs[int(f)%len(s.inputs)]})
		}
	}
	reqs = append(reqs,
		SaveRequest{Frame: s.current, Cell: s.states.slot(s.current)},
		AdvanceRequest{Inputs: s.inputs[int(s.current)%len(s.inputs)]},
	)
	s.toCheck = append(s.toCheck, s.current)
	s.current++
	return reqs, nil
}

// verify compares the cells saved by the previous batch with the first checksum
// recorded for each frame.
func (s *SyncTestSession) verify() error {
	for _, f := range s.toCheck {
		cell, ok := s.states.get(f)
		if !ok {
			return fmt.Errorf("rollback: frame %d was not saved", f)
		}
		first, seen := s.checksums[f]
		if !seen {
			s.checksums[f] = cell.Checksum()
			continue
		}
		if first != cell.Checksum() {
			return &ChecksumMismatchError{Frame: f, First: first, Resimmed: cell.Checksum()}
		}
	}
	for f := range s.checksums {
		if f < s.current-Frame(s.checkDistance)-1 {
			delete(s.checksums, f)
		}
	}
	return nil
}

func (s *SyncTestSession) FramesAhead() int    { return 0 }
func (s *SyncTestSession) Events() []Event     { return nil }
func (s *SyncTestSession) CurrentFrame() Frame { return s.current }
func (s *SyncTestSession) LocalPlayers() []int { return []int{0, 1} }
