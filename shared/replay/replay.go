// Package replay records the inputs of a match and re-simulates them.
//
// Files use the protobuf wire format, written with protowire:
//
//	1 version        varint
//	2 session_id     string
//	3 frames         repeated message {1 frame varint; 2 player1 bytes; 3 player2 bytes}
//	4 final_frame    varint
//	5 final_checksum varint
//
// Unknown fields are skipped so newer files stay readable.
package replay

import (
	"errors"
	"fmt"
	"os"

	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/rollback"
)

const FormatVersion = 1

var (
	ErrMalformed = errors.New("replay: malformed recording")
	// ErrMismatch means re-simulating a recording did not reproduce its checksum.
	ErrMismatch = errors.New("replay: re-simulation mismatch")
)

type FrameInputs struct {
	Frame  rollback.Frame
	Inputs [rollback.NumPlayers][]byte
}

type Recording struct {
	Version       uint32
	SessionID     string
	Frames        []FrameInputs
	FinalFrame    rollback.Frame
	FinalChecksum uint16
}

// Recorder collects the inputs of each advanced frame. A frame advanced again
// after a rollback replaces the earlier entry, so once all inputs are confirmed
// the recording holds exactly what both peers simulated.
type Recorder struct {
	sessionID string
	frames    []FrameInputs
}

func NewRecorder(sessionID string) *Recorder {
	return &Recorder{sessionID: sessionID}
}

func (r *Recorder) Record(frame rollback.Frame, inputs [rollback.NumPlayers][]byte) {
	var in [rollback.NumPlayers][]byte
	for p := range inputs {
		in[p] = append([]byte(nil), inputs[p]...)
	}
	switch n := rollback.Frame(len(r.frames)); {
	case frame < 0 || frame > n:
		return
	case frame == n:
		r.frames = append(r.frames, FrameInputs{Frame: frame, Inputs: in})
	default:
		r.frames[frame] = FrameInputs{Frame: frame, Inputs: in}
	}
}

// Len is the number of recorded frames.
func (r *Recorder) Len() int { return len(r.frames) }

// Finish closes the recording at the given final state. Frames recorded past
// final.Frame, e.g. predicted ones, are dropped.
func (r *Recorder) Finish(final pong.Game) (Recording, error) {
	if int(final.Frame) > len(r.frames) {
		return Recording{}, fmt.Errorf("replay: game at frame %d but only %d frames recorded", final.Frame, len(r.frames))
	}
	sum, err := checksum(final)
	if err != nil {
		return Recording{}, err
	}
	return Recording{
		Version:       FormatVersion,
		SessionID:     r.sessionID,
		Frames:        append([]FrameInputs(nil), r.frames[:final.Frame]...),
		FinalFrame:    final.Frame,
		FinalChecksum: sum,
	}, nil
}

// Verify re-simulates rec from a new game and compares the final checksum.
func Verify(rec Recording) error {
	g := pong.NewGame()
	for i, f := range rec.Frames {
		if f.Frame != rollback.Frame(i) {
			return fmt.Errorf("%w: entry %d holds frame %d", ErrMalformed, i, f.Frame)
		}
		if err := g.Handle([]rollback.Request{rollback.AdvanceRequest{Inputs: f.Inputs}}); err != nil {
			return fmt.Errorf("replay frame %d: %w", f.Frame, err)
		}
	}
	if g.Frame != rec.FinalFrame {
		return fmt.Errorf("%w: ended at frame %d, recorded %d", ErrMismatch, g.Frame, rec.FinalFrame)
	}
	sum, err := checksum(g)
	if err != nil {
		return err
	}
	if sum != rec.FinalChecksum {
		return fmt.Errorf("%w: checksum %04x, recorded %04x", ErrMismatch, sum, rec.FinalChecksum)
	}
	return nil
}

func checksum(g pong.Game) (uint16, error) {
	b, err := g.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return pong.Fletcher16(b), nil
}

// WriteFile stores rec at path.
func WriteFile(path string, rec Recording) error {
	return os.WriteFile(path, Marshal(rec), 0o644)
}

// ReadFile loads a recording written by WriteFile.
func ReadFile(path string) (Recording, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Recording{}, err
	}
	return Unmarshal(b)
}
