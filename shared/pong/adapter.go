package pong

import (
	"errors"
	"fmt"

	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/rollback"
)

var (
	// ErrFrameMismatch means the scheduler and the game disagree on the current
	// frame. The session cannot continue.
	ErrFrameMismatch = errors.New("pong: frame mismatch")
	// ErrEmptyCell is returned for a LoadRequest on a cell that was never saved.
	ErrEmptyCell = errors.New("pong: load from empty cell")
)

// Handle fulfils the requests strictly in order and stops at the first error.
func (g *Game) Handle(requests []rollback.Request) error {
	for _, req := range requests {
		if err := g.handle(req); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) handle(req rollback.Request) error {
	switch r := req.(type) {
	case rollback.SaveRequest:
		return g.save(r)
	case rollback.LoadRequest:
		return g.load(r)
	case rollback.AdvanceRequest:
		return g.advance(r)
	default:
		return fmt.Errorf("pong: unknown request %T", req)
	}
}

func (g *Game) save(r rollback.SaveRequest) error {
	if r.Frame != g.Frame {
		return fmt.Errorf("%w: save for frame %d, game at %d", ErrFrameMismatch, r.Frame, g.Frame)
	}
	buf, err := g.MarshalBinary()
	if err != nil {
		return err
	}
	r.Cell.Save(rollback.Snapshot{Frame: g.Frame, Buffer: buf, Checksum: Fletcher16(buf)})
	return nil
}

func (g *Game) load(r rollback.LoadRequest) error {
	snap, ok := r.Cell.Load()
	if !ok {
		return fmt.Errorf("%w: frame %d", ErrEmptyCell, r.Frame)
	}
	if err := g.UnmarshalBinary(snap.Buffer); err != nil {
		return fmt.Errorf("load frame %d: %w", r.Frame, err)
	}
	return nil
}

func (g *Game) advance(r rollback.AdvanceRequest) error {
	var inputs [2]input.Input
	for p, data := range r.Inputs {
		in, err := input.Decode(data)
		if err != nil {
			return fmt.Errorf("advance frame %d, player %d: %w", g.Frame, p, err)
		}
		inputs[p] = in
	}
	g.Advance(inputs)
	return nil
}
