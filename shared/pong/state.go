package pong

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/rollback"
)

const (
	// StateVersion is the first byte of every serialized Game.
	StateVersion byte = 1

	paddleSize = 4*4 + input.Size
	ballSize   = 5 * 4
	// StateSize is the length of a serialized Game.
	StateSize = 1 + 4 + 2 + 2*paddleSize + ballSize
)

// ErrCorruptSnapshot is returned when a buffer cannot be decoded into a Game.
var ErrCorruptSnapshot = errors.New("pong: corrupt snapshot")

// MarshalBinary writes the Game field by field, little endian, after a version byte.
func (g Game) MarshalBinary() ([]byte, error) {
	return g.AppendBinary(make([]byte, 0, StateSize))
}

// AppendBinary appends the serialized Game to b.
func (g Game) AppendBinary(b []byte) ([]byte, error) {
	b = append(b, StateVersion)
	b = binary.LittleEndian.AppendUint32(b, uint32(g.Frame))
	b = append(b, g.Scores[0], g.Scores[1])
	for _, p := range g.Paddles {
		b = appendRect(b, p.Rect)
		enc := input.Encode(p.Input)
		b = append(b, enc[:]...)
	}
	b = appendFloat(b, g.Ball.Position.X)
	b = appendFloat(b, g.Ball.Position.Y)
	b = appendFloat(b, g.Ball.Velocity.X)
	b = appendFloat(b, g.Ball.Velocity.Y)
	b = appendFloat(b, g.Ball.Radius)
	return b, nil
}

// UnmarshalBinary replaces the whole Game. g is left untouched on error.
func (g *Game) UnmarshalBinary(data []byte) error {
	if len(data) != StateSize {
		return fmt.Errorf("%w: %d bytes, want %d", ErrCorruptSnapshot, len(data), StateSize)
	}
	if data[0] != StateVersion {
		return fmt.Errorf("%w: version %d, want %d", ErrCorruptSnapshot, data[0], StateVersion)
	}
	r := reader{buf: data[1:]}
	var out Game
	out.Frame = rollback.Frame(int32(r.uint32()))
	out.Scores[0], out.Scores[1] = r.byte(), r.byte()
	for i := range out.Paddles {
		out.Paddles[i].Rect = r.rect()
		in, err := input.Decode(r.bytes(input.Size))
		if err != nil {
			return fmt.Errorf("%w: paddle %d: %w", ErrCorruptSnapshot, i, err)
		}
		out.Paddles[i].Input = in
	}
	out.Ball.Position = gamemath.Vec2{X: r.float(), Y: r.float()}
	out.Ball.Velocity = gamemath.Vec2{X: r.float(), Y: r.float()}
	out.Ball.Radius = r.float()
	*g = out
	return nil
}

func appendFloat(b []byte, f float32) []byte {
	return binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
}

func appendRect(b []byte, r gamemath.Rect) []byte {
	b = appendFloat(b, r.X)
	b = appendFloat(b, r.Y)
	b = appendFloat(b, r.W)
	return appendFloat(b, r.H)
}

// reader walks a buffer whose length was checked up front.
type reader struct {
	buf []byte
}

func (r *reader) bytes(n int) []byte {
	b := r.buf[:n]
	r.buf = r.buf[n:]
	return b
}

func (r *reader) byte() byte {
	return r.bytes(1)[0]
}

func (r *reader) uint32() uint32 {
	return binary.LittleEndian.Uint32(r.bytes(4))
}

func (r *reader) float() float32 {
	return math.Float32frombits(r.uint32())
}

func (r *reader) rect() gamemath.Rect {
	return gamemath.Rect{X: r.float(), Y: r.float(), W: r.float(), H: r.float()}
}
