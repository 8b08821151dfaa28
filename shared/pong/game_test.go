package pong

import (
	"errors"
	"math"
	"testing"

	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scripted returns a repeatable, varied input pattern.
func scripted(player, frame int) input.Input {
	return input.Input((frame/11 + frame/17 + player*2) % 3)
}

func run(g *Game, from, to int) {
	for f := from; f < to; f++ {
		g.Advance([2]input.Input{scripted(0, f), scripted(1, f)})
	}
}

func mustMarshal(t *testing.T, g Game) []byte {
	t.Helper()
	b, err := g.MarshalBinary()
	require.NoError(t, err)
	return b
}

func TestNewGame(t *testing.T) {
	g := NewGame()
	assert.Equal(t, rollback.Frame(0), g.Frame)
	assert.Equal(t, [2]uint8{}, g.Scores)
	assert.Equal(t, float32(20), g.Paddles[0].Rect.X)
	assert.Equal(t, float32(770), g.Paddles[1].Rect.X)
	assert.Equal(t, float32(160), g.Paddles[0].Rect.Y)
	assert.Equal(t, gamemath.Vec2{X: 400, Y: 200}, g.Ball.Position)
	assert.Equal(t, gamemath.Vec2{X: 240, Y: 120}, g.Ball.Velocity)
}

func TestDeterminism(t *testing.T) {
	a, b := NewGame(), NewGame()
	run(&a, 0, 2000)
	run(&b, 0, 2000)
	assert.Equal(t, mustMarshal(t, a), mustMarshal(t, b))
	assert.Equal(t, rollback.Frame(2000), a.Frame)
}

func TestRestoreAndResimulate(t *testing.T) {
	g := NewGame()
	run(&g, 0, 300)
	saved := mustMarshal(t, g)
	run(&g, 300, 600)
	want := mustMarshal(t, g)

	require.NoError(t, g.UnmarshalBinary(saved))
	assert.Equal(t, rollback.Frame(300), g.Frame)
	run(&g, 300, 600)
	assert.Equal(t, want, mustMarshal(t, g))
}

func TestStateLayout(t *testing.T) {
	g := NewGame()
	g.Frame = 0x01020304
	g.Scores = [2]uint8{7, 250}
	g.Paddles[1].Input = input.Down
	b := mustMarshal(t, g)
	require.Len(t, b, StateSize)
	assert.Equal(t, 61, StateSize)
	assert.Equal(t, StateVersion, b[0])
	assert.Equal(t, []byte{4, 3, 2, 1}, b[1:5])
	assert.Equal(t, []byte{7, 250}, b[5:7])
	assert.Equal(t, byte(input.Down), b[7+paddleSize+16])
}

func TestStateRoundTripKeepsNaNPayload(t *testing.T) {
	g := NewGame()
	run(&g, 0, 50)
	g.Ball.Velocity.Y = math.Float32frombits(0x7fc0abcd)
	b := mustMarshal(t, g)

	var out Game
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, b, mustMarshal(t, out))
	assert.Equal(t, uint32(0x7fc0abcd), math.Float32bits(out.Ball.Velocity.Y))
}

func TestUnmarshalRejectsCorruptBuffers(t *testing.T) {
	good := mustMarshal(t, NewGame())
	badVersion := append([]byte(nil), good...)
	badVersion[0] = 99
	badInput := append([]byte(nil), good...)
	badInput[7+16] = 0xff

	cases := map[string][]byte{
		"empty":         nil,
		"short":         good[:StateSize-1],
		"long":          append(append([]byte(nil), good...), 0),
		"version":       badVersion,
		"invalid input": badInput,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			g := NewGame()
			g.Frame = 42
			err := g.UnmarshalBinary(data)
			assert.ErrorIs(t, err, ErrCorruptSnapshot)
			assert.Equal(t, rollback.Frame(42), g.Frame)
		})
	}
}

func TestFletcher16(t *testing.T) {
	assert.Equal(t, uint16(0x0A06), Fletcher16([]byte{1, 2, 3}))
	assert.Equal(t, uint16(2566), Fletcher16([]byte{1, 2, 3}))
	assert.Equal(t, uint16(0), Fletcher16(nil))
	assert.Equal(t, uint16(0), Fletcher16([]byte{255, 255}))
}

func TestPaddleStaysInBounds(t *testing.T) {
	p := NewPaddle(Player1)
	p.Input = input.Up
	for i := 0; i < 100; i++ {
		p.Update()
		assert.GreaterOrEqual(t, p.Rect.Y, float32(0))
	}
	assert.Equal(t, float32(0), p.Rect.Y)

	p.Input = input.Down
	for i := 0; i < 200; i++ {
		p.Update()
		assert.LessOrEqual(t, p.Rect.Y, ScreenHeight-PaddleHeight)
	}
	assert.Equal(t, ScreenHeight-PaddleHeight, p.Rect.Y)

	p.Input = input.None
	p.Update()
	assert.Equal(t, ScreenHeight-PaddleHeight, p.Rect.Y)
}

func TestPaddleMovesOneStepPerTick(t *testing.T) {
	p := NewPaddle(Player2)
	p.Input = input.Up
	p.Update()
	assert.InDelta(t, 155, p.Rect.Y, 1e-4)
}

func TestScoring(t *testing.T) {
	t.Run("left wall scores for player 2", func(t *testing.T) {
		g := NewGame()
		g.Ball.Position = gamemath.Vec2{X: 3, Y: 100}
		g.Ball.Velocity = gamemath.Vec2{X: -300, Y: 50}
		g.Advance([2]input.Input{})
		assert.Equal(t, [2]uint8{0, 1}, g.Scores)
		assert.Equal(t, gamemath.Vec2{X: 400, Y: 200}, g.Ball.Position)
		assert.Equal(t, gamemath.Vec2{X: 240, Y: 120}, g.Ball.Velocity)
	})
	t.Run("right wall scores for player 1", func(t *testing.T) {
		g := NewGame()
		g.Ball.Position = gamemath.Vec2{X: 797, Y: 100}
		g.Advance([2]input.Input{})
		assert.Equal(t, [2]uint8{1, 0}, g.Scores)
		assert.Equal(t, gamemath.Vec2{X: 400, Y: 200}, g.Ball.Position)
		assert.Equal(t, gamemath.Vec2{X: -240, Y: -120}, g.Ball.Velocity)
	})
	t.Run("scores wrap", func(t *testing.T) {
		g := NewGame()
		g.Scores[0] = 255
		g.Ball.Position = gamemath.Vec2{X: 799, Y: 100}
		g.Advance([2]input.Input{})
		assert.Equal(t, uint8(0), g.Scores[0])
	})
	t.Run("top wall wins over goal", func(t *testing.T) {
		g := NewGame()
		g.Ball.Position = gamemath.Vec2{X: 2, Y: 2}
		g.Ball.Velocity = gamemath.Vec2{X: -100, Y: -100}
		g.Advance([2]input.Input{})
		assert.Equal(t, [2]uint8{}, g.Scores)
		assert.Greater(t, g.Ball.Velocity.Y, float32(0))
	})
}

func TestWallBounceKeepsSpeedAndAccelerates(t *testing.T) {
	b := NewBall()
	b.Position = gamemath.Vec2{X: 400, Y: 396}
	b.Velocity = gamemath.Vec2{X: 100, Y: 100}
	before := b.Velocity.Length()
	paddles := [2]Paddle{NewPaddle(Player1), NewPaddle(Player2)}

	_, scored := b.Update(&paddles)
	assert.False(t, scored)
	assert.Less(t, b.Velocity.Y, float32(0))
	assert.InDelta(t, before*SpeedIncrease, b.Velocity.Length(), 1e-3)
}

func TestPaddleHitReflectsAndAccelerates(t *testing.T) {
	paddles := [2]Paddle{NewPaddle(Player1), NewPaddle(Player2)}
	b := NewBall()
	b.Position = gamemath.Vec2{X: 34, Y: 200}
	b.Velocity = gamemath.Vec2{X: -200, Y: 0}

	_, scored := b.Update(&paddles)
	assert.False(t, scored)
	assert.InDelta(t, 210, b.Velocity.X, 1e-3)
	assert.InDelta(t, 0, b.Velocity.Y, 1e-6)
}

func TestOffCentrePaddleHitKeepsSpeedAlongCentreLine(t *testing.T) {
	paddles := [2]Paddle{NewPaddle(Player1), NewPaddle(Player2)}
	b := NewBall()
	// near the top of the left paddle, moving up and left
	b.Position = gamemath.Vec2{X: 33, Y: 165}
	b.Velocity = gamemath.Vec2{X: -150, Y: -150}
	speed := b.Velocity.Length()
	want := b.Position.Sub(paddles[Player1].Rect.Center()).Normalize()

	_, scored := b.Update(&paddles)
	require.False(t, scored)

	assert.InDelta(t, speed*SpeedIncrease, b.Velocity.Length(), 1e-3)
	got := b.Velocity.Normalize()
	assert.InDelta(t, want.X, got.X, 1e-5)
	assert.InDelta(t, want.Y, got.Y, 1e-5)
	assert.Greater(t, got.X, float32(0), "ball leaves towards the right")
}

func TestCheckBallCollision(t *testing.T) {
	p := NewPaddle(Player1)
	b := NewBall()

	b.Position = gamemath.Vec2{X: 35, Y: 200}
	_, hit := p.CheckBallCollision(b)
	assert.False(t, hit, "distance equal to radius is not a hit")

	b.Position = gamemath.Vec2{X: 25, Y: 200}
	dir, hit := p.CheckBallCollision(b)
	assert.True(t, hit)
	assert.Equal(t, gamemath.Vec2{X: 1}, dir)

	right := NewPaddle(Player2)
	b.Position = right.Rect.Center()
	dir, hit = right.CheckBallCollision(b)
	assert.True(t, hit)
	assert.Equal(t, gamemath.Vec2{X: -1}, dir)
}

func TestBlend(t *testing.T) {
	prev := NewGame()
	cur := prev
	run(&cur, 0, 10)
	cur.Scores = [2]uint8{3, 4}

	assert.Equal(t, cur, cur.Blend(prev, 1))

	zero := cur.Blend(prev, 0)
	assert.Equal(t, prev.Ball.Position, zero.Ball.Position)
	assert.Equal(t, prev.Paddles[0].Rect, zero.Paddles[0].Rect)
	assert.Equal(t, cur.Frame, zero.Frame)
	assert.Equal(t, cur.Scores, zero.Scores)
	assert.Equal(t, cur.Paddles[1].Input, zero.Paddles[1].Input)
}

func encoded(in input.Input) []byte {
	e := input.Encode(in)
	return e[:]
}

func TestHandle(t *testing.T) {
	g := NewGame()
	var cell rollback.Cell
	advance := rollback.AdvanceRequest{Inputs: [2][]byte{encoded(input.Up), encoded(input.Down)}}

	require.NoError(t, g.Handle([]rollback.Request{
		rollback.SaveRequest{Frame: 0, Cell: &cell},
		advance,
		advance,
	}))
	assert.Equal(t, rollback.Frame(2), g.Frame)
	assert.Equal(t, rollback.Frame(0), cell.Frame())
	snap, ok := cell.Load()
	require.True(t, ok)
	assert.Equal(t, Fletcher16(snap.Buffer), cell.Checksum())

	require.NoError(t, g.Handle([]rollback.Request{rollback.LoadRequest{Frame: 0, Cell: &cell}}))
	assert.Equal(t, NewGame(), g)
}

func TestHandleErrors(t *testing.T) {
	g := NewGame()
	var cell rollback.Cell

	err := g.Handle([]rollback.Request{rollback.SaveRequest{Frame: 3, Cell: &cell}})
	assert.ErrorIs(t, err, ErrFrameMismatch)

	err = g.Handle([]rollback.Request{rollback.LoadRequest{Frame: 0, Cell: &cell}})
	assert.ErrorIs(t, err, ErrEmptyCell)

	err = g.Handle([]rollback.Request{rollback.AdvanceRequest{Inputs: [2][]byte{{7}, encoded(input.None)}}})
	assert.ErrorIs(t, err, input.ErrDecode)
	var de *input.DecodeError
	assert.True(t, errors.As(err, &de))
	assert.Equal(t, rollback.Frame(0), g.Frame)
}
