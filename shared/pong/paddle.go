package pong

import (
	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/automoto/p2pong/shared/input"
)

// Paddle is a player's bat. Its Y stays within [0, ScreenHeight-H] after every
// Update.
type Paddle struct {
	Rect  gamemath.Rect
	Input input.Input
}

// NewPaddle places player's paddle at its fixed offset from the nearest side,
// vertically centred.
func NewPaddle(player int) Paddle {
	x := PaddleOffset
	if player == Player2 {
		x = ScreenWidth - PaddleOffset - PaddleWidth
	}
	return Paddle{
		Rect: gamemath.Rect{
			X: x,
			Y: float32(ScreenHeight-PaddleHeight) / 2,
			W: PaddleWidth,
			H: PaddleHeight,
		},
	}
}

// Update moves the paddle one tick according to its current input.
func (p *Paddle) Update() {
	step := float32(PaddleSpeed * TickTime)
	switch p.Input {
	case input.Up:
		p.Rect.Y -= step
	case input.Down:
		p.Rect.Y += step
	}
	p.Rect.Y = gamemath.Clamp(p.Rect.Y, 0, ScreenHeight-p.Rect.H)
}

// CheckBallCollision reports whether the ball overlaps the paddle and, if so, the
// unit vector from the paddle centre towards the ball centre.
func (p Paddle) CheckBallCollision(b Ball) (gamemath.Vec2, bool) {
	center := p.Rect.Center()
	half := p.Rect.HalfExtents()
	offset := b.Position.Sub(center)
	closest := center.Add(gamemath.Vec2{
		X: gamemath.Clamp(offset.X, -half.X, half.X),
		Y: gamemath.Clamp(offset.Y, -half.Y, half.Y),
	})
	if b.Position.Sub(closest).LengthSquared() >= float32(b.Radius*b.Radius) {
		return gamemath.Vec2{}, false
	}
	dir := offset.Normalize()
	if dir == (gamemath.Vec2{}) {
		dir = p.facing()
	}
	return dir, true
}

// facing points from the paddle towards the middle of the field.
func (p Paddle) facing() gamemath.Vec2 {
	if p.Rect.Center().X < ScreenWidth/2 {
		return gamemath.Vec2{X: 1}
	}
	return gamemath.Vec2{X: -1}
}
