package pong

import "github.com/automoto/p2pong/shared/gamemath"

// Blend interpolates g (current) with previous for display. Positions, bounds,
// velocity and radius are mixed as current*alpha + previous*(1-alpha); frame,
// scores and inputs come from g.
func (g Game) Blend(previous Game, alpha float32) Game {
	out := g
	for i := range out.Paddles {
		out.Paddles[i].Rect = g.Paddles[i].Rect.Lerp(previous.Paddles[i].Rect, alpha)
	}
	out.Ball.Position = g.Ball.Position.Lerp(previous.Ball.Position, alpha)
	out.Ball.Velocity = g.Ball.Velocity.Lerp(previous.Ball.Velocity, alpha)
	out.Ball.Radius = gamemath.Lerp(g.Ball.Radius, previous.Ball.Radius, alpha)
	return out
}
