// Package pong is the deterministic two-player simulation. A Game is a plain value:
// copying it copies the whole world, and Advance reads nothing but its arguments.
package pong

import (
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/rollback"
)

type Game struct {
	Frame   rollback.Frame
	Scores  [2]uint8
	Paddles [2]Paddle
	Ball    Ball
}

func NewGame() Game {
	return Game{
		Paddles: [2]Paddle{NewPaddle(Player1), NewPaddle(Player2)},
		Ball:    NewBall(),
	}
}

// Advance runs one tick with the given per-player inputs. Scores wrap on overflow.
func (g *Game) Advance(inputs [2]input.Input) {
	for i := range g.Paddles {
		g.Paddles[i].Input = inputs[i]
		g.Paddles[i].Update()
	}
	if scorer, ok := g.Ball.Update(&g.Paddles); ok {
		g.Scores[scorer]++
	}
	g.Frame++
}
