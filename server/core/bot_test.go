package core

import (
	"testing"
	"time"

	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// observeN feeds the same state enough times to fill the reaction window.
func observeN(b *Bot, g pong.Game, n int) {
	for i := 0; i < n; i++ {
		b.Observe(g)
	}
}

func TestBotWaitsForReactionWindow(t *testing.T) {
	b := NewBot(pong.Player2, BotDifficultyEasy)
	g := pong.NewGame()
	g.Ball.Position.Y = 10

	assert.Equal(t, input.None, b.Poll(pong.Player2))
	observeN(b, g, BotDifficulties[BotDifficultyEasy].ReactionDelay+1)
	assert.Equal(t, input.Up, b.Poll(pong.Player2))
}

func TestBotOnlyDrivesItsPaddle(t *testing.T) {
	b := NewBot(pong.Player2, BotDifficultyHard)
	g := pong.NewGame()
	g.Ball.Position.Y = 10
	observeN(b, g, 10)

	assert.Equal(t, input.None, b.Poll(pong.Player1))
}

func TestBotTracksApproachingBall(t *testing.T) {
	tests := []struct {
		name   string
		ballY  float32
		expect input.Input
	}{
		{"above", 20, input.Up},
		{"below", pong.ScreenHeight - 20, input.Down},
		{"level", pong.ScreenHeight / 2, input.None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBot(pong.Player2, BotDifficultyEasy)
			g := pong.NewGame()
			g.Ball.Position.Y = tt.ballY
			g.Ball.Velocity = gamemath.Vec2{X: 240, Y: 0}
			observeN(b, g, 32)
			assert.Equal(t, tt.expect, b.Poll(pong.Player2))
		})
	}
}

func TestBotCentresWhenBallLeaves(t *testing.T) {
	b := NewBot(pong.Player2, BotDifficultyHard)
	g := pong.NewGame()
	g.Paddles[pong.Player2].Rect.Y = 0
	g.Ball.Velocity = gamemath.Vec2{X: -240, Y: 0}
	observeN(b, g, 5)

	assert.Equal(t, input.Down, b.Poll(pong.Player2))
}

func TestBotLooksAheadToIntercept(t *testing.T) {
	b := NewBot(pong.Player2, BotDifficultyHard)
	g := pong.NewGame()
	// heading down and right: it crosses the paddle line well below the centre
	g.Ball.Position = gamemath.Vec2{X: 600, Y: 200}
	g.Ball.Velocity = gamemath.Vec2{X: 240, Y: 120}
	observeN(b, g, 5)

	target := b.target(g)
	assert.Greater(t, target, float32(pong.ScreenHeight/2))
}

func TestParseDifficulty(t *testing.T) {
	d, ok := ParseDifficulty("hard")
	require.True(t, ok)
	assert.Equal(t, BotDifficultyHard, d)

	_, ok = ParseDifficulty("impossible")
	assert.False(t, ok)
}

func TestGameLoopStops(t *testing.T) {
	ticks := make(chan struct{}, 100)
	l := NewGameLoop(func() {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}, 200)
	go l.Run()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("loop never ticked")
	}

	l.Stop()
	select {
	case <-l.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
	// halting again is harmless
	l.Halt()
}
