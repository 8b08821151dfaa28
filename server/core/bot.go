package core

import (
	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/pong"
)

// BotDifficulty affects reaction time and aim
type BotDifficulty int

const (
	BotDifficultyEasy BotDifficulty = iota
	BotDifficultyNormal
	BotDifficultyHard
)

// BotDifficultyConfig holds tuning values for bot behavior at a specific difficulty
type BotDifficultyConfig struct {
	ReactionDelay int     // Frames between seeing the ball and reacting
	DeadZone      float32 // Distance from the target the paddle tolerates
	LookAhead     int     // Ticks simulated ahead to find the intercept; 0 tracks the ball
}

// BotDifficulties holds the tuning for every difficulty
var BotDifficulties = map[BotDifficulty]BotDifficultyConfig{
	BotDifficultyEasy: {
		ReactionDelay: 20, // a third of a second
		DeadZone:      24,
	},
	BotDifficultyNormal: {
		ReactionDelay: 10,
		DeadZone:      12,
		LookAhead:     60,
	},
	BotDifficultyHard: {
		ReactionDelay: 2,
		DeadZone:      6,
		LookAhead:     180,
	},
}

func ParseDifficulty(s string) (BotDifficulty, bool) {
	switch s {
	case "easy":
		return BotDifficultyEasy, true
	case "normal":
		return BotDifficultyNormal, true
	case "hard":
		return BotDifficultyHard, true
	}
	return BotDifficultyNormal, false
}

// Bot steers one paddle towards where the ball is heading. It implements
// loop.InputSource; Observe must be called with each new state.
type Bot struct {
	player int
	tuning BotDifficultyConfig

	history []pong.Game
	next    int
	seen    int
}

func NewBot(player int, difficulty BotDifficulty) *Bot {
	tuning, ok := BotDifficulties[difficulty]
	if !ok {
		tuning = BotDifficulties[BotDifficultyNormal]
	}
	return &Bot{
		player:  player,
		tuning:  tuning,
		history: make([]pong.Game, tuning.ReactionDelay+1),
	}
}

// Observe records the latest simulated state.
func (b *Bot) Observe(g pong.Game) {
	b.history[b.next] = g
	b.next = (b.next + 1) % len(b.history)
	b.seen++
}

func (b *Bot) Poll(player int) input.Input {
	if player != b.player || b.seen < len(b.history) {
		return input.None
	}
	// the oldest entry is ReactionDelay observations old
	g := b.history[b.next]

	paddle := g.Paddles[b.player]
	centre := paddle.Rect.Center().Y
	target := b.target(g)

	switch {
	case target < centre-b.tuning.DeadZone:
		return input.Up
	case target > centre+b.tuning.DeadZone:
		return input.Down
	}
	return input.None
}

// target is the height the paddle should move to.
func (b *Bot) target(g pong.Game) float32 {
	if !b.approaching(g.Ball) {
		return pong.ScreenHeight / 2
	}
	if b.tuning.LookAhead == 0 {
		return g.Ball.Position.Y
	}

	// Run a copy of the game with idle paddles until the ball reaches our side.
	edge := g.Paddles[b.player].Rect.X
	if b.player == pong.Player1 {
		edge += g.Paddles[b.player].Rect.W
	}
	sim := g
	for i := 0; i < b.tuning.LookAhead; i++ {
		scores := sim.Scores
		sim.Advance([2]input.Input{})
		if sim.Scores != scores || !b.approaching(sim.Ball) {
			break
		}
		if b.reached(sim.Ball, edge) {
			return sim.Ball.Position.Y
		}
	}
	return sim.Ball.Position.Y
}

func (b *Bot) approaching(ball pong.Ball) bool {
	if b.player == pong.Player1 {
		return ball.Velocity.X < 0
	}
	return ball.Velocity.X > 0
}

func (b *Bot) reached(ball pong.Ball, edge float32) bool {
	if b.player == pong.Player1 {
		return ball.Position.X-ball.Radius <= edge
	}
	return ball.Position.X+ball.Radius >= edge
}
