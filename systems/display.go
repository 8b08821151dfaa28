package systems

import (
	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/systems/contact"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// Display copies blended game states into the donburi world. It is the render
// sink of the fixed-step driver; the ECS renderers draw whatever it last wrote.
type Display struct {
	ecs      *ecs.ECS
	contacts *contact.Tracker
}

func NewDisplay(ecs *ecs.ECS) *Display {
	return &Display{ecs: ecs, contacts: contact.NewTracker()}
}

func (d *Display) Render(g pong.Game) {
	w := d.ecs.World

	components.Paddle.Each(w, func(e *donburi.Entry) {
		p := components.Paddle.Get(e)
		p.Rect = g.Paddles[p.Player].Rect
	})

	if e, ok := components.Ball.First(w); ok {
		components.Ball.SetValue(e, components.BallData{Position: g.Ball.Position, Radius: g.Ball.Radius})
	}

	scored := false
	if e, ok := components.Score.First(w); ok {
		score := components.Score.Get(e)
		for i, v := range g.Scores {
			if v != score.Values[i] {
				score.Values[i] = v
				score.Pop[i] = gween.New(cfg.HUD.ScorePopHeight, 0, cfg.HUD.ScorePopDuration, ease.OutBounce)
				scored = true
			}
		}
	}

	d.playSounds(g, scored)

	if e, ok := components.Match.First(w); ok {
		match := components.Match.Get(e)
		// after a rollback the frame may go backwards; the display just follows
		match.Frame = g.Frame
		if scored {
			match.ServeFlash = gween.New(1, 0, cfg.HUD.ServeFlashTime, ease.OutQuad)
		}
	}
}

// playSounds cues one effect per frame. The contact tracker always sees the
// frame so a hit that lands on a scoring frame is not replayed afterwards.
func (d *Display) playSounds(g pong.Game, scored bool) {
	switch began := d.contacts.Update(g.Paddles, g.Ball); {
	case scored:
		PlaySFX(cfg.SoundScore)
	case began == contact.Paddle:
		PlaySFX(cfg.SoundPaddle)
	case began == contact.Wall:
		PlaySFX(cfg.SoundWall)
	}
}
