package systems

import (
	"fmt"
	"image/color"

	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/fonts"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/yohamta/donburi/ecs"
)

// UpdateHUD advances the score pop and serve flash tweens.
func UpdateHUD(ecs *ecs.ECS) {
	dt := frameSeconds()

	if e, ok := components.Score.First(ecs.World); ok {
		score := components.Score.Get(e)
		for i, tw := range score.Pop {
			if tw == nil {
				continue
			}
			offset, done := tw.Update(dt)
			score.Offset[i] = offset
			if done {
				score.Pop[i] = nil
				score.Offset[i] = 0
			}
		}
	}

	if e, ok := components.Match.First(ecs.World); ok {
		match := components.Match.Get(e)
		if match.ServeFlash != nil {
			alpha, done := match.ServeFlash.Update(dt)
			match.FlashAlpha = alpha
			if done {
				match.ServeFlash = nil
				match.FlashAlpha = 0
			}
		}
	}
}

// DrawScoreboard renders both scores either side of the centre line.
func DrawScoreboard(ecs *ecs.ECS, screen *ebiten.Image) {
	e, ok := components.Score.First(ecs.World)
	if !ok {
		return
	}
	score := components.Score.Get(e)
	face := fonts.Score.Get()
	center := cfg.C.Width / 2

	for i, v := range score.Values {
		s := fmt.Sprintf("%d", v)
		width := text.BoundString(face, s).Dx()
		x := center - cfg.HUD.ScoreOffsetX - width
		if i == 1 {
			x = center + cfg.HUD.ScoreOffsetX
		}
		y := cfg.HUD.ScoreY - int(score.Offset[i])
		text.Draw(screen, s, face, x, y, cfg.PlayerColors[i])
	}
}

func frameSeconds() float32 {
	fps := ebiten.ActualFPS()
	if fps < 1 {
		return 1.0 / 60
	}
	return float32(1 / fps)
}

func mix(a, b color.RGBA, t float32) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float32(x) + (float32(y)-float32(x))*t)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: lerp(a.A, b.A)}
}
