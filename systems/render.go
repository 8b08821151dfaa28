package systems

import (
	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// DrawField clears the screen and draws the dashed centre line. The line
// brightens briefly after every point.
func DrawField(ecs *ecs.ECS, screen *ebiten.Image) {
	screen.Fill(cfg.Background)

	lineColor := cfg.Dim
	if e, ok := components.Match.First(ecs.World); ok {
		if a := components.Match.Get(e).FlashAlpha; a > 0 {
			lineColor = mix(cfg.Dim, cfg.White, a)
		}
	}

	x := float32(cfg.C.Width) / 2
	dash := cfg.HUD.CenterDash
	for y := float32(0); y < float32(cfg.C.Height); y += dash * 2 {
		vector.FillRect(screen, x-1, y, 2, dash, lineColor, false)
	}
}

func DrawPaddles(ecs *ecs.ECS, screen *ebiten.Image) {
	components.Paddle.Each(ecs.World, func(e *donburi.Entry) {
		p := components.Paddle.Get(e)
		vector.FillRect(screen, p.Rect.X, p.Rect.Y, p.Rect.W, p.Rect.H, cfg.PlayerColors[p.Player%2], false)
	})
}

func DrawBall(ecs *ecs.ECS, screen *ebiten.Image) {
	e, ok := components.Ball.First(ecs.World)
	if !ok {
		return
	}
	b := components.Ball.Get(e)
	vector.FillCircle(screen, b.Position.X, b.Position.Y, b.Radius, cfg.White, true)
}
