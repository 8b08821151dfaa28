package systems

import (
	"fmt"
	"time"

	"github.com/automoto/p2pong/components"
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/fonts"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text" //nolint:staticcheck // TODO: migrate to text/v2
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/yohamta/donburi/ecs"
)

// UpdateNetStatus toggles the overlay.
func UpdateNetStatus(ecs *ecs.ECS) {
	e, ok := components.NetStatus.First(ecs.World)
	if !ok {
		return
	}
	status := components.NetStatus.Get(e)
	if getOrCreateInput(ecs).State(cfg.ActionToggleNetStatus).JustPressed {
		status.Visible = !status.Visible
	}
}

// RecordSessionEvent folds a session event into the overlay.
func RecordSessionEvent(ecs *ecs.ECS, ev rollback.Event) {
	e, ok := components.NetStatus.First(ecs.World)
	if !ok {
		return
	}
	status := components.NetStatus.Get(e)
	if ev.Kind == rollback.EventDesync {
		status.Desyncs++
	}
	status.Message = ev.String()
}

// SetNetStats stores the per-frame numbers shown by the overlay.
func SetNetStats(ecs *ecs.ECS, frame rollback.Frame, ahead, stalls int, ping time.Duration) {
	e, ok := components.NetStatus.First(ecs.World)
	if !ok {
		return
	}
	status := components.NetStatus.Get(e)
	status.Frame = int32(frame)
	status.FramesAhead = ahead
	status.Stalls = stalls
	status.Ping = ping
}

func DrawNetStatus(ecs *ecs.ECS, screen *ebiten.Image) {
	e, ok := components.NetStatus.First(ecs.World)
	if !ok {
		return
	}
	status := components.NetStatus.Get(e)
	if !status.Visible {
		return
	}

	face := fonts.Small.Get()
	lines := []string{
		fmt.Sprintf("frame %d", status.Frame),
		fmt.Sprintf("ahead %d  stalls %d", status.FramesAhead, status.Stalls),
		fmt.Sprintf("ping %s", status.Ping.Round(time.Millisecond)),
	}
	if status.Message != "" {
		lines = append(lines, status.Message)
	}

	vector.FillRect(screen, 4, 4, 180, float32(14*len(lines)+6), cfg.BlackOverlay, false)
	for i, line := range lines {
		clr := cfg.LightGreen
		if i == len(lines)-1 && status.Desyncs > 0 {
			clr = cfg.LightRed
		}
		text.Draw(screen, line, face, 8, 18+14*i, clr)
	}
}
