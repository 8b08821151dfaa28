package components

import (
	cfg "github.com/automoto/p2pong/config"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// MatchData describes the running match. This is a singleton component.
type MatchData struct {
	Role         cfg.Role
	LocalPlayers []int
	Frame        rollback.Frame
	ServeFlash   *gween.Tween // fades the centre line after each point
	FlashAlpha   float32
}

var Match = donburi.NewComponentType[MatchData]()

// Controls reports whether player is driven by this machine.
func (m *MatchData) Controls(player int) bool {
	for _, p := range m.LocalPlayers {
		if p == player {
			return true
		}
	}
	return false
}
