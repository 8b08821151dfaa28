package components

import (
	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/yohamta/donburi"
)

// PaddleData mirrors one paddle of the blended game state for drawing.
type PaddleData struct {
	Player int
	Rect   gamemath.Rect
}

var Paddle = donburi.NewComponentType[PaddleData]()
