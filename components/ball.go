package components

import (
	"github.com/automoto/p2pong/shared/gamemath"
	"github.com/yohamta/donburi"
)

type BallData struct {
	Position gamemath.Vec2
	Radius   float32
}

var Ball = donburi.NewComponentType[BallData]()
