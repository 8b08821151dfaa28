package components

import (
	"github.com/tanema/gween"
	"github.com/yohamta/donburi"
)

// ScoreData holds the displayed scores and the pop animation of each.
type ScoreData struct {
	Values [2]uint8
	Pop    [2]*gween.Tween
	Offset [2]float32 // current upward offset of each score, in pixels
}

var Score = donburi.NewComponentType[ScoreData]()
