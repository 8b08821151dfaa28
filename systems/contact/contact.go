// Package contact finds what the rendered ball is touching, so the client can
// cue a sound once per hit without peeking at the simulation's collision code.
package contact

import (
	"github.com/automoto/p2pong/shared/pong"
	"github.com/solarlune/resolv"
)

type Kind int

const (
	None Kind = iota
	Paddle
	Wall
)

const (
	tagPaddle = "paddle"
	tagWall   = "wall"
	cellSize  = 16
)

// Tracker keeps one resolv space for the court. Walls are static; the paddles
// and the ball box are moved every frame.
type Tracker struct {
	space    *resolv.Space
	paddles  [2]*resolv.Object
	ball     *resolv.Object
	touching map[*resolv.Object]bool
}

func NewTracker() *Tracker {
	w, h := float64(pong.ScreenWidth), float64(pong.ScreenHeight)
	t := &Tracker{
		space:    resolv.NewSpace(int(w), int(h), cellSize, cellSize),
		touching: make(map[*resolv.Object]bool),
	}
	t.space.Add(
		resolv.NewObject(0, 0, w, 1, tagWall),
		resolv.NewObject(0, h-1, w, 1, tagWall),
	)
	for i := range t.paddles {
		r := pong.NewPaddle(i).Rect
		obj := resolv.NewObject(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), tagPaddle)
		obj.Data = i
		t.paddles[i] = obj
		t.space.Add(obj)
	}
	t.ball = resolv.NewObject(0, 0, 1, 1)
	t.space.Add(t.ball)
	return t
}

// Update moves the paddles and ball to the given state and reports a contact
// that began this frame. A paddle wins over a wall; a contact that carries on
// from the previous frame reports None.
func (t *Tracker) Update(paddles [2]pong.Paddle, ball pong.Ball) Kind {
	for i, obj := range t.paddles {
		obj.X = float64(paddles[i].Rect.X)
		obj.Y = float64(paddles[i].Rect.Y)
		obj.Update()
	}

	// one unit of slack so a blended frame that stops just short still counts
	size := float64(ball.Radius)*2 + 2
	t.ball.X = float64(ball.Position.X-ball.Radius) - 1
	t.ball.Y = float64(ball.Position.Y-ball.Radius) - 1
	t.ball.W, t.ball.H = size, size
	t.ball.Update()

	now := make(map[*resolv.Object]bool, len(t.touching))
	began := None
	if check := t.ball.Check(0, 0, tagPaddle, tagWall); check != nil {
		for _, obj := range check.Objects {
			if !t.ball.Overlaps(obj) {
				continue
			}
			now[obj] = true
			if t.touching[obj] {
				continue
			}
			switch {
			case obj.HasTags(tagPaddle):
				began = Paddle
			case began == None:
				began = Wall
			}
		}
	}
	t.touching = now
	return began
}
