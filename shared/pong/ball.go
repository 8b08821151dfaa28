package pong

import "github.com/automoto/p2pong/shared/gamemath"

type Ball struct {
	Position gamemath.Vec2
	Velocity gamemath.Vec2
	Radius   float32
}

// NewBall returns a ball at the centre of the field with the serve velocity.
func NewBall() Ball {
	return Ball{
		Position: gamemath.Vec2{X: ScreenWidth / 2, Y: ScreenHeight / 2},
		Velocity: ServeVelocity(),
		Radius:   BallRadius,
	}
}

// ServeVelocity is the velocity after a reset, heading right and down.
func ServeVelocity() gamemath.Vec2 {
	return gamemath.Vec2{X: ServeSpeedX, Y: ServeSpeedY}
}

type collisionKind uint8

const (
	collisionNone collisionKind = iota
	collisionWall
	collisionLeftGoal
	collisionRightGoal
	collisionPaddle
)

type collision struct {
	kind   collisionKind
	normal gamemath.Vec2
}

// detect returns the first matching collision, in priority order: top or bottom
// wall, left wall, right wall, paddle 0, paddle 1.
func (b Ball) detect(paddles *[2]Paddle) collision {
	r := b.Radius
	switch {
	case b.Position.Y-r <= 0 || b.Position.Y+r >= ScreenHeight:
		return collision{kind: collisionWall}
	case b.Position.X-r <= 0:
		return collision{kind: collisionLeftGoal}
	case b.Position.X+r >= ScreenWidth:
		return collision{kind: collisionRightGoal}
	}
	for i := range paddles {
		if dir, ok := paddles[i].CheckBallCollision(b); ok {
			return collision{kind: collisionPaddle, normal: dir}
		}
	}
	return collision{kind: collisionNone}
}

// Update advances the ball one tick. When a point is scored the ball is reset and
// the scoring player's index is returned; the reset ball does not move that tick.
func (b *Ball) Update(paddles *[2]Paddle) (scorer int, scored bool) {
	c := b.detect(paddles)
	switch c.kind {
	case collisionWall:
		b.Velocity.Y = -b.Velocity.Y
	case collisionLeftGoal:
		b.reset(ServeVelocity())
		return Player2, true
	case collisionRightGoal:
		b.reset(ServeVelocity().Neg())
		return Player1, true
	case collisionPaddle:
		b.Velocity = c.normal.Scale(b.Velocity.Length())
	}
	if c.kind != collisionNone {
		b.Velocity = b.Velocity.Scale(SpeedIncrease)
	}
	b.Position = b.Position.Add(b.Velocity.Scale(TickTime))
	return 0, false
}

func (b *Ball) reset(velocity gamemath.Vec2) {
	b.Position = gamemath.Vec2{X: ScreenWidth / 2, Y: ScreenHeight / 2}
	b.Velocity = velocity
}
