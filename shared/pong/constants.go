package pong

// Simulation constants. They are part of the determinism contract: both peers
// must be built with the same values.
const (
	ScreenWidth  float32 = 800
	ScreenHeight float32 = 400

	TicksPerSecond         = 60
	TickTime       float32 = 1.0 / TicksPerSecond

	PaddleWidth  float32 = 10
	PaddleHeight float32 = 80
	PaddleOffset float32 = 20
	PaddleSpeed  float32 = 300

	BallRadius    float32 = 5
	ServeSpeedX   float32 = 240
	ServeSpeedY   float32 = 120
	SpeedIncrease float32 = 1.05
)

// Player indices.
const (
	Player1 = 0
	Player2 = 1
)
