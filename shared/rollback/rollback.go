// Package rollback schedules save, load and advance requests for a deterministic
// simulation so it can run ahead of a remote peer and repair mispredictions.
//
// The simulation never talks to the scheduler directly: each tick the caller asks a
// Session for a list of Requests and hands them, in order, to the game.
package rollback

import "errors"

// Frame numbers a simulation tick. The first frame is 0.
type Frame int32

// NullFrame marks "no frame", e.g. an empty Cell.
const NullFrame Frame = -1

// NumPlayers is fixed for pong.
const NumPlayers = 2

var (
	// ErrPredictionThreshold means the session would have to predict more than
	// MaxPrediction frames of remote input. The tick should be retried later.
	ErrPredictionThreshold = errors.New("rollback: prediction threshold reached")
	// ErrNotSynchronized is returned by AdvanceFrame until the handshake completes.
	ErrNotSynchronized = errors.New("rollback: session not synchronized")
	// ErrDisconnected is returned once the remote peer timed out or said goodbye.
	ErrDisconnected = errors.New("rollback: peer disconnected")
	// ErrMissingInput means AdvanceFrame was called before every local player's
	// input for the frame was added.
	ErrMissingInput = errors.New("rollback: missing local input")
	// ErrInvalidPlayer is returned for a player index the session does not own.
	ErrInvalidPlayer = errors.New("rollback: invalid player")
)

// Recoverable reports whether err only delays the current tick.
func Recoverable(err error) bool {
	return errors.Is(err, ErrPredictionThreshold) || errors.Is(err, ErrNotSynchronized)
}

// Session is the scheduler seen from the simulation loop.
type Session interface {
	// AddLocalInput registers the encoded input of a locally controlled player for
	// the next call to AdvanceFrame.
	AddLocalInput(player int, encoded []byte) error
	// AdvanceFrame returns the requests to fulfil, in order, for one tick.
	AdvanceFrame() ([]Request, error)
	// FramesAhead is positive while this peer runs ahead of the remote one.
	FramesAhead() int
	// Events drains the notifications collected since the last call.
	Events() []Event
	// CurrentFrame is the frame the next AdvanceRequest will simulate.
	CurrentFrame() Frame
	// LocalPlayers lists the player indices fed through AddLocalInput.
	LocalPlayers() []int
}

// Transport moves messages between two peers. Receive must not block.
type Transport interface {
	Send(msg any) error
	Receive() []any
}
