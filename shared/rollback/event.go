package rollback

import (
	"fmt"
	"time"
)

type EventKind int

const (
	EventSynchronized EventKind = iota
	EventDesync
	EventDisconnected
	EventNetworkInterrupted
	EventWaitRecommendation
)

func (k EventKind) String() string {
	switch k {
	case EventSynchronized:
		return "synchronized"
	case EventDesync:
		return "desync"
	case EventDisconnected:
		return "disconnected"
	case EventNetworkInterrupted:
		return "network interrupted"
	case EventWaitRecommendation:
		return "wait recommendation"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a notification from a session. Only the fields relevant to Kind are set.
type Event struct {
	Kind           EventKind
	Frame          Frame
	LocalChecksum  uint16
	RemoteChecksum uint16
	Ping           time.Duration
	SkipFrames     int
	Reason         string
}

func (e Event) String() string {
	switch e.Kind {
	case EventDesync:
		return fmt.Sprintf("desync at frame %d: local %04x remote %04x", e.Frame, e.LocalChecksum, e.RemoteChecksum)
	case EventDisconnected:
		return fmt.Sprintf("disconnected: %s", e.Reason)
	case EventWaitRecommendation:
		return fmt.Sprintf("wait %d frames", e.SkipFrames)
	default:
		return e.Kind.String()
	}
}

// ChecksumMismatchError is returned by a SyncTestSession when re-simulating a
// frame produced a different state than the first run.
type ChecksumMismatchError struct {
	Frame    Frame
	First    uint16
	Resimmed uint16
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("rollback: checksum mismatch at frame %d: first %04x, resimulated %04x", e.Frame, e.First, e.Resimmed)
}
