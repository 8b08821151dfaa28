// Package messages defines the peer-to-peer wire messages. Like netconfig in the
// old dedicated server layout it has no dependency on ebiten, so headless peers
// can link it.
package messages

// Hello opens a session. Each peer sends it until the other side's Hello arrives.
type Hello struct {
	Version    string
	SessionID  string // uuid of the sending peer's session
	Player     int    // player index the sender controls
	InputDelay int
}

// InputBatch carries the sender's confirmed inputs for consecutive frames starting
// at StartFrame, plus the last frame of the receiver's inputs the sender has seen.
type InputBatch struct {
	StartFrame int32
	Inputs     [][]byte
	AckFrame   int32
}

// ChecksumReport publishes the checksum of a confirmed frame for desync detection.
type ChecksumReport struct {
	Frame    int32
	Checksum uint16
}

// QualityReport is sent periodically for time sync and round-trip measurement.
type QualityReport struct {
	FrameAdvantage int32 // frames the sender believes it runs ahead of the receiver
	SentAt         int64 // sender clock, Unix ms
}

// QualityReply echoes QualityReport.SentAt.
type QualityReply struct {
	SentAt int64
}

// Goodbye announces an orderly shutdown.
type Goodbye struct {
	Reason string
}
