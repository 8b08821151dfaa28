package rollback

import "bytes"

const queueLength = 128

type queuedInput struct {
	frame     Frame
	data      []byte
	predicted bool
}

// inputQueue stores one player's inputs by frame. Confirmed inputs arrive in frame
// order; reads past the last confirmed frame hand out a prediction (the last
// confirmed input repeated) and remember it, so a later confirmation can tell
// whether the prediction was wrong.
type inputQueue struct {
	inputs         [queueLength]queuedInput
	lastConfirmed  Frame
	firstIncorrect Frame
	blank          []byte
}

func newInputQueue(blank []byte) *inputQueue {
	q := &inputQueue{
		lastConfirmed:  NullFrame,
		firstIncorrect: NullFrame,
		blank:          blank,
	}
	for i := range q.inputs {
		q.inputs[i].frame = NullFrame
	}
	return q
}

// add confirms the input for frame. Frames other than lastConfirmed+1 are ignored
// and add reports false.
func (q *inputQueue) add(frame Frame, data []byte) bool {
	if frame != q.lastConfirmed+1 {
		return false
	}
	slot := &q.inputs[int(frame)%queueLength]
	if slot.frame == frame && slot.predicted && !bytes.Equal(slot.data, data) {
		if q.firstIncorrect == NullFrame || frame < q.firstIncorrect {
			q.firstIncorrect = frame
		}
	}
	*slot = queuedInput{frame: frame, data: bytes.Clone(data)}
	q.lastConfirmed = frame
	return true
}

// confirmed returns the confirmed input for frame, if still held.
func (q *inputQueue) confirmed(frame Frame) ([]byte, bool) {
	if frame < 0 || frame > q.lastConfirmed {
		return nil, false
	}
	slot := &q.inputs[int(frame)%queueLength]
	if slot.frame != frame || slot.predicted {
		return nil, false
	}
	return slot.data, true
}

// get returns the confirmed input for frame or records and returns a prediction.
func (q *inputQueue) get(frame Frame) []byte {
	if data, ok := q.confirmed(frame); ok {
		return data
	}
	pred := q.blank
	if last, ok := q.confirmed(q.lastConfirmed); ok {
		pred = last
	}
	q.inputs[int(frame)%queueLength] = queuedInput{frame: frame, data: pred, predicted: true}
	return pred
}

// takeIncorrect returns and clears the first mispredicted frame.
func (q *inputQueue) takeIncorrect() Frame {
	f := q.firstIncorrect
	q.firstIncorrect = NullFrame
	return f
}
