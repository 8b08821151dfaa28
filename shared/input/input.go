// Package input defines the per-tick player intent and its fixed-size wire codec.
package input

import (
	"errors"
	"fmt"
)

// Input is the intent of one player for one tick.
type Input uint8

const (
	None Input = iota
	Up
	Down

	inputCount // Must be last
)

// Size is the encoded length of every Input. It never changes within a session.
const Size = 1

// Encoded is the wire form of an Input.
type Encoded [Size]byte

// ErrDecode is matched by every *DecodeError.
var ErrDecode = errors.New("input: malformed encoding")

// DecodeError reports bytes that are not a valid encoded Input.
type DecodeError struct {
	Data []byte
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("input: cannot decode % x (want %d byte, value < %d)", e.Data, Size, inputCount)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (in Input) String() string {
	switch in {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("input(%d)", uint8(in))
}

// Valid reports whether in is one of the declared values.
func (in Input) Valid() bool {
	return in < inputCount
}

// Encode is total: every Input has exactly one encoding.
func Encode(in Input) Encoded {
	return Encoded{byte(in)}
}

// Decode never substitutes a default. Anything but a single known byte fails.
func Decode(data []byte) (Input, error) {
	if len(data) != Size {
		return None, &DecodeError{Data: append([]byte(nil), data...)}
	}
	in := Input(data[0])
	if !in.Valid() {
		return None, &DecodeError{Data: append([]byte(nil), data...)}
	}
	return in, nil
}

func (in Input) MarshalBinary() ([]byte, error) {
	enc := Encode(in)
	return enc[:], nil
}

func (in *Input) UnmarshalBinary(data []byte) error {
	v, err := Decode(data)
	if err != nil {
		return err
	}
	*in = v
	return nil
}

// Combine resolves two held directions into one Input. Up wins when both are held,
// matching the order keys are checked in.
func Combine(up, down bool) Input {
	if up {
		return Up
	}
	if down {
		return Down
	}
	return None
}
