package replay

import (
	"fmt"

	"github.com/automoto/p2pong/shared/rollback"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldVersion       protowire.Number = 1
	fieldSessionID     protowire.Number = 2
	fieldFrames        protowire.Number = 3
	fieldFinalFrame    protowire.Number = 4
	fieldFinalChecksum protowire.Number = 5

	fieldFrameNumber protowire.Number = 1
	fieldPlayer1     protowire.Number = 2
	fieldPlayer2     protowire.Number = 3
)

func Marshal(rec Recording) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.Version))
	if rec.SessionID != "" {
		b = protowire.AppendTag(b, fieldSessionID, protowire.BytesType)
		b = protowire.AppendString(b, rec.SessionID)
	}
	for _, f := range rec.Frames {
		b = protowire.AppendTag(b, fieldFrames, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalFrame(f))
	}
	b = protowire.AppendTag(b, fieldFinalFrame, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.FinalFrame))
	b = protowire.AppendTag(b, fieldFinalChecksum, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(rec.FinalChecksum))
	return b
}

func marshalFrame(f FrameInputs) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldFrameNumber, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(f.Frame))
	b = protowire.AppendTag(b, fieldPlayer1, protowire.BytesType)
	b = protowire.AppendBytes(b, f.Inputs[0])
	b = protowire.AppendTag(b, fieldPlayer2, protowire.BytesType)
	b = protowire.AppendBytes(b, f.Inputs[1])
	return b
}

func Unmarshal(b []byte) (Recording, error) {
	var rec Recording
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			rec.Version = uint32(v)
			return n, nil
		case num == fieldSessionID && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			rec.SessionID = v
			return n, nil
		case num == fieldFrames && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			f, err := unmarshalFrame(v)
			if err != nil {
				return 0, err
			}
			rec.Frames = append(rec.Frames, f)
			return n, nil
		case num == fieldFinalFrame && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			rec.FinalFrame = rollback.Frame(int32(v))
			return n, nil
		case num == fieldFinalChecksum && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			rec.FinalChecksum = uint16(v)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	if err != nil {
		return Recording{}, err
	}
	if rec.Version != FormatVersion {
		return Recording{}, fmt.Errorf("%w: version %d", ErrMalformed, rec.Version)
	}
	return rec, nil
}

func unmarshalFrame(b []byte) (FrameInputs, error) {
	var f FrameInputs
	err := walk(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldFrameNumber && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			f.Frame = rollback.Frame(int32(v))
			return n, nil
		case (num == fieldPlayer1 || num == fieldPlayer2) && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			f.Inputs[num-fieldPlayer1] = append([]byte{}, v...)
			return n, nil
		}
		return protowire.ConsumeFieldValue(num, typ, b), nil
	})
	return f, err
}

// walk calls field for every tagged field in b. field returns the number of
// value bytes it consumed, negative on a protowire error.
func walk(b []byte, field func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		m, err := field(num, typ, b)
		if err != nil {
			return err
		}
		if m < 0 {
			return fmt.Errorf("%w: field %d: %w", ErrMalformed, num, protowire.ParseError(m))
		}
		b = b[m:]
	}
	return nil
}
