package replay

import (
	"path/filepath"
	"testing"

	"github.com/automoto/p2pong/shared/input"
	"github.com/automoto/p2pong/shared/pong"
	"github.com/automoto/p2pong/shared/rollback"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func enc(in input.Input) []byte {
	e := input.Encode(in)
	return e[:]
}

// play runs frames ticks while recording, the way a session wrapper does.
func play(t *testing.T, frames int) (*Recorder, pong.Game) {
	t.Helper()
	rec := NewRecorder("test-session")
	g := pong.NewGame()
	for f := 0; f < frames; f++ {
		inputs := [2][]byte{enc(input.Input(f / 10 % 3)), enc(input.Input(f / 7 % 3))}
		rec.Record(g.Frame, inputs)
		require.NoError(t, g.Handle([]rollback.Request{rollback.AdvanceRequest{Inputs: inputs}}))
	}
	return rec, g
}

func TestRecordMarshalVerify(t *testing.T) {
	rec, g := play(t, 500)
	r, err := rec.Finish(g)
	require.NoError(t, err)
	assert.Len(t, r.Frames, 500)
	assert.Equal(t, rollback.Frame(500), r.FinalFrame)

	out, err := Unmarshal(Marshal(r))
	require.NoError(t, err)
	assert.Equal(t, r, out)
	assert.NoError(t, Verify(out))
}

func TestVerifyDetectsTampering(t *testing.T) {
	rec, g := play(t, 200)
	r, err := rec.Finish(g)
	require.NoError(t, err)

	r.Frames[50].Inputs[0] = enc(input.Down)
	r.Frames[51].Inputs[0] = enc(input.Up)
	r.Frames[52].Inputs[1] = enc(input.Down)
	if err := Verify(r); err != nil {
		assert.ErrorIs(t, err, ErrMismatch)
	}

	r.FinalChecksum++
	assert.ErrorIs(t, Verify(r), ErrMismatch)
}

func TestRecorderKeepsLatestRollbackResult(t *testing.T) {
	rec := NewRecorder("")
	rec.Record(0, [2][]byte{enc(input.None), enc(input.None)})
	rec.Record(1, [2][]byte{enc(input.None), enc(input.None)})
	rec.Record(1, [2][]byte{enc(input.Up), enc(input.None)})
	rec.Record(5, [2][]byte{enc(input.Up), enc(input.None)})
	assert.Equal(t, 2, rec.Len())

	g := pong.NewGame()
	g.Frame = 2
	r, err := rec.Finish(g)
	require.NoError(t, err)
	assert.Equal(t, enc(input.Up), r.Frames[1].Inputs[0])

	g.Frame = 3
	_, err = rec.Finish(g)
	assert.Error(t, err)
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	rec, g := play(t, 10)
	r, err := rec.Finish(g)
	require.NoError(t, err)

	b := Marshal(r)
	b = protowire.AppendTag(b, 99, protowire.BytesType)
	b = protowire.AppendString(b, "from the future")
	out, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, r, out)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Unmarshal(nil)
	assert.ErrorIs(t, err, ErrMalformed, "missing version")
}

func TestFileRoundTrip(t *testing.T) {
	rec, g := play(t, 60)
	r, err := rec.Finish(g)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "match.replay")
	require.NoError(t, WriteFile(path, r))
	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.NoError(t, Verify(out))
}
