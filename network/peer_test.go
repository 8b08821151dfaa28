package network

import (
	"testing"

	"github.com/automoto/p2pong/shared/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPeerIsDisconnected(t *testing.T) {
	p := NewPeer()
	assert.Equal(t, StateDisconnected, p.State())
	assert.NoError(t, p.LastError())
	assert.Empty(t, p.Receive())
}

func TestSendWithoutConnection(t *testing.T) {
	p := NewPeer()
	err := p.Send(messages.Goodbye{Reason: "bye"})
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestReceiveDrainsInbox(t *testing.T) {
	p := NewPeer()
	p.inbox <- messages.ChecksumReport{Frame: 30, Checksum: 0x0A06}
	p.inbox <- messages.Goodbye{Reason: "done"}

	got := p.Receive()
	require.Len(t, got, 2)
	assert.Equal(t, messages.ChecksumReport{Frame: 30, Checksum: 0x0A06}, got[0])
	assert.Empty(t, p.Receive())
}

func TestSetErrorMovesToErrorState(t *testing.T) {
	p := NewPeer()
	p.setError(ErrNotConnected)
	assert.Equal(t, StateError, p.State())
	assert.ErrorIs(t, p.LastError(), ErrNotConnected)
}

func TestPeerStateString(t *testing.T) {
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "PeerState(9)", PeerState(9).String())
}
