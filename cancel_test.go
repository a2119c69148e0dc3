package pgwire_test

import (
	"encoding/binary"
	"testing"

	"github.com/pgwire/pgwire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCancelRequest(t *testing.T) {
	pkt := pgwire.BuildCancelRequest(4242, 9999)
	require.Len(t, pkt, 16)

	length := binary.BigEndian.Uint32(pkt[0:4])
	assert.Equal(t, uint32(16), length)

	code := binary.BigEndian.Uint32(pkt[4:8])
	assert.Equal(t, uint32(80877102), code)

	pid := binary.BigEndian.Uint32(pkt[8:12])
	secret := binary.BigEndian.Uint32(pkt[12:16])
	assert.Equal(t, uint32(4242), pid)
	assert.Equal(t, uint32(9999), secret)
}
