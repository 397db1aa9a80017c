package wire

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFramerRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"<epp/>",
		strings.Repeat("a", 1000),
		"unicode: éè中文",
	}
	for _, s := range cases {
		var buf bytes.Buffer
		sendFramer := New(nil, &buf, DefaultMaxFrameBytes)
		require.NoError(t, sendFramer.Send(s))

		recvFramer := New(&buf, nil, DefaultMaxFrameBytes)
		got, err := recvFramer.Receive()
		require.NoError(t, err)
		require.Equal(t, s, got)
	}
}

func TestFramerLengthIsInclusive(t *testing.T) {
	var buf bytes.Buffer
	s := "hello world"
	f := New(nil, &buf, DefaultMaxFrameBytes)
	require.NoError(t, f.Send(s))

	prefix := binary.BigEndian.Uint32(buf.Bytes()[:4])
	require.Equal(t, uint32(len(s)+4), prefix)
	require.Len(t, buf.Bytes(), int(prefix))
}

func TestFramerShortRead(t *testing.T) {
	buf := bytes.NewBuffer([]byte{0, 0, 0})
	f := New(buf, nil, DefaultMaxFrameBytes)
	_, err := f.Receive()
	require.Error(t, err)
	var shortRead *ShortReadError
	require.ErrorAs(t, err, &shortRead)
}

func TestFramerBadLengthTooSmall(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], 2)
	buf := bytes.NewBuffer(lenBuf[:])
	f := New(buf, nil, DefaultMaxFrameBytes)
	_, err := f.Receive()
	var badLen *BadLengthError
	require.ErrorAs(t, err, &badLen)
}

func TestFramerBadLengthTooLarge(t *testing.T) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], DefaultMaxFrameBytes+100)
	buf := bytes.NewBuffer(lenBuf[:])
	f := New(buf, nil, DefaultMaxFrameBytes)
	_, err := f.Receive()
	var badLen *BadLengthError
	require.ErrorAs(t, err, &badLen)
}

func TestFramerBadUTF8(t *testing.T) {
	body := []byte{0xff, 0xfe, 0xfd}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)+4))
	buf := bytes.NewBuffer(append(lenBuf[:], body...))
	f := New(buf, nil, DefaultMaxFrameBytes)
	_, err := f.Receive()
	var badUTF8 *BadUTF8Error
	require.ErrorAs(t, err, &badUTF8)
}
