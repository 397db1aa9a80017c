// Package wire implements the EPP data-unit framing of RFC 5734: a 32-bit
// big-endian length prefix (inclusive of itself) followed by a UTF-8 XML
// body, per spec.md §4.1 (C1).
package wire

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"unicode/utf8"
)

// DefaultMaxFrameBytes is the suggested ceiling from spec.md §4.1: large
// enough for any realistic EPP message, small enough to fail fast on a
// corrupt or hostile length prefix.
const DefaultMaxFrameBytes = 1 << 20 // 1 MiB

// Framer reads and writes length-prefixed EPP data units over a byte stream.
// Receive and Send are each strictly sequential on their half of the stream;
// Framer does no buffering beyond what the underlying reader/writer provides,
// per spec.md §4.1.
type Framer struct {
	r            io.Reader
	w            io.Writer
	maxFrameSize uint32
}

// New wraps r and w for framed reads and writes. maxFrameSize of 0 selects
// DefaultMaxFrameBytes.
func New(r io.Reader, w io.Writer, maxFrameSize uint32) *Framer {
	if maxFrameSize == 0 {
		maxFrameSize = DefaultMaxFrameBytes
	}
	return &Framer{r: r, w: w, maxFrameSize: maxFrameSize}
}

// ShortReadError wraps an unexpected EOF while reading a frame's header or
// body.
type ShortReadError struct {
	Wanted int
	Err    error
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("short read: wanted %d bytes: %v", e.Wanted, e.Err)
}

func (e *ShortReadError) Unwrap() error { return e.Err }

// BadLengthError means the 32-bit length prefix was smaller than the prefix
// itself or larger than the configured ceiling.
type BadLengthError struct {
	Length uint32
	Max    uint32
}

func (e *BadLengthError) Error() string {
	return fmt.Sprintf("bad frame length %d (max %d)", e.Length, e.Max)
}

// BadUTF8Error means the frame body was not valid UTF-8.
type BadUTF8Error struct{}

func (e *BadUTF8Error) Error() string { return "frame body is not valid UTF-8" }

// Receive reads exactly one frame: 4 bytes of big-endian length (inclusive
// of itself), then length-4 bytes of UTF-8 XML body.
func (f *Framer) Receive() (string, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(f.r, lenBuf[:]); err != nil {
		return "", &ShortReadError{Wanted: 4, Err: err}
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n < 4 || n > f.maxFrameSize {
		return "", &BadLengthError{Length: n, Max: f.maxFrameSize}
	}
	bodyLen := n - 4
	body := make([]byte, bodyLen)
	if bodyLen > 0 {
		if _, err := io.ReadFull(f.r, body); err != nil {
			return "", &ShortReadError{Wanted: int(bodyLen), Err: err}
		}
	}
	if !utf8.Valid(body) {
		return "", &BadUTF8Error{}
	}
	return string(body), nil
}

// Send writes s as one frame: a 4-byte big-endian length (len(s)+4) followed
// by s itself.
func (f *Framer) Send(s string) error {
	total := len(s) + 4
	if total < 4 || uint32(total) > f.maxFrameSize {
		return &BadLengthError{Length: uint32(total), Max: f.maxFrameSize}
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(total))
	if _, err := f.w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write frame length: %w", err)
	}
	if _, err := io.WriteString(f.w, s); err != nil {
		return fmt.Errorf("write frame body: %w", err)
	}
	if bw, ok := f.w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}
