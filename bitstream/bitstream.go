// Package bitstream is the byte-oriented emission buffer shared by the
// back-end code emitters: explicit-endian integer, float, string and
// blob writes over a position cursor. The stream grows on write and
// reads back from any position.
package bitstream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
)

// ErrShortRead is returned when a read runs past the end of the stream.
var ErrShortRead = errors.New("bitstream: read past end of stream")

// Stream is a growable byte buffer with a cursor. Writes at the cursor
// overwrite existing bytes and extend the buffer as needed; the zero
// value is not usable, construct with New or NewView.
type Stream struct {
	buf      []byte
	pos      int
	order    binary.ByteOrder
	readOnly bool
}

// New creates an empty stream writing in the given byte order.
func New(order binary.ByteOrder) *Stream {
	return &Stream{order: order}
}

// NewView wraps existing bytes without copying. A read-only view rejects
// writes.
func NewView(data []byte, order binary.ByteOrder, readOnly bool) *Stream {
	return &Stream{buf: data, order: order, readOnly: readOnly}
}

func (s *Stream) Size() int      { return len(s.buf) }
func (s *Stream) Pos() int       { return s.pos }
func (s *Stream) Data() []byte   { return s.buf }
func (s *Stream) ReadOnly() bool { return s.readOnly }

// MoveTo repositions the cursor; positions past the end clamp to it.
func (s *Stream) MoveTo(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(s.buf) {
		pos = len(s.buf)
	}
	s.pos = pos
}

// View returns a stream sharing this stream's bytes with an independent
// cursor at the start.
func (s *Stream) View() *Stream {
	return &Stream{buf: s.buf, order: s.order, readOnly: true}
}

// Duplicate copies the stream. With tail set, only the bytes from the
// cursor onward are kept and the copy's cursor rests at its start.
func (s *Stream) Duplicate(tail bool) *Stream {
	src := s.buf
	pos := s.pos
	if tail {
		src = s.buf[s.pos:]
		pos = 0
	}
	return &Stream{buf: bytes.Clone(src), pos: pos, order: s.order}
}

// Equal compares stream contents byte for byte; cursors don't matter.
func (s *Stream) Equal(other *Stream) bool {
	return bytes.Equal(s.buf, other.buf)
}

func (s *Stream) writeBytes(p []byte) {
	if s.readOnly {
		panic("bitstream: write to read-only stream")
	}
	need := s.pos + len(p) - len(s.buf)
	if need > 0 {
		s.buf = append(s.buf, make([]byte, need)...)
	}
	copy(s.buf[s.pos:], p)
	s.pos += len(p)
}

// WriteBytes copies raw bytes at the cursor.
func (s *Stream) WriteBytes(p []byte) { s.writeBytes(p) }

func (s *Stream) WriteUint8(v uint8) { s.writeBytes([]byte{v}) }

func (s *Stream) WriteUint16(v uint16) {
	var tmp [2]byte
	s.order.PutUint16(tmp[:], v)
	s.writeBytes(tmp[:])
}

func (s *Stream) WriteUint32(v uint32) {
	var tmp [4]byte
	s.order.PutUint32(tmp[:], v)
	s.writeBytes(tmp[:])
}

func (s *Stream) WriteUint64(v uint64) {
	var tmp [8]byte
	s.order.PutUint64(tmp[:], v)
	s.writeBytes(tmp[:])
}

func (s *Stream) WriteInt32(v int32)     { s.WriteUint32(uint32(v)) }
func (s *Stream) WriteFloat32(v float32) { s.WriteUint32(math.Float32bits(v)) }

// WriteString writes the bytes of str followed by a NUL terminator.
func (s *Stream) WriteString(str string) {
	s.writeBytes(append([]byte(str), 0))
}

func (s *Stream) readBytes(n int) ([]byte, error) {
	if s.pos+n > len(s.buf) {
		return nil, ErrShortRead
	}
	p := s.buf[s.pos : s.pos+n]
	s.pos += n
	return p, nil
}

func (s *Stream) ReadUint8() (uint8, error) {
	p, err := s.readBytes(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (s *Stream) ReadUint16() (uint16, error) {
	p, err := s.readBytes(2)
	if err != nil {
		return 0, err
	}
	return s.order.Uint16(p), nil
}

func (s *Stream) ReadUint32() (uint32, error) {
	p, err := s.readBytes(4)
	if err != nil {
		return 0, err
	}
	return s.order.Uint32(p), nil
}

func (s *Stream) ReadUint64() (uint64, error) {
	p, err := s.readBytes(8)
	if err != nil {
		return 0, err
	}
	return s.order.Uint64(p), nil
}

func (s *Stream) ReadInt32() (int32, error) {
	v, err := s.ReadUint32()
	return int32(v), err
}

func (s *Stream) ReadFloat32() (float32, error) {
	v, err := s.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadString reads up to the next NUL terminator.
func (s *Stream) ReadString() (string, error) {
	idx := bytes.IndexByte(s.buf[s.pos:], 0)
	if idx < 0 {
		return "", ErrShortRead
	}
	str := string(s.buf[s.pos : s.pos+idx])
	s.pos += idx + 1
	return str, nil
}
