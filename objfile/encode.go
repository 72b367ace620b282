package objfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// writeUint32, writeUint16, writeByte, writeString, and writeBytes are the
// shared primitive encoders every record builder composes: a byte-at-a-time
// encoding for a self-describing record stream rather than fixed-arity
// instructions.

func writeUint32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func writeInt16(buf *bytes.Buffer, v int16) { writeUint16(buf, uint16(v)) }

func writeByte(buf *bytes.Buffer, v byte) { buf.WriteByte(v) }

// writeString writes a uint16-length-prefixed UTF-8 string, the `{uint2
// len; bytes}` shape used throughout the layout for names.
func writeString(buf *bytes.Buffer, s string) {
	writeUint16(buf, uint16(len(s)))
	buf.WriteString(s)
}

// writeBytes writes a uint32-length-prefixed opaque blob, used only for the
// build-config section.
func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint32(buf, uint32(len(b)))
	buf.Write(b)
}

func readUint32(r io.Reader) (uint32, error) {
	var tmp [4]byte
	if _, err:= io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(tmp[:]), nil
}

func readUint16(r io.Reader) (uint16, error) {
	var tmp [2]byte
	if _, err:= io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(tmp[:]), nil
}

func readInt16(r io.Reader) (int16, error) {
	v, err:= readUint16(r)
	return int16(v), err
}

func readByte(r io.Reader) (byte, error) {
	var tmp [1]byte
	if _, err:= io.ReadFull(r, tmp[:]); err != nil {
		return 0, err
	}
	return tmp[0], nil
}

func readString(r io.Reader) (string, error) {
	n, err:= readUint16(r)
	if err != nil {
		return "", err
	}
	buf:= make([]byte, n)
	if _, err:= io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func readBytes(r io.Reader) ([]byte, error) {
	n, err:= readUint32(r)
	if err != nil {
		return nil, err
	}
	buf:= make([]byte, n)
	if _, err:= io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func readMagic(r io.Reader, want string) error {
	buf:= make([]byte, len(want))
	if _, err:= io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("objfile: reading magic: %w", err)
	}
	if string(buf) != want {
		return fmt.Errorf("objfile: bad magic %q, want %q", buf, want)
	}
	return nil
}

func writeMagic(buf *bytes.Buffer, magic string) { buf.WriteString(magic) }
