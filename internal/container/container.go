package container

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"vidpack/internal/services"
)

// On-disk layout: 4-byte magic, uint32 version, uint64 payload size, all
// little-endian, followed by the payload copied verbatim.
const (
	Magic      = "VID0"
	Version    = 1
	HeaderSize = 16

	// Extension is the suffix of finished container files.
	Extension = ".video"

	// DefaultBufferSize bounds memory during the payload copy. Output bytes
	// are identical for any positive buffer size.
	DefaultBufferSize = 1 << 20
)

// Header mirrors the fixed fields at the front of a container file.
type Header struct {
	Version     uint32
	PayloadSize uint64
}

// TotalSize returns the length of a container file with this header.
func (h Header) TotalSize() uint64 {
	return HeaderSize + h.PayloadSize
}

// Options controls container construction.
type Options struct {
	// Force overwrites an existing destination wholesale. Without it an
	// existing destination fails and is left untouched.
	Force bool
	// BufferSize overrides DefaultBufferSize when positive.
	BufferSize int
}

// Wrap copies the encoded payload at srcPath into a new container file at
// dstPath. The payload is streamed through a bounded buffer and never held in
// memory whole.
func Wrap(srcPath, dstPath string, opts Options) (Header, error) {
	if !opts.Force {
		if _, err := os.Stat(dstPath); err == nil {
			return Header{}, services.Wrap(services.ErrExists, "wrap", "", fmt.Sprintf("output exists: %s", dstPath), nil)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Header{}, fmt.Errorf("stat destination: %w", err)
		}
	}

	in, err := os.Open(srcPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Header{}, services.Wrap(services.ErrNotFound, "wrap", "", fmt.Sprintf("payload missing: %s", srcPath), nil)
		}
		return Header{}, fmt.Errorf("open payload: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("stat payload: %w", err)
	}
	header := Header{Version: Version, PayloadSize: uint64(info.Size())}

	out, err := os.OpenFile(dstPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Header{}, fmt.Errorf("create container: %w", err)
	}
	defer func() {
		_ = out.Close()
	}()

	if _, err := out.Write(header.encode()); err != nil {
		return Header{}, fmt.Errorf("write header: %w", err)
	}

	size := opts.BufferSize
	if size <= 0 {
		size = DefaultBufferSize
	}
	written, err := io.CopyBuffer(out, in, make([]byte, size))
	if err != nil {
		return Header{}, fmt.Errorf("copy payload: %w", err)
	}
	if uint64(written) != header.PayloadSize {
		return Header{}, fmt.Errorf("payload size changed during copy: expected %d bytes, wrote %d", header.PayloadSize, written)
	}
	if err := out.Close(); err != nil {
		return Header{}, fmt.Errorf("close container: %w", err)
	}

	return header, nil
}

// ReadHeader reads and validates the fixed header of a container file. The
// payload itself is never inspected.
func ReadHeader(path string) (Header, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Header{}, services.Wrap(services.ErrNotFound, "inspect", "", fmt.Sprintf("container missing: %s", path), nil)
		}
		return Header{}, fmt.Errorf("open container: %w", err)
	}
	defer f.Close()

	var raw [HeaderSize]byte
	if _, err := io.ReadFull(f, raw[:]); err != nil {
		return Header{}, services.Wrap(services.ErrValidation, "inspect", "", "file shorter than container header", err)
	}
	if string(raw[:4]) != Magic {
		return Header{}, services.Wrap(services.ErrValidation, "inspect", "", fmt.Sprintf("bad magic %q", raw[:4]), nil)
	}

	header := Header{
		Version:     binary.LittleEndian.Uint32(raw[4:8]),
		PayloadSize: binary.LittleEndian.Uint64(raw[8:16]),
	}
	if header.Version != Version {
		return Header{}, services.Wrap(services.ErrValidation, "inspect", "", fmt.Sprintf("unsupported version %d", header.Version), nil)
	}

	info, err := f.Stat()
	if err != nil {
		return Header{}, fmt.Errorf("stat container: %w", err)
	}
	if uint64(info.Size()) != header.TotalSize() {
		return Header{}, services.Wrap(services.ErrValidation, "inspect", "",
			fmt.Sprintf("size mismatch: header says %d bytes, file is %d", header.TotalSize(), info.Size()), nil)
	}

	return header, nil
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], h.Version)
	binary.LittleEndian.PutUint64(buf[8:16], h.PayloadSize)
	return buf
}
