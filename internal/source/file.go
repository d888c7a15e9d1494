// Package source provides log lines from files on disk.
package source

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/charliek/logscan/internal/constants"
	"github.com/charliek/logscan/internal/domain"
)

// Compression identifies how a file's contents are encoded
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionGzip Compression = "gzip"
	CompressionZstd Compression = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// File is a restartable line source backed by a path. Every call to Lines
// reopens the file and reads it from the beginning.
type File struct {
	path        string
	size        int64
	compression Compression
	truncated   int
	err         error
}

// Open checks that path is a readable regular file and detects its
// compression. Errors wrap domain.ErrInputUnavailable.
func Open(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInputUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", domain.ErrInputUnavailable, path)
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInputUnavailable, err)
	}
	defer fh.Close()

	header := make([]byte, len(zstdMagic))
	n, err := io.ReadFull(fh, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: reading %s: %w", domain.ErrInputUnavailable, path, err)
	}

	return &File{
		path:        path,
		size:        info.Size(),
		compression: detectCompression(header[:n]),
	}, nil
}

// Path returns the file path
func (f *File) Path() string {
	return f.path
}

// Size returns the size on disk in bytes, before decompression
func (f *File) Size() int64 {
	return f.size
}

// Compression returns the detected encoding
func (f *File) Compression() Compression {
	return f.compression
}

// Lines returns the file's lines in order, without trailing newlines.
// Lines longer than constants.MaxLineLength are truncated and counted by
// Truncated. A read error ends the sequence early and is reported by Err.
func (f *File) Lines() iter.Seq[string] {
	return func(yield func(string) bool) {
		f.err = nil
		f.truncated = 0

		fh, err := os.Open(f.path)
		if err != nil {
			f.err = fmt.Errorf("%w: %w", domain.ErrInputUnavailable, err)
			return
		}
		defer fh.Close()

		r, closeFn, err := f.decoder(fh)
		if err != nil {
			f.err = fmt.Errorf("%w: decoding %s: %w", domain.ErrInputUnavailable, f.path, err)
			return
		}
		defer closeFn()

		br := bufio.NewReaderSize(r, constants.ReaderBufferSize)
		line := make([]byte, 0, constants.ReaderBufferSize)
		pending, cut := false, false

		for {
			chunk, isPrefix, err := br.ReadLine()
			if err != nil {
				if pending {
					if cut {
						f.truncated++
					}
					if !yield(string(line)) {
						return
					}
				}
				if err != io.EOF {
					f.err = fmt.Errorf("%w: reading %s: %w", domain.ErrInputUnavailable, f.path, err)
				}
				return
			}

			// Keep the head of an oversized line and drop the rest
			if room := constants.MaxLineLength - len(line); len(chunk) > room {
				chunk = chunk[:room]
				cut = true
			}
			line = append(line, chunk...)
			if isPrefix {
				pending = true
				continue
			}

			if cut {
				f.truncated++
			}
			if !yield(string(line)) {
				return
			}
			line, pending, cut = line[:0], false, false
		}
	}
}

// Truncated returns how many lines the most recent Lines iteration cut
// down to constants.MaxLineLength
func (f *File) Truncated() int {
	return f.truncated
}

// Err returns the error that ended the most recent Lines iteration, if any
func (f *File) Err() error {
	return f.err
}

func (f *File) decoder(r io.Reader) (io.Reader, func(), error) {
	switch f.compression {
	case CompressionGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { zr.Close() }, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	default:
		return r, func() {}, nil
	}
}

func detectCompression(header []byte) Compression {
	switch {
	case bytes.HasPrefix(header, gzipMagic):
		return CompressionGzip
	case bytes.HasPrefix(header, zstdMagic):
		return CompressionZstd
	default:
		return CompressionNone
	}
}
