// Package compress negotiates and applies response body compression for the
// REST surface.
package compress

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

type Type int8

const (
	TypeNone Type = iota
	TypeGzip
	TypeZstd
	TypeBr
)

func (t Type) Encoding() string {
	switch t {
	case TypeGzip:
		return "gzip"
	case TypeZstd:
		return "zstd"
	case TypeBr:
		return "br"
	default:
		return ""
	}
}

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(io.Discard)
	},
}

var brotliWriterPool = sync.Pool{
	New: func() any {
		return brotli.NewWriter(io.Discard)
	},
}

var (
	zstdEncoder     *zstd.Encoder
	zstdEncoderInit sync.Once
)

func encoder() *zstd.Encoder {
	zstdEncoderInit.Do(func() {
		// Encoder errors only on bad options; these are static.
		zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return zstdEncoder
}

// Negotiate picks the best supported encoding from an Accept-Encoding
// header. Preference order: zstd, br, gzip.
func Negotiate(acceptEncoding string) Type {
	best := TypeNone
	for _, part := range strings.Split(acceptEncoding, ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch strings.ToLower(name) {
		case "zstd":
			return TypeZstd
		case "br":
			if best != TypeZstd {
				best = TypeBr
			}
		case "gzip":
			if best == TypeNone {
				best = TypeGzip
			}
		}
	}
	return best
}

// Compress encodes data with the chosen type. TypeNone returns data untouched.
func Compress(data []byte, t Type) ([]byte, error) {
	switch t {
	case TypeNone:
		return data, nil
	case TypeGzip:
		var buf bytes.Buffer
		z := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(z)
		z.Reset(&buf)
		if _, err := z.Write(data); err != nil {
			return nil, err
		}
		if err := z.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case TypeZstd:
		return encoder().EncodeAll(data, make([]byte, 0, len(data)/2)), nil
	case TypeBr:
		var buf bytes.Buffer
		w := brotliWriterPool.Get().(*brotli.Writer)
		defer brotliWriterPool.Put(w)
		w.Reset(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("compress: unknown type %d", t)
	}
}
