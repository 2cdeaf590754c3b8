//nolint:revive // exported
package mwcompress

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/funil-crm/funil/pkg/compress"
)

// minSize skips compression for tiny payloads where headers outweigh gains.
const minSize = 512

type bufferedWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (b *bufferedWriter) WriteHeader(status int) { b.status = status }

func (b *bufferedWriter) Write(p []byte) (int, error) { return b.buf.Write(p) }

// New buffers the response and compresses it with the encoding negotiated
// from Accept-Encoding. Streaming handlers must not be wrapped.
func New(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctype := compress.Negotiate(r.Header.Get("Accept-Encoding"))
		if ctype == compress.TypeNone {
			next.ServeHTTP(w, r)
			return
		}

		bw := &bufferedWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(bw, r)

		body := bw.buf.Bytes()
		if len(body) >= minSize {
			if compressed, err := compress.Compress(body, ctype); err == nil {
				w.Header().Set("Content-Encoding", ctype.Encoding())
				body = compressed
			}
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(bw.status)
		_, _ = w.Write(body)
	})
}
