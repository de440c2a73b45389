package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		gz, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return gz
	},
}

// Compression gzips JSON responses for clients that accept it
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") || r.Method == http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		defer gzipWriterPool.Put(gz)
		gz.Reset(w)

		gzw := &gzipResponseWriter{ResponseWriter: w, writer: gz}
		defer gzw.close()

		w.Header().Add("Vary", "Accept-Encoding")
		next.ServeHTTP(gzw, r)
	})
}

// gzipResponseWriter only compresses once a body is actually written, so
// empty responses such as 204 and preflights keep no Content-Encoding.
type gzipResponseWriter struct {
	http.ResponseWriter
	writer  *gzip.Writer
	started bool
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	if !w.started && statusCode != http.StatusNoContent && statusCode != http.StatusNotModified {
		w.start()
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.started {
		w.start()
	}
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) start() {
	w.started = true
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
}

func (w *gzipResponseWriter) close() {
	if w.started {
		_ = w.writer.Close()
	}
}
