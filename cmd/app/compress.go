package main

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzhttp"
)

// brotliResponseWriter 將 body 導向 brotli writer
type brotliResponseWriter struct {
	http.ResponseWriter
	writer io.Writer
}

func (w *brotliResponseWriter) WriteHeader(code int) {
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(code)
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	return w.writer.Write(p)
}

func (w *brotliResponseWriter) Flush() {
	if f, ok := w.writer.(interface{ Flush() error }); ok {
		_ = f.Flush()
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// compressHandler 用戶端接受 br 時用 brotli，其餘交給 gzhttp 協商 gzip
func compressHandler(next http.Handler) http.Handler {
	gzipped := gzhttp.GzipHandler(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !acceptsBrotli(r) {
			gzipped.ServeHTTP(w, r)
			return
		}
		compressor := brotli.HTTPCompressor(w, r)
		defer compressor.Close()
		next.ServeHTTP(&brotliResponseWriter{ResponseWriter: w, writer: compressor}, r)
	})
}

func acceptsBrotli(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.TrimSpace(coding) != "br" {
			continue
		}
		q, found := strings.CutPrefix(strings.TrimSpace(params), "q=")
		if !found {
			return true
		}
		weight, err := strconv.ParseFloat(q, 64)
		return err == nil && weight > 0
	}
	return false
}
