package handler

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/levinOo/go-state-mirror/internal/logger"
	"go.uber.org/zap"
)

// LoggerFuncServer логирует метод, URI, длительность, статус и размер ответа.
func LoggerFuncServer(h http.Handler, sugar *zap.SugaredLogger) http.HandlerFunc {
	logFn := func(rw http.ResponseWriter, r *http.Request) {
		start := time.Now()

		responseData := &logger.ResponseData{
			Size:   0,
			Status: http.StatusOK,
		}
		lw := logger.LoggingRW{
			ResponseWriter: rw,
			ResponseData:   responseData,
		}

		h.ServeHTTP(&lw, r)

		sugar.Infow("Request served",
			"uri", r.RequestURI,
			"method", r.Method,
			"duration", time.Since(start),
			"status", responseData.Status,
			"size", responseData.Size,
		)
	}
	return http.HandlerFunc(logFn)
}

// maxBodySize ограничивает размер распакованного тела запроса.
const maxBodySize int64 = 8 << 20

// DecompressMiddleware распаковывает тело запроса с Content-Encoding: gzip.
// Тело больше maxBodySize после распаковки отклоняется со статусом 413.
func DecompressMiddleware(h http.Handler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Encoding") == "gzip" {
			gz, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(rw, "Failed to decompress gzip body", http.StatusBadRequest)
				return
			}
			defer gz.Close()

			body, err := io.ReadAll(http.MaxBytesReader(rw, gz, maxBodySize))
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					http.Error(rw, "Decompressed body too large", http.StatusRequestEntityTooLarge)
					return
				}
				http.Error(rw, "Failed to read decompressed body", http.StatusBadRequest)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(body))
			r.ContentLength = int64(len(body))
			r.Header.Del("Content-Encoding")
		}
		h.ServeHTTP(rw, r)
	}
}

type gzipResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	return w.zw.Write(b)
}

// CompressMiddleware сжимает ответ, если клиент прислал Accept-Encoding: gzip.
func CompressMiddleware(h http.Handler) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h.ServeHTTP(rw, r)
			return
		}

		rw.Header().Set("Content-Encoding", "gzip")
		rw.Header().Add("Vary", "Accept-Encoding")

		gz := gzip.NewWriter(rw)
		defer gz.Close()

		h.ServeHTTP(&gzipResponseWriter{ResponseWriter: rw, zw: gz}, r)
	}
}
