package httpserver

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

var incomingRequestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,64}$`)

type requestLoggerKey struct{}

// RequestLogger returns the per-request logger stored by the logging
// middleware, or fallback outside of a request.
func RequestLogger(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	if logger, ok := ctx.Value(requestLoggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	if fallback == nil {
		return zap.NewNop()
	}
	return fallback
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += n
	return n, err
}

func withRequestLogging(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if !incomingRequestIDPattern.MatchString(requestID) {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		requestLogger := logger.With(zap.String("request_id", requestID))
		ctx := context.WithValue(r.Context(), requestLoggerKey{}, requestLogger)

		recorder := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(recorder, r.WithContext(ctx))

		status := recorder.status
		if status == 0 {
			status = http.StatusOK
		}

		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.RequestURI()),
			zap.Duration("latency", time.Since(start)),
			zap.Int("body_size", recorder.bytes),
			zap.String("user_agent", r.UserAgent()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			requestLogger.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			requestLogger.Warn("request rejected", fields...)
		default:
			requestLogger.Info("request completed", fields...)
		}
	})
}
