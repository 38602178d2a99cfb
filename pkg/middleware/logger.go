package middleware

import (
	"context"
	"net/http"
	"time"

	"airport-ops/internal/policy"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// responseWriter records the status code and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

type callerKey struct{}

// caller is placed in the context by Logger and filled by AuthSession, which
// runs further down the chain.
type caller struct {
	actor policy.Actor
	known bool
}

func noteCaller(ctx context.Context, actor policy.Actor) {
	if c, ok := ctx.Value(callerKey{}).(*caller); ok {
		c.actor, c.known = actor, true
	}
}

// Logger logs one line per request, naming the authenticated caller when
// there is one. 4xx responses log at warn and 5xx at error.
func Logger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			who := &caller{}
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), callerKey{}, who)))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("query", r.URL.RawQuery),
				zap.Int("status", rw.statusCode),
				zap.Int("bytes", rw.bytesWritten),
				zap.Duration("duration", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			}
			if who.known {
				fields = append(fields,
					zap.String("username", who.actor.Username),
					zap.String("role", string(who.actor.Role)))
			}

			logger.Log(levelFor(rw.statusCode), "HTTP request", fields...)
		})
	}
}

func levelFor(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
