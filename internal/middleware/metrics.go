package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type requestRecorder interface {
	RecordRequest(method, route string, status int, d time.Duration)
}

type metricsMiddleware struct {
	rec requestRecorder
}

func NewMetricsMiddleware(rec requestRecorder) *metricsMiddleware {
	return &metricsMiddleware{rec: rec}
}

// Instrument records every request by its chi route pattern, so path
// parameters do not blow up label cardinality.
func (m *metricsMiddleware) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.rec.RecordRequest(r.Method, route, status, time.Since(start))
	})
}
