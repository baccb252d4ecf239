package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/Varun984/Sparkathon-by-Walmart/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// Caller supplied ids are echoed only when they are short and log-safe.
var requestIDRe = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(RequestIDHeader)
			if !requestIDRe.MatchString(reqID) {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
