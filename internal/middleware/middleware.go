package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/AcademyAssistant/internal/metrics"
	"github.com/akolanti/AcademyAssistant/internal/ratelimit"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
	retry        bool
}

// step is one check run before the handler. A step that sets badRequest stops the chain.
type step func(re requestResponseStruct) requestResponseStruct

type Config struct {
	AdminToken string
	Limiter    ratelimit.Limiter
}

var (
	adminToken string
	limiter    ratelimit.Limiter
)

func Init(cfg Config) {
	adminToken = cfg.AdminToken
	limiter = cfg.Limiter
}

// Public only injects the trace id.
func Public(next http.HandlerFunc) http.HandlerFunc {
	return Wrap(next)
}

// Admin requires the admin bearer token.
func Admin(next http.HandlerFunc) http.HandlerFunc {
	return Wrap(next, authenticate)
}

// Limited applies the per-client rate limit.
func Limited(next http.HandlerFunc) http.HandlerFunc {
	return Wrap(next, rateLimiter)
}

func Wrap(next http.HandlerFunc, steps ...step) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: 200} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec}, steps)

		if !handleBadRequest(re) {
			countRequest(re.req, rec.Status)
			return
		}
		next(rec, re.req)

		countRequest(re.req, rec.Status)
	}
}

func processRequest(re requestResponseStruct, steps []step) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		return re
	}
	re.logger.Debug("New request received", "method", re.req.Method, "path", re.req.URL.Path)
	for _, s := range steps {
		re = s(re)
		if re.badRequest.isBadRequest {
			return re
		}
	}
	return re
}

// countRequest labels by route pattern so ids don't explode the series count.
func countRequest(r *http.Request, status int) {
	if r == nil {
		return
	}
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		path = rctx.RoutePattern()
	}
	metrics.HttpRequestsTotal.WithLabelValues(path, strconv.Itoa(status)).Inc()
}
