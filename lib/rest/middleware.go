package rest

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pborman/uuid"
	"github.com/rs/cors"
	"github.com/uol/logh"

	"github.com/uol/cassakeyspace/lib/constants"
	"github.com/uol/cassakeyspace/lib/tsstats"
)

type key int

const (
	statsTagsKey key = 0

	headerRequestID string = "X-REQUEST-CASSAKEYSPACE-ID"
)

type logResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *logResponseWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

func (w *logResponseWriter) WriteHeader(s int) {
	w.ResponseWriter.WriteHeader(s)
	w.status = s
}

// logMiddleware - stamps a request id, logs and measures every request
type logMiddleware struct {
	next   http.Handler
	stats  tsstats.Collector
	logger *logh.ContextualLogger
}

func newLogMiddleware(next http.Handler, stats tsstats.Collector, allowCORS bool) *logMiddleware {

	if allowCORS {
		next = cors.AllowAll().Handler(next)
	}

	return &logMiddleware{
		next:   next,
		stats:  tsstats.OrNoOp(stats),
		logger: logh.CreateContextualLogger(constants.StringsPKG, cPackage, constants.StringsFunc, "ServeHTTP"),
	}
}

func (h *logMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {

	start := time.Now()

	rid := uuid.NewRandom().String()
	w.Header().Add(headerRequestID, rid)

	logw := &logResponseWriter{ResponseWriter: w}

	userTags := sync.Map{}

	h.next.ServeHTTP(logw, r.WithContext(context.WithValue(r.Context(), statsTagsKey, &userTags)))

	status := logw.status
	if status == 0 {
		status = http.StatusOK
	}

	d := time.Since(start)

	tags := []interface{}{
		constants.StringsMethod, r.Method,
		constants.StringsStatus, strconv.Itoa(status),
	}

	userTags.Range(func(k, v interface{}) bool {
		tags = append(tags, k, v)
		return true
	})

	h.stats.FlattenCountIncN("ServeHTTP", constants.StringsMetricHTTPRequest, tags...)
	h.stats.FlattenMaxN("ServeHTTP", tsstats.Milliseconds(d), constants.StringsMetricHTTPRequestDuration, tags...)

	if logh.DebugEnabled {
		h.logger.Debug().Str("rid", rid).Str(constants.StringsMethod, r.Method).Str("path", r.URL.Path).Int(constants.StringsStatus, status).Dur("duration", d).Send()
	}
}

// addStatsMap - adds tags to the statistics of the request
func addStatsMap(r *http.Request, tags map[string]string) {

	userTags, ok := r.Context().Value(statsTagsKey).(*sync.Map)
	if ok {
		for k, v := range tags {
			userTags.Store(k, v)
		}
	}
}
