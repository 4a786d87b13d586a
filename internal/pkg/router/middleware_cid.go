package router

import (
	"net/http"
	"strings"

	"github.com/tenangapp/tenang/internal/pkg/instrument"
	"github.com/tenangapp/tenang/internal/pkg/uid"
)

const (
	// HeaderCorrelationID carries the request identity across services.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is the fallback header some proxies inject instead.
	HeaderRequestID = "X-Request-ID"

	// cidMaxLen bounds client-supplied IDs so a hostile header cannot bloat
	// every log line downstream.
	cidMaxLen = 128
)

// middlewareCorrelationID adopts the caller's correlation ID when it is
// sane, mints one otherwise, and reflects the result back in the response so
// the client and the logs agree on the request's name.
func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := sanitizeCID(r.Header.Get(HeaderCorrelationID))
			if cid == "" {
				cid = sanitizeCID(r.Header.Get(HeaderRequestID))
			}
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// sanitizeCID rejects header-injection attempts outright and clips anything
// longer than cidMaxLen.
func sanitizeCID(v string) string {
	if strings.ContainsAny(v, "\r\n") {
		return ""
	}

	v = strings.TrimSpace(v)
	if len(v) > cidMaxLen {
		v = v[:cidMaxLen]
	}

	return v
}
