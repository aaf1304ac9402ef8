package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const CacheStatusHeader = "X-Cache"

// ResponseCache serves repeated GETs from store for ttl. Only 2xx responses are kept.
// Status paths are polled for live availability and always reach next.
func ResponseCache(store *cache.Cache, ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || ttl <= 0 || strings.HasSuffix(r.URL.Path, "/status") {
				next.ServeHTTP(w, r)
				return
			}

			key := r.URL.RequestURI()
			if v, found := store.Get(key); found {
				if cached, ok := v.(*CachedResponse); ok {
					w.Header().Set(CacheStatusHeader, "HIT")
					replayCachedResponse(w, cached)
					return
				}
			}

			w.Header().Set(CacheStatusHeader, "MISS")
			capture := captureResponse(w)
			next.ServeHTTP(capture, r)

			if isSuccessful(capture.statusCode) {
				headers := w.Header().Clone()
				headers.Del(CacheStatusHeader)
				headers.Del(RequestIDHeader)
				store.Set(key, &CachedResponse{
					StatusCode: capture.statusCode,
					Headers:    headers,
					Body:       capture.body.Bytes(),
					CreatedAt:  time.Now(),
				}, ttl)
			}
		})
	}
}
