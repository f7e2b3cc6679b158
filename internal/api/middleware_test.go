package api

import (
	"haul-quote-service/internal/platform/obs"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoggingMiddlewareThreadsRequestID(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(obs.RequestIDKey).(string)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	loggingMiddleware(inner).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if seen == "" {
		t.Fatal("handler saw no request id in its context")
	}
	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418 passed through", rec.Code)
	}
}

func TestLoggingMiddlewareAssignsDistinctIDs(t *testing.T) {
	ids := make(map[string]bool)
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(obs.RequestIDKey).(string)
		ids[id] = true
	})

	h := loggingMiddleware(inner)
	for i := 0; i < 3; i++ {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	}

	if len(ids) != 3 {
		t.Fatalf("got %d distinct ids over 3 requests, want 3", len(ids))
	}
}
