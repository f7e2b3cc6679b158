package distance

import (
	"context"
	"errors"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

var (
	matrixOrigin = domain.Coordinate{Lat: 32.7157, Lng: -117.1611}
	matrixDest   = domain.Coordinate{Lat: 33.1192, Lng: -117.0864}
)

func newStubProvider(t *testing.T, handler http.HandlerFunc) *GoogleDistanceProvider {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewGoogleDistanceProvider("test-key")
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	p.baseURL = server.URL

	return p
}

func TestFetchDistanceParsesMatrix(t *testing.T) {
	var query url.Values
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"distance": {"value": 42000},
				"duration": {"value": 1800},
				"duration_in_traffic": {"value": 2100}
			}]}]
		}`))
	})

	res, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.DistanceMeters != 42000 || res.DurationSeconds != 1800 {
		t.Fatalf("result = %+v", res)
	}
	if res.DurationInTrafficSeconds == nil || *res.DurationInTrafficSeconds != 2100 {
		t.Fatalf("traffic duration = %v, want 2100", res.DurationInTrafficSeconds)
	}
	if len(res.RawResponse) == 0 {
		t.Fatal("raw response must be preserved for caching")
	}

	if got := query.Get("origins"); got != "32.7157,-117.1611" {
		t.Fatalf("origins = %q", got)
	}
	if got := query.Get("destinations"); got != "33.1192,-117.0864" {
		t.Fatalf("destinations = %q", got)
	}
	if query.Get("units") != "metric" || query.Get("mode") != "driving" {
		t.Fatalf("units/mode = %q/%q", query.Get("units"), query.Get("mode"))
	}
	if query.Get("departure_time") != "now" {
		t.Fatalf("departure_time = %q, want now", query.Get("departure_time"))
	}
	if query.Get("traffic_model") != "best_guess" {
		t.Fatalf("traffic_model = %q, want best_guess", query.Get("traffic_model"))
	}
}

func TestFetchDistanceZeroResults(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","rows":[{"elements":[{"status":"ZERO_RESULTS"}]}]}`))
	})

	_, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})

	var pe *ports.ProviderError
	if !errors.As(err, &pe) || pe.Kind != ports.KindZeroResults {
		t.Fatalf("err = %v, want ProviderError with KindZeroResults", err)
	}
}

func TestFetchDistanceQuotaExhausted(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OVER_QUERY_LIMIT","error_message":"quota exceeded"}`))
	})

	_, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})

	var pe *ports.ProviderError
	if !errors.As(err, &pe) || pe.Kind != ports.KindRateLimited {
		t.Fatalf("err = %v, want ProviderError with KindRateLimited", err)
	}
	if pe.Message != "quota exceeded" {
		t.Fatalf("message = %q, want the upstream error_message", pe.Message)
	}
}

func TestFetchDistanceRequestDenied(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"bad key"}`))
	})

	_, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})

	var pe *ports.ProviderError
	if !errors.As(err, &pe) || pe.Kind != ports.KindInvalidRequest {
		t.Fatalf("err = %v, want ProviderError with KindInvalidRequest", err)
	}
}

func TestFetchDistanceHTTPStatuses(t *testing.T) {
	cases := []struct {
		code int
		want ports.ProviderErrorKind
	}{
		{http.StatusTooManyRequests, ports.KindRateLimited},
		{http.StatusInternalServerError, ports.KindTransient},
		{http.StatusForbidden, ports.KindInvalidRequest},
	}

	for _, c := range cases {
		p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(c.code)
		})

		_, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})

		var pe *ports.ProviderError
		if !errors.As(err, &pe) || pe.Kind != c.want {
			t.Errorf("status %d: err = %v, want kind %q", c.code, err, c.want)
		}
	}
}

func TestFetchDistanceMalformedBody(t *testing.T) {
	p := newStubProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := p.FetchDistance(context.Background(), matrixOrigin, matrixDest, ports.TravelOptions{})

	var pe *ports.ProviderError
	if !errors.As(err, &pe) || pe.Kind != ports.KindTransient {
		t.Fatalf("err = %v, want ProviderError with KindTransient", err)
	}
}
