package distance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/platform/obs"
	"haul-quote-service/internal/ports"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GoogleDistanceProvider implements DistanceProvider against the Google
// Distance Matrix API.
//
// It confines request construction, response parsing, and error
// classification. Caching and retry policy live with the caller; the adapter
// issues exactly one HTTP call per FetchDistance.
//
// The provider is safe for concurrent use.
type GoogleDistanceProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewGoogleDistanceProvider(apiKey string) (*GoogleDistanceProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}

	return &GoogleDistanceProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://maps.googleapis.com/maps/api",
	}, nil
}

type matrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
			DurationInTraffic *struct {
				Value int `json:"value"`
			} `json:"duration_in_traffic"`
		} `json:"elements"`
	} `json:"rows"`
}

func formatCoordinate(c domain.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}

// FetchDistance retrieves drive distance and duration for one route.
func (g *GoogleDistanceProvider) FetchDistance(
	ctx context.Context,
	origin, destination domain.Coordinate,
	opts ports.TravelOptions,
) (_ ports.ProviderResult, err error) {
	defer obs.Time(ctx, "google.FetchDistance")(&err)

	params := url.Values{}
	params.Set("origins", formatCoordinate(origin))
	params.Set("destinations", formatCoordinate(destination))
	params.Set("mode", "driving")
	params.Set("units", "metric")
	params.Set("key", g.apiKey)

	// Traffic-aware durations require a departure time.
	if opts.DepartureTime != nil {
		params.Set("departure_time", strconv.FormatInt(opts.DepartureTime.Unix(), 10))
	} else {
		params.Set("departure_time", "now")
	}

	model := opts.TrafficModel
	if model == "" {
		model = "best_guess"
	}
	params.Set("traffic_model", model)

	endpoint := g.baseURL + "/distancematrix/json?" + params.Encode()

	req, err := g.newRequest(ctx, endpoint)
	if err != nil {
		return ports.ProviderResult{}, fmt.Errorf("distance matrix request: %w", err)
	}

	body, err := g.do(req)
	if err != nil {
		return ports.ProviderResult{}, classifyTransport(err)
	}

	var decoded matrixResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return ports.ProviderResult{}, &ports.ProviderError{
			Kind:    ports.KindTransient,
			Message: "undecodable distance matrix response",
			Err:     err,
		}
	}

	if decoded.Status != "OK" {
		return ports.ProviderResult{}, classifyStatus(decoded.Status, decoded.ErrorMessage)
	}

	if len(decoded.Rows) != 1 || len(decoded.Rows[0].Elements) != 1 {
		return ports.ProviderResult{}, &ports.ProviderError{
			Kind:    ports.KindTransient,
			Message: fmt.Sprintf("expected a 1x1 matrix, got %d rows", len(decoded.Rows)),
		}
	}

	element := decoded.Rows[0].Elements[0]
	switch element.Status {
	case "OK":
	case "ZERO_RESULTS", "NOT_FOUND":
		return ports.ProviderResult{}, &ports.ProviderError{
			Kind:    ports.KindZeroResults,
			Message: "no drivable route between the endpoints",
		}
	default:
		return ports.ProviderResult{}, classifyStatus(element.Status, "")
	}

	result := ports.ProviderResult{
		DistanceMeters:  element.Distance.Value,
		DurationSeconds: element.Duration.Value,
		RawResponse:     body,
	}
	if element.DurationInTraffic != nil {
		v := element.DurationInTraffic.Value
		result.DurationInTrafficSeconds = &v
	}

	return result, nil
}
