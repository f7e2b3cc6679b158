package distance

import (
	"context"
	"fmt"
	"haul-quote-service/internal/domain"
	"haul-quote-service/internal/ports"
	"sync"
	"time"
)

type MockRoute struct {
	From, To domain.Coordinate
	Meters   int
	Seconds  int
	Err      error
}

// MockDistanceProvider is a deterministic stand-in for the routing API.
// It counts calls and tracks peak concurrent in-flight requests so tests can
// assert worker-pool and rate-limit bounds.
type MockDistanceProvider struct {
	mu          sync.Mutex
	m           map[string]MockRoute
	Delay       time.Duration
	calls       int
	inFlight    int
	maxInFlight int
}

func mockKey(from, to domain.Coordinate) string {
	a, _ := domain.NewRouteKey(from, to)
	return string(a)
}

func NewMockDistanceProvider(routes []MockRoute) *MockDistanceProvider {
	m := make(map[string]MockRoute, len(routes))
	for _, r := range routes {
		m[mockKey(r.From, r.To)] = r
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) FetchDistance(
	ctx context.Context,
	origin, destination domain.Coordinate,
	opts ports.TravelOptions,
) (ports.ProviderResult, error) {
	p.mu.Lock()
	p.calls++
	p.inFlight++
	if p.inFlight > p.maxInFlight {
		p.maxInFlight = p.inFlight
	}
	delay := p.Delay
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inFlight--
		p.mu.Unlock()
	}()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ports.ProviderResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	p.mu.Lock()
	r, ok := p.m[mockKey(origin, destination)]
	p.mu.Unlock()

	if !ok {
		return ports.ProviderResult{}, &ports.ProviderError{
			Kind:    ports.KindZeroResults,
			Message: fmt.Sprintf("missing pair %v -> %v", origin, destination),
		}
	}

	if r.Err != nil {
		return ports.ProviderResult{}, r.Err
	}

	return ports.ProviderResult{
		DistanceMeters:  r.Meters,
		DurationSeconds: r.Seconds,
		RawResponse:     []byte(`{"mock":true}`),
	}, nil
}

// Calls reports how many lookups reached the provider.
func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// MaxInFlight reports the peak number of concurrent lookups observed.
func (p *MockDistanceProvider) MaxInFlight() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.maxInFlight
}
