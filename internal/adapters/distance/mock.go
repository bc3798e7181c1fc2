package distance

import (
	"context"
	"fmt"
	"sync"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/ports"
)

type MockPair struct {
	From, To string
	Meters   int
	Seconds  int
}

// MockDistanceProvider answers from a fixed table of pairs. Safe for concurrent use.
type MockDistanceProvider struct {
	m     map[string]ports.DistanceResult
	mu    sync.Mutex
	calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]ports.DistanceResult, len(pairs))
	for _, p := range pairs {
		m[p.From+"|"+p.To] = ports.DistanceResult{DistanceMeters: p.Meters, DurationSeconds: p.Seconds}
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) GetDistance(ctx context.Context, origin, destination string) (ports.DistanceResult, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return ports.DistanceResult{}, err
	}

	r, ok := p.m[origin+"|"+destination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("missing pair %q -> %q", origin, destination)
	}

	return r, nil
}

func (p *MockDistanceProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

// MockGeocoder resolves addresses from a fixed table and fails on anything else.
type MockGeocoder struct {
	Coords map[string]domain.Coordinates
}

func (g *MockGeocoder) Geocode(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	out := make(map[string]domain.Coordinates, len(addresses))
	for _, a := range addresses {
		c, ok := g.Coords[a]
		if !ok {
			return nil, fmt.Errorf("could not geocode %q", a)
		}
		out[a] = c
	}
	return out, nil
}
