package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"trip-planner-service/internal/domain"
	"trip-planner-service/internal/platform/obs"
	"trip-planner-service/internal/ports"
)

const (
	defaultORSBaseURL = "https://api.openrouteservice.org"
	// Heavy goods vehicle routing keeps truck restrictions in the estimate.
	defaultORSProfile = "driving-hgv"
)

type ORSConfig struct {
	APIKey     string
	BaseURL    string
	Profile    string
	HTTPClient *http.Client
}

// ORSProvider implements Geocoder and DistanceProvider using OpenRouteService.
//
// It coordinates:
//   - Address normalization
//   - Persistent geocode caching
//   - Persistent distance matrix caching
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type ORSProvider struct {
	session       *http.Client
	apiKey        string
	baseURL       string
	profile       string
	distanceCache ports.DistanceCache
	geocodeCache  ports.GeocodeCache
}

// NewORSProvider builds a provider. Either cache may be nil to disable it.
func NewORSProvider(
	cfg ORSConfig,
	distanceCache ports.DistanceCache,
	geocodeCache ports.GeocodeCache,
) (*ORSProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	provider := &ORSProvider{
		session:       cfg.HTTPClient,
		apiKey:        cfg.APIKey,
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		profile:       cfg.Profile,
		distanceCache: distanceCache,
		geocodeCache:  geocodeCache,
	}
	if provider.session == nil {
		provider.session = &http.Client{Timeout: 10 * time.Second}
	}
	if provider.baseURL == "" {
		provider.baseURL = defaultORSBaseURL
	}
	if provider.profile == "" {
		provider.profile = defaultORSProfile
	}

	return provider, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Geocode resolves addresses, answering from the cache where possible.
// The result is keyed by the addresses exactly as passed in.
func (o *ORSProvider) Geocode(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norms := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			return nil, errors.New("geocode: address must be non-empty")
		}
		norms = append(norms, n)
	}

	coords, err := o.resolveCoordinates(ctx, norms)
	if err != nil {
		return nil, fmt.Errorf("geocode: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(addresses))
	for i, a := range addresses {
		c, ok := coords[norms[i]]
		if !ok {
			return nil, fmt.Errorf("geocode: missing coordinate for %q", a)
		}
		out[a] = c
	}

	return out, nil
}

// resolveCoordinates looks up normalized addresses in the geocode cache and
// geocodes the misses, writing fresh results back to the cache.
func (o *ORSProvider) resolveCoordinates(
	ctx context.Context,
	needed []string,
) (map[string]domain.Coordinates, error) {
	hits := make(map[string]domain.Coordinates)
	if o.geocodeCache != nil {
		var err error
		hits, err = o.geocodeCache.GetMany(ctx, needed)
		if err != nil {
			return nil, fmt.Errorf("ORS get geocode cache: %w", err)
		}
	}

	misses := make([]string, 0, len(needed))
	for _, a := range needed {
		if _, ok := hits[a]; !ok {
			misses = append(misses, a)
		}
	}

	fresh := make(map[string]domain.Coordinates)
	if len(misses) > 0 {
		var err error
		fresh, err = o.geocodeMany(ctx, misses)
		if err != nil {
			return nil, fmt.Errorf("retrieving coordinates: %w", err)
		}
	}

	if o.geocodeCache != nil && len(fresh) > 0 {
		if err := o.geocodeCache.PutMany(ctx, fresh); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	coords := make(map[string]domain.Coordinates, len(hits)+len(fresh))
	for k, v := range hits {
		coords[k] = v
	}
	for k, v := range fresh {
		coords[k] = v
	}

	return coords, nil
}

// Delegate to batched path to reuse caching and matrix logic.
func (o *ORSProvider) GetDistance(
	ctx context.Context,
	origin string,
	destination string,
) (ports.DistanceResult, error) {
	normOrigin := normalize(origin)
	normDestination := normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}

	// Same place: no travel.
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	results, err := o.GetDistances(ctx, normOrigin, []string{normDestination})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf(
			"get distances %q -> %q: %w",
			normOrigin, normDestination, err,
		)
	}

	result, ok := results[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	return result, nil
}

// GetDistanceBetween is GetDistance for callers that already geocoded both
// ends. The distance cache is still consulted; geocoding is skipped.
func (o *ORSProvider) GetDistanceBetween(
	ctx context.Context,
	origin string,
	destination string,
	from domain.Coordinates,
	to domain.Coordinates,
) (_ ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistanceBetween")(&err)

	normOrigin := normalize(origin)
	normDestination := normalize(destination)
	if normOrigin == "" || normDestination == "" {
		return ports.DistanceResult{}, errors.New("get ORS distance: origin and destination must be non-empty")
	}
	if normOrigin == normDestination {
		return ports.DistanceResult{}, nil
	}

	if o.distanceCache != nil {
		hits, err := o.distanceCache.GetMany(ctx, normOrigin, []string{normDestination})
		if err != nil {
			return ports.DistanceResult{}, fmt.Errorf("ORS get distance cache: %w", err)
		}
		if r, ok := hits[normDestination]; ok {
			return r, nil
		}
	}

	fetched, err := o.fetchMatrixRow(ctx, from, []string{normDestination}, []domain.Coordinates{to})
	if err != nil {
		return ports.DistanceResult{}, fmt.Errorf("fetching matrix row %q -> %q: %w", normOrigin, normDestination, err)
	}
	result, ok := fetched[normDestination]
	if !ok {
		return ports.DistanceResult{}, fmt.Errorf("no distance result for %q -> %q", origin, destination)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	return result, nil
}

// Compute distances from a single origin to many destinations.
func (o *ORSProvider) GetDistances(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "ors.GetDistances")(&err)

	normOrigin := normalize(origin)
	if normOrigin == "" {
		return nil, errors.New("origin must be non-empty")
	}

	seen := make(map[string]struct{}, len(destinations))
	destList := make([]string, 0, len(destinations))
	for _, d := range destinations {
		nd := normalize(d)
		if nd == "" || nd == normOrigin {
			continue
		}
		if _, ok := seen[nd]; ok {
			continue
		}
		seen[nd] = struct{}{}
		destList = append(destList, nd)
	}

	if len(destList) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	destinationHits := make(map[string]ports.DistanceResult)
	// Check persistent distance cache before issuing external API calls.
	if o.distanceCache != nil {
		var err error
		destinationHits, err = o.distanceCache.GetMany(ctx, normOrigin, destList)
		if err != nil {
			return nil, fmt.Errorf("ORS get distance cache: %w", err)
		}
	}

	destinationMisses := make([]string, 0, len(destList))
	for _, d := range destList {
		if _, ok := destinationHits[d]; !ok {
			destinationMisses = append(destinationMisses, d)
		}
	}

	if len(destinationMisses) == 0 {
		return destinationHits, nil
	}

	needed := append([]string{normOrigin}, destinationMisses...)
	coords, err := o.resolveCoordinates(ctx, needed)
	if err != nil {
		return nil, err
	}

	originCoord, ok := coords[normOrigin]
	if !ok {
		return nil, fmt.Errorf("missing coordinate for origin %q", normOrigin)
	}

	destinationCoords := make([]domain.Coordinates, 0, len(destinationMisses))
	for _, d := range destinationMisses {
		coord, ok := coords[d]
		if !ok {
			return nil, fmt.Errorf("missing coordinate for destination %q", d)
		}
		destinationCoords = append(destinationCoords, coord)
	}

	// Fetch a single origin->many matrix row for all cache misses.
	fetched, err := o.fetchMatrixRow(ctx, originCoord, destinationMisses, destinationCoords)
	if err != nil {
		return nil, fmt.Errorf("fetching matrix row: %w", err)
	}

	missing := make([]string, 0)
	for _, d := range destinationMisses {
		if _, ok := fetched[d]; !ok {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf(
			"ORS matrix service did not return the following destinations: %s",
			strings.Join(missing, ", "),
		)
	}

	if o.distanceCache != nil {
		if err := o.distanceCache.PutMany(ctx, normOrigin, fetched); err != nil {
			log.Printf("distance cache write failed: %v", err)
		}
	}

	out := make(map[string]ports.DistanceResult, len(destinationHits)+len(fetched))
	for k, v := range destinationHits {
		out[k] = v
	}
	for k, v := range fetched {
		out[k] = v
	}

	return out, nil
}
