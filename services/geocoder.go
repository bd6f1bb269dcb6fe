package services

import (
	"context"
	"fmt"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"
)

const (
	// Fixed fallback strings returned to viewers; the app renders them as-is.
	addressNotFound    = "Endereço não encontrado"
	addressUnavailable = "Endereço não disponível"
)

// Geocoder resolves coordinates to a short "rua, bairro, cidade" string,
// caching results per rounded coordinate pair for the life of the process.
type Geocoder struct {
	client *GeoClient
	cache  cmap.ConcurrentMap[string, string]
	logger zerolog.Logger
}

func NewGeocoder(client *GeoClient, logger zerolog.Logger) *Geocoder {
	return &Geocoder{
		client: client,
		cache:  cmap.New[string](),
		logger: logger,
	}
}

// ResolveAddress returns the formatted address for the coordinates. Repeated
// lookups for the same rounded coordinates are served from the cache; an
// upstream failure yields a fixed placeholder and is not cached.
func (gc *Geocoder) ResolveAddress(ctx context.Context, lat, lng float64) string {
	key := cacheKey(lat, lng)
	if cached, ok := gc.cache.Get(key); ok {
		return cached
	}

	addr, err := gc.client.nominatimReverse(ctx, lat, lng)
	if err != nil {
		gc.logger.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("reverse geocoding failed")
		return addressUnavailable
	}
	endereco := formatAddress(addr)
	gc.cache.Set(key, endereco)
	return endereco
}

// cacheKey rounds both coordinates to 4 decimal places (roughly 11 m), which
// is enough to reuse the answer for nearby fixes.
func cacheKey(lat, lng float64) string {
	return fmt.Sprintf("%.4f_%.4f", lat, lng)
}

// formatAddress builds "rua, bairro, cidade", dropping absent parts. Field
// priority mirrors Nominatim's granularity: neighbourhood is more local than
// suburb, city more specific than municipality or county.
func formatAddress(addr nominatimAddress) string {
	rua := firstNonEmpty(addr.Road, addr.Street, addr.Pedestrian)
	bairro := firstNonEmpty(addr.Neighbourhood, addr.Suburb, addr.Quarter, addr.CityDistrict, addr.District, addr.Residential)
	cidade := firstNonEmpty(addr.City, addr.Town, addr.Village, addr.Municipality, addr.County)

	parts := make([]string, 0, 3)
	for _, p := range []string{rua, bairro, cidade} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return addressNotFound
	}
	return strings.Join(parts, ", ")
}
