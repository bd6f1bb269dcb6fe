package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/waesteves/rastreador-api/models"
)

// brazilBBox bounds Photon results to Brazil (lonMin,latMin,lonMax,latMax).
const brazilBBox = "-74,-33,-34,5"

// ForwardGeocoder turns a free-text query (or an 8-digit CEP) into candidate
// coordinates by trying a fixed, ordered list of strategies until one yields
// results. Every stage fails soft; the caller always gets a list, possibly
// empty.
type ForwardGeocoder struct {
	client *GeoClient
	logger zerolog.Logger
}

func NewForwardGeocoder(client *GeoClient, logger zerolog.Logger) *ForwardGeocoder {
	return &ForwardGeocoder{client: client, logger: logger}
}

type geocodeStage struct {
	name string
	run  func(ctx context.Context, query string) []models.GeocodeResult
}

// Search runs the CEP path first (it may rewrite the query from the postal
// record), then the free-text stages in order, stopping at the first stage
// that produces results.
func (f *ForwardGeocoder) Search(ctx context.Context, query string) []models.GeocodeResult {
	results, query := f.searchCEP(ctx, query)
	if len(results) > 0 {
		return results
	}
	for _, stage := range f.stages() {
		if results = stage.run(ctx, query); len(results) > 0 {
			f.logger.Debug().Str("stage", stage.name).Int("results", len(results)).Str("q", query).Msg("geocode stage matched")
			return results
		}
	}
	f.logger.Debug().Str("q", query).Msg("geocode exhausted all stages")
	return nil
}

func (f *ForwardGeocoder) stages() []geocodeStage {
	return []geocodeStage{
		// Photon rejects overly specific queries, so it gets the simplified
		// form; the later Nominatim stages see the full query.
		{"photon", func(ctx context.Context, q string) []models.GeocodeResult {
			return f.client.photonSearch(ctx, simplifyQuery(q), "")
		}},
		{"photon-bbox", func(ctx context.Context, q string) []models.GeocodeResult {
			return f.client.photonSearch(ctx, simplifyQuery(q), brazilBBox)
		}},
		{"nominatim-brasil", func(ctx context.Context, q string) []models.GeocodeResult {
			return f.client.nominatimFreeText(ctx, q+", Brasil")
		}},
		{"nominatim-city", f.cityFallback},
		{"nominatim-raw", f.client.nominatimFreeText},
	}
}

// searchCEP resolves 8-digit postal codes through ViaCEP plus a structured
// Nominatim search (street+city first, then city only). When the postal
// record has address parts but no stage produced coordinates, the returned
// query is rewritten from those parts for the free-text stages.
func (f *ForwardGeocoder) searchCEP(ctx context.Context, query string) ([]models.GeocodeResult, string) {
	cep := digitsOnly(query)
	if len(cep) != 8 {
		return nil, query
	}

	data, err := f.client.viaCEPLookup(ctx, cep)
	if err != nil {
		f.logger.Debug().Err(err).Str("cep", cep).Msg("viacep lookup failed")
		return nil, query
	}
	if data.NotFound() {
		return nil, query
	}

	var results []models.GeocodeResult
	if data.Logradouro != "" && data.Localidade != "" {
		results = f.client.nominatimStructured(ctx, data.Logradouro, data.Localidade, data.UF)
	}
	if len(results) == 0 && data.Localidade != "" {
		results = f.client.nominatimStructured(ctx, "", data.Localidade, data.UF)
	}
	if len(results) == 0 {
		if rewritten := joinParts(data.Logradouro, data.Bairro, data.Localidade, data.UF); rewritten != "" {
			f.logger.Debug().Str("cep", cep).Str("q", rewritten).Msg("query rewritten from postal record")
			query = rewritten
		}
	}
	return results, query
}

// cityFallback retries with just "<city>, <state>, Brasil" when the query
// looks like a full address.
func (f *ForwardGeocoder) cityFallback(ctx context.Context, query string) []models.GeocodeResult {
	if !strings.Contains(query, " ") {
		return nil
	}
	parts := splitParts(query)
	if len(parts) < 2 {
		return nil
	}
	simple := parts[len(parts)-2] + ", " + parts[len(parts)-1] + ", Brasil"
	return f.client.nominatimFreeText(ctx, simple)
}

// simplifyQuery collapses "Rua X, Bairro, Cidade, SP" down to "Rua X, Cidade":
// first part plus the city, where the city is the second-to-last part when
// the last one is a 2-letter state abbreviation.
func simplifyQuery(query string) string {
	parts := splitParts(query)
	if len(parts) <= 2 {
		return query
	}
	last := parts[len(parts)-1]
	city := last
	if len([]rune(last)) == 2 {
		city = parts[len(parts)-2]
	}
	return parts[0] + ", " + city
}

func splitParts(query string) []string {
	raw := strings.Split(query, ",")
	parts := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
