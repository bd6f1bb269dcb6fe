package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/waesteves/rastreador-api/models"
)

const (
	userAgent   = "RastreadorAPI/1.0"
	resultLimit = 10

	// Postal and reverse lookups answer fast; full-text search can be slow.
	lookupTimeout = 5 * time.Second
	searchTimeout = 10 * time.Second
)

// GeoClient wraps the external geocoding services (Nominatim, Photon and
// ViaCEP) behind typed calls with bounded timeouts. Base URLs are injected so
// tests can stand in local fakes.
type GeoClient struct {
	nominatimURL string
	photonURL    string
	viacepURL    string
	http         *http.Client
}

func NewGeoClient(nominatimURL, photonURL, viacepURL string) *GeoClient {
	return &GeoClient{
		nominatimURL: strings.TrimRight(nominatimURL, "/"),
		photonURL:    strings.TrimRight(photonURL, "/"),
		viacepURL:    strings.TrimRight(viacepURL, "/"),
		http:         &http.Client{},
	}
}

func (g *GeoClient) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "pt-BR")
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---- Nominatim ----

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// nominatimAddress carries the address components used to build the short
// "street, neighbourhood, city" form.
type nominatimAddress struct {
	Road          string `json:"road"`
	Street        string `json:"street"`
	Pedestrian    string `json:"pedestrian"`
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	Quarter       string `json:"quarter"`
	CityDistrict  string `json:"city_district"`
	District      string `json:"district"`
	Residential   string `json:"residential"`
	City          string `json:"city"`
	Town          string `json:"town"`
	Village       string `json:"village"`
	Municipality  string `json:"municipality"`
	County        string `json:"county"`
}

type nominatimReverseResponse struct {
	Address nominatimAddress `json:"address"`
}

func (g *GeoClient) nominatimSearch(ctx context.Context, params url.Values) []models.GeocodeResult {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params.Set("format", "json")
	params.Set("limit", strconv.Itoa(resultLimit))
	var places []nominatimPlace
	if err := g.getJSON(ctx, g.nominatimURL+"/search?"+params.Encode(), &places); err != nil {
		return nil
	}
	return nominatimResults(places)
}

// nominatimFreeText searches a free-form query restricted to Brazil.
func (g *GeoClient) nominatimFreeText(ctx context.Context, query string) []models.GeocodeResult {
	params := url.Values{}
	params.Set("q", query)
	params.Set("countrycodes", "br")
	return g.nominatimSearch(ctx, params)
}

// nominatimStructured issues a structured address search. street may be
// empty for a city-level search.
func (g *GeoClient) nominatimStructured(ctx context.Context, street, city, state string) []models.GeocodeResult {
	params := url.Values{}
	if street != "" {
		params.Set("street", street)
	}
	params.Set("city", city)
	if state != "" {
		params.Set("state", state)
	}
	params.Set("country", "Brasil")
	return g.nominatimSearch(ctx, params)
}

// nominatimReverse resolves coordinates to address components. zoom=16 keeps
// the match at street/neighbourhood precision.
func (g *GeoClient) nominatimReverse(ctx context.Context, lat, lng float64) (nominatimAddress, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))
	params.Set("format", "json")
	params.Set("zoom", "16")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "pt")

	var resp nominatimReverseResponse
	err := g.getJSON(ctx, g.nominatimURL+"/reverse?"+params.Encode(), &resp)
	return resp.Address, err
}

func nominatimResults(places []nominatimPlace) []models.GeocodeResult {
	var out []models.GeocodeResult
	for _, p := range places {
		lat, errLat := strconv.ParseFloat(p.Lat, 64)
		lng, errLng := strconv.ParseFloat(p.Lon, 64)
		if errLat != nil || errLng != nil {
			continue
		}
		out = append(out, models.GeocodeResult{Lat: lat, Lng: lng, DisplayName: p.DisplayName})
		if len(out) >= resultLimit {
			break
		}
	}
	return out
}

// ---- Photon ----

type photonFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name        string `json:"name"`
		Street      string `json:"street"`
		HouseNumber string `json:"housenumber"`
		Locality    string `json:"locality"`
		District    string `json:"district"`
		City        string `json:"city"`
		State       string `json:"state"`
	} `json:"properties"`
}

type photonResponse struct {
	Features []photonFeature `json:"features"`
}

// photonSearch queries Photon, optionally constrained to a bounding box
// ("lonMin,latMin,lonMax,latMax").
func (g *GeoClient) photonSearch(ctx context.Context, query, bbox string) []models.GeocodeResult {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(resultLimit))
	if bbox != "" {
		params.Set("bbox", bbox)
	}
	var resp photonResponse
	if err := g.getJSON(ctx, g.photonURL+"/api/?"+params.Encode(), &resp); err != nil {
		return nil
	}
	return photonResults(resp.Features)
}

func photonResults(features []photonFeature) []models.GeocodeResult {
	var out []models.GeocodeResult
	for _, f := range features {
		if len(f.Geometry.Coordinates) < 2 {
			continue
		}
		lng, lat := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		p := f.Properties
		label := joinParts(
			firstNonEmpty(p.Street, p.Name),
			p.HouseNumber,
			firstNonEmpty(p.Locality, p.District),
			p.City,
			p.State,
		)
		if label == "" {
			label = p.Name
		}
		if label == "" {
			label = fmt.Sprintf("%g, %g", lat, lng)
		}
		out = append(out, models.GeocodeResult{Lat: lat, Lng: lng, DisplayName: label})
		if len(out) >= resultLimit {
			break
		}
	}
	return out
}

// ---- ViaCEP ----

type viaCEPResponse struct {
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	// ViaCEP signals an unknown CEP with {"erro": true} (a quoted "true" in
	// some deployments), so the field is kept raw.
	Erro json.RawMessage `json:"erro"`
}

func (v viaCEPResponse) NotFound() bool {
	return strings.Trim(string(v.Erro), `" `) == "true"
}

func (g *GeoClient) viaCEPLookup(ctx context.Context, cep string) (viaCEPResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	var resp viaCEPResponse
	err := g.getJSON(ctx, fmt.Sprintf("%s/ws/%s/json/", g.viacepURL, cep), &resp)
	return resp, err
}

// ---- shared helpers ----

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func joinParts(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
