package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAddressCachesByRoundedCoordinates(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "16", r.URL.Query().Get("zoom"))
		assert.Equal(t, "1", r.URL.Query().Get("addressdetails"))
		assert.Equal(t, "pt", r.URL.Query().Get("accept-language"))
		fmt.Fprint(w, `{"address":{"road":"Avenida Paulista","neighbourhood":"Bela Vista","city":"São Paulo"}}`)
	}))
	defer srv.Close()

	gc := NewGeocoder(NewGeoClient(srv.URL, srv.URL, srv.URL), zerolog.Nop())

	first := gc.ResolveAddress(context.Background(), -23.561414, -46.655881)
	assert.Equal(t, "Avenida Paulista, Bela Vista, São Paulo", first)

	// rounds to the same 4-decimal key, so no second upstream call
	second := gc.ResolveAddress(context.Background(), -23.5614141, -46.6558809)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// a different rounded key fetches again
	gc.ResolveAddress(context.Background(), -23.5700, -46.6600)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestResolveAddressUpstreamFailureIsNotCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	gc := NewGeocoder(NewGeoClient(srv.URL, srv.URL, srv.URL), zerolog.Nop())

	assert.Equal(t, addressUnavailable, gc.ResolveAddress(context.Background(), -23.55, -46.63))
	assert.Equal(t, addressUnavailable, gc.ResolveAddress(context.Background(), -23.55, -46.63))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls), "failures must not populate the cache")
}

func TestResolveAddressEmptyResultIsCached(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		fmt.Fprint(w, `{"address":{}}`)
	}))
	defer srv.Close()

	gc := NewGeocoder(NewGeoClient(srv.URL, srv.URL, srv.URL), zerolog.Nop())

	require.Equal(t, addressNotFound, gc.ResolveAddress(context.Background(), -23.55, -46.63))
	require.Equal(t, addressNotFound, gc.ResolveAddress(context.Background(), -23.55, -46.63))
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFormatAddressFieldPriorities(t *testing.T) {
	tests := []struct {
		name string
		addr nominatimAddress
		want string
	}{
		{
			name: "all three parts",
			addr: nominatimAddress{Road: "Rua Augusta", Neighbourhood: "Consolação", City: "São Paulo"},
			want: "Rua Augusta, Consolação, São Paulo",
		},
		{
			name: "street and pedestrian stand in for road",
			addr: nominatimAddress{Pedestrian: "Calçadão da XV", City: "Curitiba"},
			want: "Calçadão da XV, Curitiba",
		},
		{
			name: "neighbourhood beats suburb",
			addr: nominatimAddress{Neighbourhood: "Bela Vista", Suburb: "Sé", City: "São Paulo"},
			want: "Bela Vista, São Paulo",
		},
		{
			name: "suburb when no neighbourhood",
			addr: nominatimAddress{Suburb: "Sé", City: "São Paulo"},
			want: "Sé, São Paulo",
		},
		{
			name: "city beats town and county",
			addr: nominatimAddress{City: "Campinas", Town: "Valinhos", County: "Região de Campinas"},
			want: "Campinas",
		},
		{
			name: "village when no city or town",
			addr: nominatimAddress{Village: "Trindade"},
			want: "Trindade",
		},
		{
			name: "municipality before county",
			addr: nominatimAddress{Municipality: "Angra dos Reis", County: "Costa Verde"},
			want: "Angra dos Reis",
		},
		{
			name: "nothing resolves",
			addr: nominatimAddress{},
			want: addressNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatAddress(tt.addr))
		})
	}
}

func TestCacheKeyRounding(t *testing.T) {
	assert.Equal(t, "-23.5614_-46.6559", cacheKey(-23.56141, -46.65588))
	assert.Equal(t, cacheKey(-23.56141, -46.65588), cacheKey(-23.561414, -46.655881))
	assert.NotEqual(t, cacheKey(-23.5614, -46.6559), cacheKey(-23.5615, -46.6559))
}
