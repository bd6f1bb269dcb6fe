package services

import (
	"path/filepath"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"

	"github.com/waesteves/rastreador-api/models"
	"github.com/waesteves/rastreador-api/utils"
)

// TrailLimit caps how many trail points are kept per device, both in memory
// and in the persisted history file.
const TrailLimit = 2000

const historyFile = "historico.json"

// LocationStore holds the latest position and the bounded trail per device.
// The trail map is persisted on every mutation; a failed save is logged and
// dropped.
type LocationStore struct {
	positions cmap.ConcurrentMap[string, models.Location]
	trails    cmap.ConcurrentMap[string, []models.TrailPoint]
	path      string
	logger    zerolog.Logger
}

// NewLocationStore loads any previously persisted trails from dataDir.
func NewLocationStore(dataDir string, logger zerolog.Logger) *LocationStore {
	s := &LocationStore{
		positions: cmap.New[models.Location](),
		trails:    cmap.New[[]models.TrailPoint](),
		path:      filepath.Join(dataDir, historyFile),
		logger:    logger,
	}
	persisted := map[string][]models.TrailPoint{}
	if utils.LoadJSON(s.path, &persisted) {
		for id, points := range persisted {
			if len(points) > TrailLimit {
				points = points[len(points)-TrailLimit:]
			}
			s.trails.Set(id, points)
		}
		logger.Info().Int("devices", len(persisted)).Msg("trail history loaded")
	}
	return s
}

// Update replaces the device's current position, appends to its trail and
// persists the capped trail map.
func (s *LocationStore) Update(loc models.Location) {
	s.positions.Set(loc.DeviceID, loc)
	point := models.TrailPoint{Lat: loc.Lat, Lng: loc.Lng, Timestamp: loc.Timestamp}
	s.trails.Upsert(loc.DeviceID, nil, func(_ bool, current, _ []models.TrailPoint) []models.TrailPoint {
		current = append(current, point)
		if len(current) > TrailLimit {
			current = current[len(current)-TrailLimit:]
		}
		return current
	})
	s.persist()
}

// Current returns the latest position of a device, if any.
func (s *LocationStore) Current(deviceID string) (models.Location, bool) {
	return s.positions.Get(deviceID)
}

// SetAddress caches a resolved address on the device's current position so
// repeated lookups skip re-resolution until the position changes.
func (s *LocationStore) SetAddress(deviceID, endereco string) {
	if loc, ok := s.positions.Get(deviceID); ok {
		loc.Endereco = endereco
		s.positions.Set(deviceID, loc)
	}
}

// List returns the current position of every device.
func (s *LocationStore) List() []models.Location {
	items := s.positions.Items()
	out := make([]models.Location, 0, len(items))
	for _, loc := range items {
		out = append(out, loc)
	}
	return out
}

// Trails returns a snapshot of every device's trail.
func (s *LocationStore) Trails() map[string][]models.TrailPoint {
	return s.trails.Items()
}

// Remove drops a device's current position and trail, persisting when a trail
// existed.
func (s *LocationStore) Remove(deviceID string) {
	s.positions.Remove(deviceID)
	if s.trails.Has(deviceID) {
		s.trails.Remove(deviceID)
		s.persist()
	}
}

func (s *LocationStore) persist() {
	if err := utils.SaveJSON(s.path, s.trails.Items()); err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("trail history save failed")
	}
}
