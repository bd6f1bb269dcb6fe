package services

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/rs/zerolog"

	"github.com/waesteves/rastreador-api/models"
	"github.com/waesteves/rastreador-api/utils"
)

const (
	namesFile = "nomes_dispositivos.json"

	// DefaultIcon and DefaultColor are applied when a device is registered
	// without display preferences.
	DefaultIcon  = "🚗"
	DefaultColor = "#00d4aa"
)

var (
	// ErrNameRequired is returned when a registration carries no usable name.
	ErrNameRequired = errors.New("nome is required")
	// ErrDeviceNotFound is returned when removing an unregistered device.
	ErrDeviceNotFound = errors.New("device not registered")
)

// DeviceRegistry maps device ids to display metadata, persisted to a JSON
// file. Deleting a device cascades into the location store.
type DeviceRegistry struct {
	devices   cmap.ConcurrentMap[string, models.DeviceInfo]
	locations *LocationStore
	path      string
	logger    zerolog.Logger
}

// NewDeviceRegistry loads the persisted registry from dataDir.
func NewDeviceRegistry(dataDir string, locations *LocationStore, logger zerolog.Logger) *DeviceRegistry {
	r := &DeviceRegistry{
		devices:   cmap.New[models.DeviceInfo](),
		locations: locations,
		path:      filepath.Join(dataDir, namesFile),
		logger:    logger,
	}
	persisted := map[string]models.DeviceInfo{}
	if utils.LoadJSON(r.path, &persisted) {
		for id, info := range persisted {
			r.devices.Set(id, info)
		}
	}
	return r
}

// Register creates a device with a generated id ("R" plus five digits),
// retried until it does not collide with an existing entry.
func (r *DeviceRegistry) Register(nome, icon, color string) (string, models.DeviceInfo, error) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		return "", models.DeviceInfo{}, ErrNameRequired
	}

	deviceID := newDeviceID()
	for r.devices.Has(deviceID) {
		deviceID = newDeviceID()
	}

	info := models.DeviceInfo{
		Nome:  nome,
		Icon:  orDefault(icon, DefaultIcon),
		Color: orDefault(color, DefaultColor),
	}
	r.devices.Set(deviceID, info)
	r.persist()
	r.logger.Info().Str("device_id", deviceID).Str("nome", nome).Msg("device registered")
	return deviceID, info, nil
}

// Upsert sets the display metadata of an existing or new device under a
// caller-supplied id. A blank name falls back to the id itself.
func (r *DeviceRegistry) Upsert(deviceID, nome, icon, color string) {
	nome = strings.TrimSpace(nome)
	if nome == "" {
		nome = deviceID
	}
	r.devices.Set(deviceID, models.DeviceInfo{
		Nome:  nome,
		Icon:  orDefault(icon, DefaultIcon),
		Color: orDefault(color, DefaultColor),
	})
	r.persist()
}

// Delete removes a registered device along with its current position and
// trail. Unknown ids report ErrDeviceNotFound and mutate nothing.
func (r *DeviceRegistry) Delete(deviceID string) error {
	if !r.devices.Has(deviceID) {
		return ErrDeviceNotFound
	}
	r.devices.Remove(deviceID)
	r.persist()
	r.locations.Remove(deviceID)
	r.logger.Info().Str("device_id", deviceID).Msg("device removed")
	return nil
}

// All returns a snapshot of the registry.
func (r *DeviceRegistry) All() map[string]models.DeviceInfo {
	return r.devices.Items()
}

func (r *DeviceRegistry) persist() {
	if err := utils.SaveJSON(r.path, r.devices.Items()); err != nil {
		r.logger.Warn().Err(err).Str("path", r.path).Msg("registry save failed")
	}
}

func newDeviceID() string {
	return fmt.Sprintf("R%d", rand.Intn(90000)+10000)
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}
