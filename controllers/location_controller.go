package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/waesteves/rastreador-api/models"
	"github.com/waesteves/rastreador-api/services"
)

// fallbackDeviceID keeps single-device installs working without any setup.
const fallbackDeviceID = "dispositivo_1"

type LocationController struct {
	Store    *services.LocationStore
	Geocoder *services.Geocoder
	Hub      *services.RealtimeHub
}

func NewLocationController(store *services.LocationStore, geocoder *services.Geocoder, hub *services.RealtimeHub) *LocationController {
	return &LocationController{Store: store, Geocoder: geocoder, Hub: hub}
}

type locationInput struct {
	DeviceID  string   `json:"device_id"`
	Lat       *float64 `json:"lat" binding:"required"`
	Lng       *float64 `json:"lng" binding:"required"`
	Timestamp *float64 `json:"timestamp"`
	Bateria   any      `json:"bateria"`
}

// Receive ingests a position pushed by the tracker app.
func (lc *LocationController) Receive(c *gin.Context) {
	var input locationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Dados inválidos"})
		return
	}

	deviceID := input.DeviceID
	if deviceID == "" {
		deviceID = fallbackDeviceID
	}
	timestamp := float64(time.Now().UnixMilli()) / 1000
	if input.Timestamp != nil {
		timestamp = *input.Timestamp
	}

	loc := models.Location{
		DeviceID:  deviceID,
		Lat:       *input.Lat,
		Lng:       *input.Lng,
		Timestamp: timestamp,
		Bateria:   parseBattery(input.Bateria),
	}
	lc.Store.Update(loc)
	lc.Hub.BroadcastLocation(loc)

	c.JSON(http.StatusOK, gin.H{"ok": true, "mensagem": "Localização recebida"})
}

// List returns the current position of every device.
func (lc *LocationController) List(c *gin.Context) {
	c.JSON(http.StatusOK, lc.Store.List())
}

// History returns every device's trail for drawing the path.
func (lc *LocationController) History(c *gin.Context) {
	c.JSON(http.StatusOK, lc.Store.Trails())
}

// Address reverse-geocodes a device's current position, caching the result on
// the position record.
func (lc *LocationController) Address(c *gin.Context) {
	deviceID := c.Param("device_id")
	loc, ok := lc.Store.Current(deviceID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"erro": "Dispositivo não encontrado"})
		return
	}

	if loc.Endereco == "" {
		loc.Endereco = lc.Geocoder.ResolveAddress(c.Request.Context(), loc.Lat, loc.Lng)
		lc.Store.SetAddress(deviceID, loc.Endereco)
	}

	resp := gin.H{
		"device_id": deviceID,
		"endereco":  loc.Endereco,
		"lat":       loc.Lat,
		"lng":       loc.Lng,
	}
	if loc.Bateria != nil {
		resp["bateria"] = *loc.Bateria
	}
	c.JSON(http.StatusOK, resp)
}

// parseBattery accepts JSON numbers and numeric strings; anything else, or a
// value outside [0,100], is dropped to absent.
func parseBattery(v any) *float64 {
	var b float64
	switch t := v.(type) {
	case float64:
		b = t
	case string:
		parsed, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return nil
		}
		b = parsed
	default:
		return nil
	}
	if b < 0 || b > 100 {
		return nil
	}
	return &b
}
