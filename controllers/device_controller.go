package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waesteves/rastreador-api/services"
)

type DeviceController struct {
	Registry *services.DeviceRegistry
}

func NewDeviceController(registry *services.DeviceRegistry) *DeviceController {
	return &DeviceController{Registry: registry}
}

// Names returns the registry (name, icon and color per device).
func (dc *DeviceController) Names(c *gin.Context) {
	c.JSON(http.StatusOK, dc.Registry.All())
}

type saveNameInput struct {
	DeviceID string `json:"device_id"`
	Nome     string `json:"nome"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

// Save upserts display metadata under a caller-supplied device id.
func (dc *DeviceController) Save(c *gin.Context) {
	var input saveNameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Dados inválidos"})
		return
	}
	if input.DeviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "device_id obrigatório"})
		return
	}
	dc.Registry.Upsert(input.DeviceID, input.Nome, input.Icon, input.Color)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type registerInput struct {
	Nome  string `json:"nome"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// Register creates a new tracker and returns the generated device id the app
// should be configured with.
func (dc *DeviceController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Dados inválidos"})
		return
	}
	deviceID, info, err := dc.Registry.Register(input.Nome, input.Icon, input.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Nome obrigatório"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"device_id": deviceID,
		"nome":      info.Nome,
		"icon":      info.Icon,
		"color":     info.Color,
	})
}

// Remove deletes a registered device and all of its data.
func (dc *DeviceController) Remove(c *gin.Context) {
	if err := dc.Registry.Delete(c.Param("device_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"erro": "Dispositivo não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
