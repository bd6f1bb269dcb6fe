package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/waesteves/rastreador-api/models"
	"github.com/waesteves/rastreador-api/services"
)

type GeocodeController struct {
	Geocoder *services.ForwardGeocoder
}

func NewGeocodeController(geocoder *services.ForwardGeocoder) *GeocodeController {
	return &GeocodeController{Geocoder: geocoder}
}

// Search proxies address search through the server so the browser never talks
// to the upstream services directly (avoids CORS there).
func (gc *GeocodeController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"erro": "Parâmetro q obrigatório"})
		return
	}
	results := gc.Geocoder.Search(c.Request.Context(), query)
	if results == nil {
		results = []models.GeocodeResult{}
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
