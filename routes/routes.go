package routes

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/waesteves/rastreador-api/config"
	"github.com/waesteves/rastreador-api/controllers"
	"github.com/waesteves/rastreador-api/middlewares"
	"github.com/waesteves/rastreador-api/services"
)

// SetupRouter wires the stores, geocoders and controllers into the HTTP
// surface. All shared state lives in the services built here; nothing is a
// package-level global.
func SetupRouter(cfg config.Config, logger zerolog.Logger) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	store := services.NewLocationStore(cfg.DataDir, logger)
	registry := services.NewDeviceRegistry(cfg.DataDir, store, logger)
	client := services.NewGeoClient(cfg.NominatimURL, cfg.PhotonURL, cfg.ViaCEPURL)
	hub := services.NewRealtimeHub()

	health := controllers.NewHealthController()
	locations := controllers.NewLocationController(store, services.NewGeocoder(client, logger), hub)
	devices := controllers.NewDeviceController(registry)
	geocode := controllers.NewGeocodeController(services.NewForwardGeocoder(client, logger))
	realtime := controllers.NewRealtimeController(hub)

	r := gin.New()
	r.Use(middlewares.RequestLogger(logger))
	// Ingestion promises to always answer; panics come back as a 500 with
	// the failure text in the body.
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"erro": fmt.Sprint(err)})
	}))
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/ping", health.Ping)
		api.POST("/localizacao", locations.Receive)
		api.GET("/localizacoes", locations.List)
		api.GET("/historico", locations.History)
		api.GET("/endereco/:device_id", locations.Address)
		api.GET("/nomes", devices.Names)
		api.POST("/nomes", devices.Save)
		api.POST("/cadastrar", devices.Register)
		api.DELETE("/dispositivo/:device_id", devices.Remove)
		api.GET("/geocode", geocode.Search)
	}

	r.GET("/ws", realtime.LocationsWS)
	r.GET("/favicon.ico", health.Favicon)
	r.GET("/", func(c *gin.Context) {
		c.File(filepath.Join(cfg.StaticDir, "mapa.html"))
	})
	staticFS := http.Dir(cfg.StaticDir)
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada"})
			return
		}
		// only plain files; directory paths 404 instead of listing
		f, err := staticFS.Open(c.Request.URL.Path)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada"})
			return
		}
		info, err := f.Stat()
		f.Close()
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"erro": "Rota não encontrada"})
			return
		}
		c.FileFromFS(c.Request.URL.Path, staticFS)
	})

	return r
}
