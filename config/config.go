package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config carries everything the server needs from the environment. Upstream
// base URLs are configurable so tests can point them at local fakes.
type Config struct {
	Port         int
	Debug        bool
	DataDir      string
	StaticDir    string
	NominatimURL string
	PhotonURL    string
	ViaCEPURL    string
}

// Load reads configuration from the environment, loading a local .env file
// first when one is present.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         10000,
		Debug:        os.Getenv("DEBUG") == "1",
		DataDir:      getenv("DATA_DIR", "."),
		StaticDir:    getenv("STATIC_DIR", "static"),
		NominatimURL: getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		PhotonURL:    getenv("PHOTON_URL", "https://photon.komoot.io"),
		ViaCEPURL:    getenv("VIACEP_URL", "https://viacep.com.br"),
	}
	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		cfg.Port = port
	}
	return cfg
}

// NewLogger builds the process logger. Debug mode lowers the level so the
// per-request log and geocoding stage traces show up.
func NewLogger(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
