package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the recommendation client.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server, 0 disables it.
// - BackendURL: Base URL of the recommendation backend.
// - Timeout: HTTP timeout for backend calls, 0 means no timeout.
// - RateLimit: Maximum backend requests per second.
// - Map: Map surface settings.
// - Defaults: Initial values of the search form.
type Config struct {
	Env        string        `yaml:"env"`          // Env is the current environment: local, development, production.
	Port       int           `yaml:"health_port"`  // Port is the monitoring server port.
	BackendURL string        `yaml:"backend_url"`  // BackendURL is the recommendation backend base URL.
	Timeout    time.Duration `yaml:"timeout"`      // Timeout is applied to every backend request when non-zero.
	RateLimit  int           `yaml:"rate_limit"`   // RateLimit is the number of backend requests per second.
	Map        MapConfig     `yaml:"map"`          // Map holds the map surface configuration.
	Defaults   FormDefaults  `yaml:"form_default"` // Defaults holds the initial form values.
}

// MapConfig selects and configures the map surface.
type MapConfig struct {
	Surface string `yaml:"surface"` // Surface is the surface type: geojson, google or memory.
	Output  string `yaml:"output"`  // Output is the file the surface is published to.
	APIKey  string `yaml:"api_key"` // APIKey is the Google Maps key (google surface only).
}

// FormDefaults are the raw values the search form starts with.
// They are validated on every search, not at load time.
type FormDefaults struct {
	Query      string `yaml:"query"`
	UserID     string `yaml:"user_id"`
	Lat        string `yaml:"lat"`
	Lng        string `yaml:"lng"`
	RadiusM    string `yaml:"radius_m"`
	MaxResults string `yaml:"max_results"`
	Categories string `yaml:"categories"`
}

// MustLoad loads the configuration from the environment (and an optional .env file)
// and returns a Config struct. It panics when a numeric value cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("COMPASS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil {
		panic("failed to parse timeout from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("health_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := strconv.Atoi(v.GetString("rate_limit"))
	if err != nil {
		panic("failed to parse rate limit from configuration, must be an integer types")
	}

	return &Config{
		Env:        v.GetString("env"),
		Port:       healthPort,
		BackendURL: strings.TrimRight(v.GetString("backend_url"), "/"),
		Timeout:    timeout,
		RateLimit:  rateLimit,
		Map: MapConfig{
			Surface: v.GetString("map_surface"),
			Output:  v.GetString("map_output"),
			APIKey:  v.GetString("google_maps_key"),
		},
		Defaults: FormDefaults{
			Query:      v.GetString("query"),
			UserID:     v.GetString("user_id"),
			Lat:        v.GetString("lat"),
			Lng:        v.GetString("lng"),
			RadiusM:    v.GetString("radius_m"),
			MaxResults: v.GetString("max_results"),
			Categories: v.GetString("categories"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("health_port", "8080")
	v.SetDefault("backend_url", "http://localhost:8000")
	v.SetDefault("timeout", "0s")
	v.SetDefault("rate_limit", "5")
	v.SetDefault("map_surface", "geojson")
	v.SetDefault("map_output", "map.geojson")
	v.SetDefault("google_maps_key", "")
	v.SetDefault("query", "quiet coffee shop to work")
	v.SetDefault("user_id", "")
	v.SetDefault("lat", "30.4213")
	v.SetDefault("lng", "-87.2169")
	v.SetDefault("radius_m", "2000")
	v.SetDefault("max_results", "5")
	v.SetDefault("categories", "")
}
