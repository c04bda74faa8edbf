// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"foodiehub/models"
	"foodiehub/store"
)

// DevJWTSecret signs tokens when DEV_MODE is on and JWT_SECRET is unset.
const DevJWTSecret = "foodiehub-dev-secret"

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port     string
	GinMode  string
	DevMode  bool
	SeedData bool

	StoreDriver   string
	DatabaseURL   string
	MongoURI      string
	MongoDatabase string
	StoreTimeout  time.Duration

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	CORSOrigins []string

	UI UI
}

// UI is the client configuration served at /api/config.
type UI struct {
	AppName        string            `json:"appName"`
	AppDescription string            `json:"appDescription"`
	CountryFlags   map[string]string `json:"countryFlags"`
	Roles          []models.UserRole `json:"roles"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		GinMode:       strings.TrimSpace(os.Getenv("GIN_MODE")),
		DevMode:       parseBool(os.Getenv("DEV_MODE")),
		SeedData:      parseBool(os.Getenv("SEED_DATA")),
		StoreDriver:   strings.ToLower(fallback(os.Getenv("STORE_DRIVER"), store.DriverSQLite)),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		MongoURI:      strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase: fallback(os.Getenv("MONGO_DATABASE"), "foodiehub"),
		JWTSecret:     strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:     fallback(os.Getenv("JWT_ISSUER"), "foodiehub"),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		UI: UI{
			AppName:        fallback(os.Getenv("APP_NAME"), "FoodieHub"),
			AppDescription: fallback(os.Getenv("APP_DESCRIPTION"), "Role-based Food Ordering System"),
			CountryFlags:   map[string]string{"India": "🇮🇳", "America": "🇺🇸"},
			Roles:          []models.UserRole{models.RoleAdmin, models.RoleManager, models.RoleMember},
		},
	}

	timeout, err := time.ParseDuration(fallback(os.Getenv("STORE_TIMEOUT"), "10s"))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT must be a positive duration, got %q", os.Getenv("STORE_TIMEOUT"))
	}
	cfg.StoreTimeout = timeout

	hours, err := strconv.Atoi(fallback(os.Getenv("JWT_TTL_HOURS"), "24"))
	if err != nil || hours <= 0 {
		return Config{}, fmt.Errorf("JWT_TTL_HOURS must be a positive integer, got %q", os.Getenv("JWT_TTL_HOURS"))
	}
	cfg.JWTTTL = time.Duration(hours) * time.Hour

	if cfg.JWTSecret == "" {
		if !cfg.DevMode {
			return Config{}, errors.New("JWT_SECRET is required")
		}
		cfg.JWTSecret = DevJWTSecret
	}

	switch cfg.StoreDriver {
	case store.DriverSQLite, store.DriverMemory:
	case store.DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required for the postgres store")
		}
	case store.DriverMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MONGO_URI is required for the mongo store")
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be one of sqlite, postgres, mongo, memory, got %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

// Store returns the settings for store.Open.
func (c Config) Store() store.Config {
	return store.Config{
		Driver:        c.StoreDriver,
		DatabaseURL:   c.DatabaseURL,
		MongoURI:      c.MongoURI,
		MongoDatabase: c.MongoDatabase,
		Timeout:       c.StoreTimeout,
	}
}

// ShouldSeed reports whether sample data is loaded at startup. The memory
// store always starts empty, so it is always seeded.
func (c Config) ShouldSeed() bool {
	return c.SeedData || c.StoreDriver == store.DriverMemory
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseBool(value string) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	return err == nil && b
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
