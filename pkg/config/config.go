package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Places    PlacesConfig
	Recommend RecommendConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

// PlacesConfig selects and tunes the nearby-places provider.
type PlacesConfig struct {
	Provider          string // "google" or "foursquare"
	APIKey            string
	RadiusMeters      float64
	MaxResults        int
	Timeout           time.Duration
	CacheTTL          time.Duration
	RequestsPerSecond float64
}

// RecommendConfig holds the tuning constants of the recommendation
// pipeline. The dedup window and rate thresholds varied between
// revisions of the predecessor system; they are fixed here deliberately
// rather than inherited from either one.
type RecommendConfig struct {
	DedupWindow      time.Duration
	TrendWindowDays  int
	MinCategoryRate  float64 // per-category picks must earn strictly more than this
	MinFallbackRate  float64 // flat-rate fills must earn at least this
	RentThreshold    float64
	MaxSuggestions   int
	HighFeeThreshold float64
	HighFeeMinSpend  float64
	AnyFeeMinSpend   float64
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env is fine; plain environment variables work for Docker/K8s.

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "720"))

	placesRadius, _ := strconv.ParseFloat(getEnv("PLACES_RADIUS_METERS", "150"), 64)
	placesMax, _ := strconv.Atoi(getEnv("PLACES_MAX_RESULTS", "20"))
	placesTimeout, _ := strconv.Atoi(getEnv("PLACES_TIMEOUT_SECONDS", "10"))
	placesCacheTTL, _ := strconv.Atoi(getEnv("PLACES_CACHE_TTL_SECONDS", "60"))
	placesRPS, _ := strconv.ParseFloat(getEnv("PLACES_REQUESTS_PER_SECOND", "5"), 64)

	dedupMinutes, _ := strconv.Atoi(getEnv("DEDUP_WINDOW_MINUTES", "30"))
	trendDays, _ := strconv.Atoi(getEnv("TREND_WINDOW_DAYS", "30"))
	minCategoryRate, _ := strconv.ParseFloat(getEnv("MIN_CATEGORY_RATE", "2.0"), 64)
	minFallbackRate, _ := strconv.ParseFloat(getEnv("MIN_FALLBACK_RATE", "2.0"), 64)
	rentThreshold, _ := strconv.ParseFloat(getEnv("RENT_THRESHOLD", "1000"), 64)
	maxSuggestions, _ := strconv.Atoi(getEnv("MAX_SUGGESTIONS", "3"))
	highFeeThreshold, _ := strconv.ParseFloat(getEnv("HIGH_FEE_THRESHOLD", "100"), 64)
	highFeeMinSpend, _ := strconv.ParseFloat(getEnv("HIGH_FEE_MIN_SPEND", "2000"), 64)
	anyFeeMinSpend, _ := strconv.ParseFloat(getEnv("ANY_FEE_MIN_SPEND", "800"), 64)

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "tapright"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "tapright-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		Places: PlacesConfig{
			Provider:          getEnv("PLACES_PROVIDER", "google"),
			APIKey:            getEnv("PLACES_API_KEY", ""),
			RadiusMeters:      placesRadius,
			MaxResults:        placesMax,
			Timeout:           time.Duration(placesTimeout) * time.Second,
			CacheTTL:          time.Duration(placesCacheTTL) * time.Second,
			RequestsPerSecond: placesRPS,
		},
		Recommend: RecommendConfig{
			DedupWindow:      time.Duration(dedupMinutes) * time.Minute,
			TrendWindowDays:  trendDays,
			MinCategoryRate:  minCategoryRate,
			MinFallbackRate:  minFallbackRate,
			RentThreshold:    rentThreshold,
			MaxSuggestions:   maxSuggestions,
			HighFeeThreshold: highFeeThreshold,
			HighFeeMinSpend:  highFeeMinSpend,
			AnyFeeMinSpend:   anyFeeMinSpend,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
