// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string

	// Server
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (detection run history)
	PostgresURI string

	// Detection thresholds
	Detection DetectionConfig

	// Views
	PageSize int
}

// DetectionConfig holds the tunable thresholds of the signal detectors.
// Defaults reproduce the cooperative's agreed business rules.
type DetectionConfig struct {
	ContributionWindow        time.Duration // trailing window for the population mean
	LowContributionRatio      float64       // flag below this fraction of the mean
	InactivityCutoff          time.Duration
	DriverCancelMinBookings   int
	DriverCancelRate          float64 // percent
	NoShowMinBookings         int
	NoShowRate                float64 // percent
	CustomerCancelMinBookings int
	CustomerCancelRate        float64 // percent
	WrongPinMinBookings       int
	WrongPinRate              float64 // percent
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion:   getEnv("APP_VERSION", "1.0.0"),
		Port:         getEnv("PORT", "8080"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "toda"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", "host=localhost user=toda dbname=toda port=5432"),

		Detection: DetectionConfig{
			ContributionWindow:        time.Duration(getEnvAsInt("CONTRIBUTION_WINDOW_DAYS", 7)) * 24 * time.Hour,
			LowContributionRatio:      getEnvAsFloat("LOW_CONTRIBUTION_RATIO", 0.5),
			InactivityCutoff:          time.Duration(getEnvAsInt("INACTIVITY_CUTOFF_DAYS", 7)) * 24 * time.Hour,
			DriverCancelMinBookings:   getEnvAsInt("DRIVER_CANCEL_MIN_BOOKINGS", 10),
			DriverCancelRate:          getEnvAsFloat("DRIVER_CANCEL_RATE", 15),
			NoShowMinBookings:         getEnvAsInt("NO_SHOW_MIN_BOOKINGS", 5),
			NoShowRate:                getEnvAsFloat("NO_SHOW_RATE", 20),
			CustomerCancelMinBookings: getEnvAsInt("CUSTOMER_CANCEL_MIN_BOOKINGS", 10),
			CustomerCancelRate:        getEnvAsFloat("CUSTOMER_CANCEL_RATE", 25),
			WrongPinMinBookings:       getEnvAsInt("WRONG_PIN_MIN_BOOKINGS", 5),
			WrongPinRate:              getEnvAsFloat("WRONG_PIN_RATE", 30),
		},

		PageSize: getEnvAsInt("PAGE_SIZE", 25),
	}

	return config, nil
}

// DefaultDetectionConfig returns the detection thresholds with their
// built-in defaults, without touching the environment.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		ContributionWindow:        7 * 24 * time.Hour,
		LowContributionRatio:      0.5,
		InactivityCutoff:          7 * 24 * time.Hour,
		DriverCancelMinBookings:   10,
		DriverCancelRate:          15,
		NoShowMinBookings:         5,
		NoShowRate:                20,
		CustomerCancelMinBookings: 10,
		CustomerCancelRate:        25,
		WrongPinMinBookings:       5,
		WrongPinRate:              30,
	}
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
