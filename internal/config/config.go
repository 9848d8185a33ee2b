package config

import (
	"io"
	"log"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Auth
	FirebaseProjectID string
	FirebaseCredJSON  string
	ValidatorType     string // "jwk" or "firebase"
	JWTJWKSURL        string

	// Generation backend (opaque HTTP collaborator)
	GeneratorBaseURL        string
	GeneratorTimeoutSeconds int

	// Generation policy
	GenerationConfig *GenerationConfig `yaml:"generation"`

	// Input sessions
	InputSessionDir        string
	InputSessionMaxAgeDays int
	JanitorSchedule        string // cron expression for the daily session sweep

	// Database (generation audit log)
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxIdleTime int // in minutes
	DBConnMaxLifetime int // in minutes

	// Worker Pool
	TrackingWorkerPoolSize int
	TrackingBufferSize     int
	TrackingTimeoutSeconds int

	// Server
	ServerShutdownTimeoutSeconds int

	// CORS
	CORSAllowedOrigins string

	// Logging
	LogLevel  string
	LogFormat string
}

// GenerationConfig holds the shared generation policy. The daily cap is
// global across all content features, not per-feature.
type GenerationConfig struct {
	DailyLimit          int    `yaml:"daily_limit"`
	QuizSubmissionLimit int    `yaml:"quiz_submission_limit"`
	MinInputChars       int    `yaml:"min_input_chars"`
	DefaultLanguage     string `yaml:"default_language"`
	// FlashcardSampleFallback keeps the flashcard feature populated with a
	// built-in sample deck when the backend is unreachable. The other
	// features surface the error instead.
	FlashcardSampleFallback bool `yaml:"flashcard_sample_fallback"`
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Auth
		FirebaseProjectID: getEnvOrDefault("FIREBASE_PROJECT_ID", ""),
		FirebaseCredJSON:  getEnvOrDefault("FIREBASE_CRED_JSON", ""),
		ValidatorType:     getEnvOrDefault("VALIDATOR_TYPE", "firebase"),
		JWTJWKSURL:        getEnvOrDefault("JWT_JWKS_URL", ""),

		// Generation backend
		GeneratorBaseURL:        getEnvOrDefault("GENERATOR_BASE_URL", "http://localhost:8000"),
		GeneratorTimeoutSeconds: getEnvAsInt("GENERATOR_TIMEOUT_SECONDS", 120),

		GenerationConfig: &GenerationConfig{
			DailyLimit:              getEnvAsInt("DAILY_GENERATION_LIMIT", 10),
			QuizSubmissionLimit:     getEnvAsInt("QUIZ_SUBMISSION_LIMIT", 5),
			MinInputChars:           getEnvAsInt("MIN_INPUT_CHARS", 100),
			DefaultLanguage:         getEnvOrDefault("DEFAULT_LANGUAGE", "English"),
			FlashcardSampleFallback: getEnvOrDefault("FLASHCARD_SAMPLE_FALLBACK", "true") == "true",
		},

		// Input sessions
		InputSessionDir:        getEnvOrDefault("INPUT_SESSION_DIR", "./data/input_sessions"),
		InputSessionMaxAgeDays: getEnvAsInt("INPUT_SESSION_MAX_AGE_DAYS", 30),
		JanitorSchedule:        getEnvOrDefault("JANITOR_SCHEDULE", "0 3 * * *"),

		// Database
		// Empty DATABASE_URL disables the generation audit log.
		DatabaseURL:       getEnvOrDefault("DATABASE_URL", ""),
		DBMaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 15),
		DBMaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxIdleTime: getEnvAsInt("DB_CONN_MAX_IDLE_TIME_MINUTES", 1),
		DBConnMaxLifetime: getEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 30),

		// Worker Pool
		TrackingWorkerPoolSize: getEnvAsInt("TRACKING_WORKER_POOL_SIZE", 10),
		TrackingBufferSize:     getEnvAsInt("TRACKING_BUFFER_SIZE", 1000),
		TrackingTimeoutSeconds: getEnvAsInt("TRACKING_TIMEOUT_SECONDS", 30),

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// CORS
		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// Load generation policy overrides from a configuration file when one
	// is present. Environment variables seed the defaults above; the file
	// wins for the generation section so policy can ship without redeploys.
	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")
	if configFile, err := os.Open(configFilePath); err == nil {
		defer configFile.Close()

		log.Printf("Loading config file: %v", configFilePath)
		if err := LoadConfigFile(configFile, AppConfig); err != nil {
			log.Fatalf("Failed to load config file: %v", err)
		}
	}

	if AppConfig.GenerationConfig.DailyLimit <= 0 {
		log.Fatal("Daily generation limit must be positive")
	}

	if AppConfig.FirebaseProjectID == "" {
		log.Println("Warning: Firebase project ID is missing. Please set FIREBASE_PROJECT_ID environment variable.")
	}

	if AppConfig.GeneratorBaseURL == "" {
		log.Println("Warning: generator base URL is missing. Please set GENERATOR_BASE_URL environment variable.")
	}

	log.Println("Firebase project ID: ", AppConfig.FirebaseProjectID)
	log.Printf("Generation policy: daily_limit=%d min_input_chars=%d",
		AppConfig.GenerationConfig.DailyLimit, AppConfig.GenerationConfig.MinInputChars)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

// fileOverrides mirrors the generation section of the config file with
// pointer fields so absent keys keep their environment-seeded defaults.
type fileOverrides struct {
	Generation struct {
		DailyLimit              *int    `yaml:"daily_limit"`
		QuizSubmissionLimit     *int    `yaml:"quiz_submission_limit"`
		MinInputChars           *int    `yaml:"min_input_chars"`
		DefaultLanguage         *string `yaml:"default_language"`
		FlashcardSampleFallback *bool   `yaml:"flashcard_sample_fallback"`
	} `yaml:"generation"`
}

func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	var overrides fileOverrides
	if err := decoder.Decode(&overrides); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	gen := config.GenerationConfig
	if overrides.Generation.DailyLimit != nil {
		gen.DailyLimit = *overrides.Generation.DailyLimit
	}
	if overrides.Generation.QuizSubmissionLimit != nil {
		gen.QuizSubmissionLimit = *overrides.Generation.QuizSubmissionLimit
	}
	if overrides.Generation.MinInputChars != nil {
		gen.MinInputChars = *overrides.Generation.MinInputChars
	}
	if overrides.Generation.DefaultLanguage != nil {
		gen.DefaultLanguage = *overrides.Generation.DefaultLanguage
	}
	if overrides.Generation.FlashcardSampleFallback != nil {
		gen.FlashcardSampleFallback = *overrides.Generation.FlashcardSampleFallback
	}

	return nil
}
