package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageBackendGCS    = "gcs"
	StorageBackendMemory = "memory"
)

type Config struct {
	ServerPort  string
	Environment string
	PublicDir   string

	FirebaseProject            string
	StorageBackend             string
	StorageBucket              string
	FirebaseCredentialsBase64  string
	FirebaseServiceAccountPath string
	ConfigureBucketCORS        bool

	OpenAIAPIKey              string
	OpenAIBaseURL             string
	OpenAIModel               string
	OpenAIMaxCompletionTokens int
	GenerationTimeout         time.Duration

	StorageTimeout  time.Duration
	ListConcurrency int
	MaxUploadFiles  int
	MaxUploadBytes  int64

	GenerationRatePerMinute int
	GenerationBurst         int

	AllowedOrigins []string
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		PublicDir:   getEnv("PUBLIC_DIR", "public"),

		FirebaseProject:            getEnv("FIREBASE_PROJECT_ID", ""),
		StorageBackend:             getEnv("STORAGE_BACKEND", StorageBackendGCS),
		StorageBucket:              getEnv("FIREBASE_BUCKET", ""),
		FirebaseCredentialsBase64:  getEnv("FIREBASE_ADMINSDK_BASE64", ""),
		FirebaseServiceAccountPath: getEnv("FIREBASE_SERVICE_ACCOUNT_PATH", ""),
		ConfigureBucketCORS:        getEnvAsBool("CONFIGURE_BUCKET_CORS", false),

		OpenAIAPIKey:              getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:             getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:               getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIMaxCompletionTokens: getEnvAsInt("OPENAI_MAX_COMPLETION_TOKENS", 2048),
		GenerationTimeout:         getEnvAsDuration("GENERATION_TIMEOUT", 2*time.Minute),

		StorageTimeout:  getEnvAsDuration("STORAGE_TIMEOUT", 30*time.Second),
		ListConcurrency: getEnvAsInt("LIST_CONCURRENCY", 8),
		MaxUploadFiles:  getEnvAsInt("MAX_UPLOAD_FILES", 10),
		MaxUploadBytes:  int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10*1024*1024)),

		GenerationRatePerMinute: getEnvAsInt("GENERATION_RATE_PER_MINUTE", 10),
		GenerationBurst:         getEnvAsInt("GENERATION_BURST", 3),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", []string{
			"https://etsydb-fdad2.web.app",
			"http://localhost:5173",
		}),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageBackendGCS:
		if c.StorageBucket == "" {
			return fmt.Errorf("FIREBASE_BUCKET is required")
		}
	case StorageBackendMemory:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required")
	}
	if c.ListConcurrency <= 0 {
		return fmt.Errorf("LIST_CONCURRENCY must be positive, got %d", c.ListConcurrency)
	}
	if c.MaxUploadFiles <= 0 {
		return fmt.Errorf("MAX_UPLOAD_FILES must be positive, got %d", c.MaxUploadFiles)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// UploadBodyLimit is the request body cap for the multipart upload route, in
// the notation echo's BodyLimit middleware expects.
func (c *Config) UploadBodyLimit() string {
	limit := c.MaxUploadBytes*int64(c.MaxUploadFiles) + 1024*1024
	return fmt.Sprintf("%dK", limit/1024)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		boolValue, err := strconv.ParseBool(value)
		if err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
