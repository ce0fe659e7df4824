package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Store drivers
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
	StoreDriverMemory   = "memory"
)

// Blob drivers
const (
	BlobDriverS3     = "s3"
	BlobDriverMemory = "memory"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	CORSOrigins string `yaml:"cors_origins"`

	// Entity store
	StoreDriver   string `yaml:"store_driver"`
	DatabaseURL   string `yaml:"database_url"`
	TablePrefix   string `yaml:"table_prefix"`
	MongoURI      string `yaml:"mongodb_uri"`
	MongoDatabase string `yaml:"mongodb_database"`

	// Credential verification
	JWTSecret string `yaml:"jwt_secret"`
	JWKSURL   string `yaml:"jwks_url"`

	// Binary object store
	BlobDriver            string `yaml:"blob_driver"`
	BlobNamespace         string `yaml:"blob_namespace"`
	BlobDeleteConcurrency int    `yaml:"blob_delete_concurrency"`
	S3Region              string `yaml:"s3_region"`
	S3Bucket              string `yaml:"s3_bucket"`
	S3Endpoint            string `yaml:"s3_endpoint"`
	S3AccessKeyID         string `yaml:"s3_access_key_id"`
	S3SecretAccessKey     string `yaml:"s3_secret_access_key"`
	S3PublicURL           string `yaml:"s3_public_url"`
	MaxUploadBytes        int64  `yaml:"max_upload_bytes"`

	// Logging
	LogDir      string `yaml:"log_dir"`
	LogMaxFiles int    `yaml:"log_max_files"`

	// malformed numeric environment variables, reported by Validate
	envErrs []error
}

// Load builds the configuration. Values from the YAML file named by
// CONFIG_FILE act as defaults; environment variables win over them.
func Load() (*Config, error) {
	file := &Config{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		var err error
		if file, err = loadFile(path); err != nil {
			return nil, err
		}
	}

	env := getEnv("ENVIRONMENT", orDefault(file.Environment, "dev"))
	var envErrs []error

	cfg := &Config{
		Port:        getEnv("PORT", orDefault(file.Port, "8080")),
		Environment: env,
		CORSOrigins: getEnv("CORS_ORIGINS", orDefault(file.CORSOrigins, "http://localhost:3000")),

		StoreDriver:   getEnv("STORE_DRIVER", orDefault(file.StoreDriver, StoreDriverPostgres)),
		DatabaseURL:   getEnv("DATABASE_URL", file.DatabaseURL),
		TablePrefix:   getTablePrefix(env, file.TablePrefix),
		MongoURI:      getEnv("MONGODB_URI", file.MongoURI),
		MongoDatabase: getEnv("MONGODB_DATABASE", orDefault(file.MongoDatabase, "imagevault")),

		JWTSecret: getEnv("JWT_SECRET", file.JWTSecret),
		JWKSURL:   getEnv("JWKS_URL", file.JWKSURL),

		BlobDriver:            getEnv("BLOB_DRIVER", orDefault(file.BlobDriver, BlobDriverS3)),
		BlobNamespace:         getEnv("BLOB_NAMESPACE", orDefault(file.BlobNamespace, "image-manager")),
		BlobDeleteConcurrency: getEnvInt("BLOB_DELETE_CONCURRENCY", orDefaultInt(file.BlobDeleteConcurrency, 4), &envErrs),
		S3Region:              getEnv("S3_REGION", orDefault(file.S3Region, "us-east-1")),
		S3Bucket:              getEnv("S3_BUCKET", file.S3Bucket),
		S3Endpoint:            getEnv("S3_ENDPOINT", file.S3Endpoint),
		S3AccessKeyID:         getEnv("S3_ACCESS_KEY_ID", file.S3AccessKeyID),
		S3SecretAccessKey:     getEnv("S3_SECRET_ACCESS_KEY", file.S3SecretAccessKey),
		S3PublicURL:           getEnv("S3_PUBLIC_URL", file.S3PublicURL),
		MaxUploadBytes:        getEnvInt64("MAX_UPLOAD_BYTES", orDefaultInt64(file.MaxUploadBytes, DefaultMaxUploadBytes), &envErrs),

		LogDir:      getEnv("LOG_DIR", file.LogDir),
		LogMaxFiles: getEnvInt("LOG_MAX_FILES", orDefaultInt(file.LogMaxFiles, 10), &envErrs),
	}
	cfg.envErrs = envErrs

	return cfg, nil
}

// Validate checks that the settings required by the selected drivers are present
func (c *Config) Validate() error {
	errs := append([]error(nil), c.envErrs...)

	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			errs = append(errs, errors.New("MONGODB_URI is required for the mongo store"))
		}
	case StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	switch c.BlobDriver {
	case BlobDriverS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 blob store"))
		}
	case BlobDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown BLOB_DRIVER %q", c.BlobDriver))
	}

	if c.JWTSecret == "" && c.JWKSURL == "" {
		errs = append(errs, errors.New("one of JWT_SECRET or JWKS_URL is required"))
	}
	if c.BlobDeleteConcurrency < 1 {
		errs = append(errs, errors.New("BLOB_DELETE_CONCURRENCY must be at least 1"))
	}
	if c.MaxUploadBytes < 1 {
		errs = append(errs, errors.New("MAX_UPLOAD_BYTES must be positive"))
	}

	return errors.Join(errs...)
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env, fromFile string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}
	if fromFile != "" {
		return fromFile
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt parses an integer variable. A malformed value keeps the default
// and is recorded in errs.
func getEnvInt(key string, defaultValue int, errs *[]error) int {
	n := getEnvInt64(key, int64(defaultValue), errs)
	return int(n)
}

func getEnvInt64(key string, defaultValue int64, errs *[]error) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return defaultValue
	}
	return n
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func orDefaultInt(value, fallback int) int {
	if value != 0 {
		return value
	}
	return fallback
}

func orDefaultInt64(value, fallback int64) int64 {
	if value != 0 {
		return value
	}
	return fallback
}
