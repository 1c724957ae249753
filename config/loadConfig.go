package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values.
const (
	defaultTimeoutSeconds     = 30
	defaultOpTimeoutSeconds   = 10
	defaultMongoHost          = "localhost"
	defaultMongoPort          = "27017"
	defaultDatabaseName       = "expense_manager"
	defaultCollectionName     = "expenses"
	defaultImportDir          = "./data/unprocessed"
	defaultProcessedDir       = "./data/processed"
	defaultMoveProcessedFiles = false
	defaultSyntheticDataDir   = "tmp/synthetic"
	defaultSyntheticDataRows  = 100
	defaultDisplayLanguage    = "en"
	defaultLogLevel           = slog.LevelDebug
	envMongoURI               = "MONGO_URI"
	envMongoHost              = "MONGO_HOST"
	envMongoPort              = "MONGO_PORT"
	envMongoUser              = "MONGO_USER"
	envMongoPassword          = "MONGO_PASSWORD"
	envMongoDatabase          = "MONGO_DB"
	envMongoCollection        = "MONGO_COLLECTION"
	envOpTimeoutSeconds       = "OP_TIMEOUT_SECONDS"
	envImportDirectory        = "IMPORT_DIR"
	envProcessedDirectory     = "PROCESSED_DIR"
	envMoveProcessedFiles     = "MOVE_PROCESSED_FILES"
	envSyntheticDataDir       = "SYNTHETIC_DATA_DIR"
	envSyntheticDataRows      = "SYNTHETIC_DATA_ROWS"
	envDisplayLanguage        = "DISPLAY_LANG"
	envLogLevel               = "LOG_LEVEL"
)

// LoadEnvFile loads filenames, or .env in the working directory, into the
// environment. Missing files are ignored; unreadable or malformed ones are
// returned as errors.
func LoadEnvFile(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load env file: %w", err)
	}

	return nil
}

// LogLevelFromEnv returns the level named by LOG_LEVEL, or debug.
func LogLevelFromEnv() slog.Level {
	level := defaultLogLevel
	if value := os.Getenv(envLogLevel); value != "" {
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return defaultLogLevel
		}
	}

	return level
}

// LoadConfig loads the application configuration from environment variables or uses default values.
func LoadConfig(ctx context.Context, logger *slog.Logger) *Config {
	mongoURI := formatMongoURI(ctx, os.Getenv(envMongoURI), logger)

	return &Config{
		MongoURI:           mongoURI,
		DatabaseName:       envString(ctx, logger, envMongoDatabase, defaultDatabaseName),
		CollectionName:     envString(ctx, logger, envMongoCollection, defaultCollectionName),
		OperationTimeout:   time.Duration(envInt(ctx, logger, envOpTimeoutSeconds, defaultOpTimeoutSeconds)) * time.Second,
		ImportDir:          envString(ctx, logger, envImportDirectory, defaultImportDir),
		ProcessedDir:       envString(ctx, logger, envProcessedDirectory, defaultProcessedDir),
		MoveProcessedFiles: envBool(ctx, logger, envMoveProcessedFiles, defaultMoveProcessedFiles),
		SyntheticDataDir:   envString(ctx, logger, envSyntheticDataDir, defaultSyntheticDataDir),
		SyntheticDataRows:  envInt(ctx, logger, envSyntheticDataRows, defaultSyntheticDataRows),
		DisplayLanguage:    envString(ctx, logger, envDisplayLanguage, defaultDisplayLanguage),
		LogLevel:           LogLevelFromEnv(),
		Timeout:            defaultTimeoutSeconds * time.Second,
	}
}

func envString(ctx context.Context, logger *slog.Logger, key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.DebugContext(ctx, "Using default value", "key", key, "value", fallback)
		return fallback
	}

	logger.DebugContext(ctx, "Using value from environment variable", "key", key, "value", value)
	return value
}

func envInt(ctx context.Context, logger *slog.Logger, key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		logger.DebugContext(ctx, "Using default value", "key", key, "value", fallback)
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		logger.WarnContext(
			ctx,
			"Invalid value for "+key+", using default",
			"value", value,
			"default", fallback,
			"error", err,
		)
		return fallback
	}

	logger.DebugContext(ctx, "Using value from environment variable", "key", key, "value", parsed)
	return parsed
}

func envBool(ctx context.Context, logger *slog.Logger, key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		logger.DebugContext(ctx, "Using default value", "key", key, "value", fallback)
		return fallback
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logger.WarnContext(
			ctx,
			"Invalid value for "+key+", using default",
			"value", value,
			"default", fallback,
			"error", err,
		)
		return fallback
	}

	logger.DebugContext(ctx, "Using value from environment variable", "key", key, "value", parsed)
	return parsed
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable")
		return mongoURI
	}

	mongoHost := envString(ctx, logger, envMongoHost, defaultMongoHost)
	mongoPort := envString(ctx, logger, envMongoPort, defaultMongoPort)
	hostPort := net.JoinHostPort(mongoHost, mongoPort)

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "host", hostPort)
		return fmt.Sprintf("mongodb://%s:%s@%s/?authSource=admin", mongoUser, mongoPassword, hostPort)
	}

	mongoURI = fmt.Sprintf("mongodb://%s", hostPort)
	logger.DebugContext(ctx, "Using MongoDB URI from host", "uri", mongoURI)
	return mongoURI
}
