package config

import (
	"log/slog"
	"time"
)

// Config holds the application configuration.
type Config struct {
	MongoURI           string
	DatabaseName       string
	CollectionName     string
	OperationTimeout   time.Duration
	ImportDir          string
	ProcessedDir       string
	MoveProcessedFiles bool
	SyntheticDataDir   string
	SyntheticDataRows  int
	DisplayLanguage    string
	LogLevel           slog.Level
	Timeout            time.Duration
}
